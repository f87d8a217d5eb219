package imop

import (
	"errors"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/esimov/ciya/geom"
	"github.com/esimov/ciya/utils"
	"golang.org/x/image/draw"
)

// ErrSingular is returned when the warp transform cannot be inverted.
var ErrSingular = errors.New("imop: singular projection")

// premul is an image stored as premultiplied float channels.
type premul struct {
	pix  []float64
	w, h int
}

func newPremul(src *image.NRGBA) *premul {
	b := src.Bounds()
	p := &premul{
		pix: make([]float64, b.Dx()*b.Dy()*4),
		w:   b.Dx(),
		h:   b.Dy(),
	}
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			a := float64(c.A) / 255
			i := (y*p.w + x) * 4
			p.pix[i+0] = float64(c.R) / 255 * a
			p.pix[i+1] = float64(c.G) / 255 * a
			p.pix[i+2] = float64(c.B) / 255 * a
			p.pix[i+3] = a
		}
	}
	return p
}

// WarpPerspective renders src into dst through the projection proj, which
// maps src coordinates onto dst coordinates. Every dst pixel is sampled from
// its preimage with bicubic interpolation. Pixels whose preimage falls
// outside of src are left transparent.
func WarpPerspective(dst, src *image.NRGBA, proj geom.Projection) error {
	inv, ok := proj.Invert()
	if !ok {
		return ErrSingular
	}

	sp := newPremul(src)
	db := dst.Bounds()

	workers := utils.Min(runtime.NumCPU(), utils.Max(db.Dy(), 1))
	rows := make(chan int, db.Dy())
	for y := db.Min.Y; y < db.Max.Y; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := db.Min.X; x < db.Max.X; x++ {
					sx, sy := inv.ApplyXY(float64(x-db.Min.X), float64(y-db.Min.Y))
					dst.SetNRGBA(x, y, sp.bicubic(sx, sy))
				}
			}
		}()
	}
	wg.Wait()

	return nil
}

// bicubic samples the image at (x, y) with the Catmull-Rom kernel.
// Neighbours falling outside the image are clamped to the border.
func (p *premul) bicubic(x, y float64) color.NRGBA {
	if math.IsNaN(x) || math.IsNaN(y) ||
		x < 0 || y < 0 || x > float64(p.w-1) || y > float64(p.h-1) {
		return color.NRGBA{}
	}

	x0, y0 := math.Floor(x), math.Floor(y)
	wx := cubicWeights(x - x0)
	wy := cubicWeights(y - y0)
	ix, iy := int(x0), int(y0)

	var acc [4]float64
	for j := 0; j < 4; j++ {
		row := utils.Clamp(iy+j-1, 0, p.h-1)
		for i := 0; i < 4; i++ {
			col := utils.Clamp(ix+i-1, 0, p.w-1)
			w := wx[i] * wy[j]
			off := (row*p.w + col) * 4
			acc[0] += w * p.pix[off+0]
			acc[1] += w * p.pix[off+1]
			acc[2] += w * p.pix[off+2]
			acc[3] += w * p.pix[off+3]
		}
	}

	a := utils.Clamp(acc[3], 0, 1)
	if a == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: denormalize(utils.Clamp(acc[0], 0, a) / a),
		G: denormalize(utils.Clamp(acc[1], 0, a) / a),
		B: denormalize(utils.Clamp(acc[2], 0, a) / a),
		A: denormalize(a),
	}
}

// cubicWeights returns the kernel weights of the four taps
// surrounding a sample with fractional offset t.
func cubicWeights(t float64) [4]float64 {
	return [4]float64{
		kernelAt(1 + t),
		kernelAt(t),
		kernelAt(1 - t),
		kernelAt(2 - t),
	}
}

func kernelAt(t float64) float64 {
	t = math.Abs(t)
	if t >= draw.CatmullRom.Support {
		return 0
	}
	return draw.CatmullRom.At(t)
}
