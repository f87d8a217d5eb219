package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

// compose draws src over a copy of backdrop.
func compose(op *Composite, src, backdrop *image.NRGBA, blend *Blend) *image.NRGBA {
	dst := image.NewNRGBA(backdrop.Bounds())
	copy(dst.Pix, backdrop.Pix)
	op.DrawAt(dst, src, image.Point{}, blend)
	return dst
}

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(Clear))
	assert.Equal(Clear, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(Clear, op.Get())

	assert.NoError(op.Set(Dst))
	assert.Equal(Dst, op.Get())
}

func TestComp_Ops(t *testing.T) {
	transparent := color.NRGBA{R: 0, G: 0, B: 0, A: 0}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)

	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
	draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

	// Three representative pixels: backdrop only, source only and their overlap.
	tests := []struct {
		op                          string
		topRight, bottomLeft, center color.NRGBA
	}{
		{Clear, transparent, transparent, transparent},
		{Copy, transparent, cyan, cyan},
		{Dst, magenta, transparent, magenta},
		{SrcOver, magenta, cyan, cyan},
		{DstOver, magenta, cyan, magenta},
		{SrcIn, transparent, transparent, cyan},
		{DstIn, transparent, transparent, magenta},
		{SrcOut, transparent, cyan, transparent},
		{DstOut, magenta, transparent, transparent},
		{SrcAtop, magenta, transparent, cyan},
		{DstAtop, transparent, cyan, magenta},
		{Xor, magenta, cyan, transparent},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			op := InitOp()
			assert.NoError(t, op.Set(tt.op))

			out := compose(op, source, backdrop, nil)

			assert.Equal(t, tt.topRight, out.NRGBAAt(9, 0))
			assert.Equal(t, tt.bottomLeft, out.NRGBAAt(0, 9))
			assert.Equal(t, tt.center, out.NRGBAAt(5, 5))
		})
	}
}

func TestComp_DrawAtClipsOffsets(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(src, src.Bounds(), &image.Uniform{red}, image.Point{}, draw.Src)

	tests := []struct {
		name    string
		at      image.Point
		covered []image.Point
		kept    []image.Point
	}{
		{
			name:    "inside",
			at:      image.Pt(2, 2),
			covered: []image.Point{{2, 2}, {5, 5}},
			kept:    []image.Point{{1, 1}, {6, 6}},
		},
		{
			name:    "negative offset",
			at:      image.Pt(-2, -3),
			covered: []image.Point{{0, 0}, {1, 0}},
			kept:    []image.Point{{2, 0}, {0, 1}},
		},
		{
			name:    "past the right edge",
			at:      image.Pt(6, 0),
			covered: []image.Point{{6, 0}, {7, 3}},
			kept:    []image.Point{{5, 0}, {7, 4}},
		},
		{
			name: "outside",
			at:   image.Pt(-10, -10),
			kept: []image.Point{{0, 0}, {7, 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
			draw.Draw(dst, dst.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)

			InitOp().DrawAt(dst, src, tt.at, nil)

			for _, p := range tt.covered {
				assert.Equal(t, red, dst.NRGBAAt(p.X, p.Y), "pixel %v", p)
			}
			for _, p := range tt.kept {
				assert.Equal(t, white, dst.NRGBAAt(p.X, p.Y), "pixel %v", p)
			}
		})
	}
}

func TestComp_DrawAtTranslucent(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	dst.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 255, A: 255})

	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 51})

	InitOp().DrawAt(dst, src, image.Point{}, nil)

	assert.Equal(t, color.NRGBA{R: 51, G: 0, B: 204, A: 255}, dst.NRGBAAt(0, 0))
}
