package imop

import (
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/ciya/utils"
)

// Porter-Duff composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Ops lists the supported composition operators.
var Ops = []string{
	Clear, Copy, Dst, SrcOver, DstOver, SrcIn, DstIn, SrcOut, DstOut, SrcAtop, DstAtop, Xor,
}

// Composite holds the currently active composition operator.
type Composite struct {
	current string
}

// InitOp returns a Composite using SrcOver.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operators.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(Ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operator.
func (op *Composite) Get() string {
	return op.current
}

// DrawAt composes src onto dst in place with the top-left corner of src
// placed at pt. The parts of src falling outside of dst are clipped.
func (op *Composite) DrawAt(dst, src *image.NRGBA, pt image.Point, blend *Blend) {
	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	delta := sb.Min.Sub(pt)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.NRGBAAt(x+delta.X, y+delta.Y)
			d := dst.NRGBAAt(x, y)
			dst.SetNRGBA(x, y, op.mix(s, d, blend))
		}
	}
}

// mix applies the blend mode, if any, then the composition operator.
func (op *Composite) mix(s, d color.NRGBA, blend *Blend) color.NRGBA {
	rs, gs, bs, as := normalize(s)
	rb, gb, bb, ab := normalize(d)

	if blend != nil && blend.Get() != "" {
		// The blended color replaces the source where the backdrop is opaque.
		r, g, b := blend.apply(rs, gs, bs, rb, gb, bb)
		rs = (1-ab)*rs + ab*r
		gs = (1-ab)*gs + ab*g
		bs = (1-ab)*bs + ab*b
	}

	// Source and backdrop coverage factors.
	var fs, fb float64
	switch op.current {
	case Clear:
		fs, fb = 0, 0
	case Copy:
		fs, fb = 1, 0
	case Dst:
		fs, fb = 0, 1
	case SrcOver:
		fs, fb = 1, 1-as
	case DstOver:
		fs, fb = 1-ab, 1
	case SrcIn:
		fs, fb = ab, 0
	case DstIn:
		fs, fb = 0, as
	case SrcOut:
		fs, fb = 1-ab, 0
	case DstOut:
		fs, fb = 0, 1-as
	case SrcAtop:
		fs, fb = ab, 1-as
	case DstAtop:
		fs, fb = 1-ab, as
	case Xor:
		fs, fb = 1-ab, 1-as
	}

	ao := as*fs + ab*fb
	if ao <= 0 {
		return color.NRGBA{}
	}
	ro := (as*fs*rs + ab*fb*rb) / ao
	gO := (as*fs*gs + ab*fb*gb) / ao
	bo := (as*fs*bs + ab*fb*bb) / ao

	return color.NRGBA{
		R: denormalize(ro),
		G: denormalize(gO),
		B: denormalize(bo),
		A: denormalize(ao),
	}
}

func normalize(c color.NRGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

func denormalize(v float64) uint8 {
	return uint8(utils.Clamp(v*255+0.5, 0, 255))
}
