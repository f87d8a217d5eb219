package ciya

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/esimov/ciya/geom"
	"github.com/esimov/ciya/imop"
)

// MaxCanvasPixels bounds the size of the supersampled overlay canvas.
const MaxCanvasPixels = 1 << 26

// Projector lays the overlay sprite onto the mouth of an image.
// Its fields must not be changed once it is in use; after that
// a Projector is safe for concurrent use.
type Projector struct {
	Geometry Geometry
	// CompositeOp is the Porter-Duff operator used to lay the overlay
	// onto the image. Defaults to imop.SrcOver.
	CompositeOp string
	// BlendMode is an optional imop blend mode.
	BlendMode string

	sprite  *image.NRGBA
	flipped *image.NRGBA
}

var (
	defaultProjector *Projector
	defaultOnce      sync.Once
)

// DefaultProjector returns the shared projector using the built-in sprite.
func DefaultProjector() *Projector {
	defaultOnce.Do(func() {
		defaultProjector = NewProjector(DefaultSprite())
	})
	return defaultProjector
}

// NewProjector returns a projector using the provided sprite, whose
// outline is expected to be the lower half of an ellipse touching the
// top corners and the bottom edge.
func NewProjector(sprite image.Image) *Projector {
	img := imgToNRGBA(sprite)
	b := img.Bounds()

	return &Projector{
		Geometry:    GeometryFor(b.Dx(), b.Dy()),
		CompositeOp: imop.SrcOver,
		sprite:      img,
		flipped:     imaging.FlipV(img),
	}
}

// Sprite returns the overlay used for the emotion. Auto resolves to
// the variant matching smile.
func (p *Projector) Sprite(emotion Emotion, smile bool) *image.NRGBA {
	switch emotion {
	case Smile:
		return p.sprite
	case Cry:
		return p.flipped
	}
	if smile {
		return p.sprite
	}
	return p.flipped
}

// Fit classifies the control points and computes the projection of the
// sprite onto them. Convex quadrilaterals try the RespectEdge strategy
// first and fall back to Naive.
func (p *Projector) Fit(cp geom.ControlPoints[float64]) (Fit, error) {
	smile, ok := IsSmile(cp)
	if !ok {
		return Fit{}, mathError("invalid control points")
	}
	convex, ok := geom.IsConvex(cp)
	if !ok {
		return Fit{}, mathError("invalid control points")
	}

	b := p.sprite.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	if convex {
		if fit, ok := p.Geometry.fit(cp, RespectEdge, smile, w, h); ok {
			return fit, nil
		}
	}
	if fit, ok := p.Geometry.fit(cp, Naive, smile, w, h); ok {
		return fit, nil
	}
	return Fit{}, mathError("unable to compute projection matrix")
}

// Compose returns a copy of img with the overlay warped onto the mouth
// described by cp. The overlay is rendered antialias times larger than
// needed and scaled down afterwards.
func (p *Projector) Compose(img image.Image, cp geom.ControlPoints[float64], emotion Emotion, antialias int) (*image.NRGBA, error) {
	if antialias < 1 {
		return nil, mathError(fmt.Sprintf("invalid antialias scale %d", antialias))
	}
	fit, err := p.Fit(cp)
	if err != nil {
		return nil, err
	}
	return p.Render(img, p.Sprite(emotion, fit.Smile), fit, antialias)
}

// Render warps sprite through fit and lays it onto a copy of img.
func (p *Projector) Render(img image.Image, sprite *image.NRGBA, fit Fit, antialias int) (*image.NRGBA, error) {
	aa := float64(antialias)
	if fit.Size.IsIrregular() || fit.Size.X < 1 || fit.Size.Y < 1 {
		return nil, mathError("empty overlay canvas")
	}
	if fit.Size.X*aa*fit.Size.Y*aa > MaxCanvasPixels {
		return nil, mathError("overlay canvas too large")
	}

	w, h := int(fit.Size.X), int(fit.Size.Y)
	canvas := image.NewNRGBA(image.Rect(0, 0, w*antialias, h*antialias))
	proj := geom.ScaleProjection(aa, aa).Mul(fit.Transform)
	if err := imop.WarpPerspective(canvas, sprite, proj); err != nil {
		return nil, mathError("unable to compute projection matrix")
	}

	overlay := canvas
	if antialias > 1 {
		overlay = imaging.Resize(canvas, w, h, imaging.Lanczos)
	}

	comp := imop.InitOp()
	if p.CompositeOp != "" {
		if err := comp.Set(p.CompositeOp); err != nil {
			return nil, err
		}
	}
	var blend *imop.Blend
	if p.BlendMode != "" {
		blend = imop.NewBlend()
		if err := blend.Set(p.BlendMode); err != nil {
			return nil, err
		}
	}

	dst := imaging.Clone(img)
	// Clone moves the image origin to (0, 0).
	at := image.Pt(int(math.Floor(fit.Offset.X)), int(math.Floor(fit.Offset.Y))).Sub(img.Bounds().Min)
	comp.DrawAt(dst, overlay, at, blend)

	return dst, nil
}
