// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop, together with a
// handful of separable blend modes and the projective warp which maps
// the overlay sprite onto its target quadrilateral.
//
// The image/draw core package implements only the source-over-destination
// and source operators. This package covers the missing ones, and is
// mainly used to lay the warped overlay onto the input image.
package imop

import (
	"fmt"

	"github.com/esimov/ciya/utils"
)

// Separable blend modes.
const (
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// BlendModes lists the supported blend modes.
var BlendModes = []string{Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(BlendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	if len(o.OpType) > 0 {
		return o.OpType
	}
	return ""
}

// apply mixes the normalized source and backdrop colors.
func (o *Blend) apply(rs, gs, bs, rb, gb, bb float64) (r, g, b float64) {
	return o.channel(rs, rb), o.channel(gs, gb), o.channel(bs, bb)
}

func (o *Blend) channel(s, b float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(s, b)
	case Lighten:
		return utils.Max(s, b)
	case Multiply:
		return s * b
	case Screen:
		return s + b - s*b
	case Overlay:
		if b <= 0.5 {
			return 2 * s * b
		}
		return 1 - 2*(1-s)*(1-b)
	}
	return s
}
