package ciya

import (
	"math"

	"github.com/esimov/ciya/geom"
)

// Strategy identifies how the sprite quadrilateral was chosen.
type Strategy int

const (
	// Naive maps the midpoints of the sprite edges onto the re-centered mouth.
	Naive Strategy = iota
	// RespectEdge picks the sprite points lying on its elliptic outline at the
	// height where the mouth diagonals cross, so the mouth corners stay put.
	RespectEdge
)

func (s Strategy) String() string {
	if s == RespectEdge {
		return "respect-edge"
	}
	return "naive"
}

// Geometry holds the constants tuned to the overlay sprite.
type Geometry struct {
	// Enlarge grows the mouth quadrilateral so the overlay covers the lips.
	Enlarge float64
	// Padding is the margin around the overlay canvas.
	Padding float64
	// EllipseX and EllipseY are the semi-axes of the sprite outline,
	// whose center is the middle of the sprite's top edge.
	EllipseX, EllipseY float64
}

// DefaultGeometry returns the constants matching the built-in sprite.
func DefaultGeometry() Geometry {
	return GeometryFor(SpriteWidth, SpriteHeight)
}

// GeometryFor derives the outline constants for a sprite of the given size.
func GeometryFor(width, height int) Geometry {
	return Geometry{
		Enlarge:  0.3,
		Padding:  geom.Padding,
		EllipseX: float64(width) / 2,
		EllipseY: float64(height),
	}
}

// Fit is a projection computed for a given set of control points.
type Fit struct {
	Strategy Strategy
	// Smile is the classifier's verdict on the control points.
	Smile bool
	// Offset is the top-left corner of the overlay canvas in image space.
	Offset geom.Point[float64]
	// Size is the overlay canvas size, padding included.
	Size geom.Point[float64]
	// Transform maps sprite coordinates onto canvas coordinates.
	Transform geom.Projection
}

// spriteQuad computes the sprite and target quadrilaterals of a strategy.
// It reports false when either of them holds non finite coordinates.
func (g Geometry) spriteQuad(
	cp geom.ControlPoints[float64],
	strategy Strategy,
	smile bool,
	width, height float64,
) (from, to geom.ControlPoints[float64], ok bool) {
	switch strategy {
	case Naive:
		from = geom.ControlPointsFromRect(geom.Rect(0, 0, width, height))
		to = geom.Enlarge(geom.CentralizeY(cp), g.Enlarge, true)
	case RespectEdge:
		to = geom.Enlarge(cp, g.Enlarge, false)

		y0 := geom.Cross(to).Y
		factor := (y0 - to.P2.Y) / (to.P4.Y - to.P2.Y)
		y := g.EllipseY * factor

		// (x-a)²/a² + y²/b² = 1
		dy := y
		if !smile {
			dy = g.EllipseY - y
		}
		d := math.Sqrt(1 - (dy*dy)/(g.EllipseY*g.EllipseY))

		from = geom.NewControlPoints(
			geom.Pt(g.EllipseX*(1-d), y),
			geom.Pt(width/2, 0),
			geom.Pt(g.EllipseX*(1+d), y),
			geom.Pt(width/2, height),
		)
	}

	if from.IsIrregular() || to.IsIrregular() {
		return from, to, false
	}
	return from, to, true
}

// project fits the transform from the sprite quadrilateral onto the target
// expressed in the coordinates of its own padded bounding box.
func (g Geometry) project(from, to geom.ControlPoints[float64]) (lt, rb geom.Point[float64], proj geom.Projection, ok bool) {
	lt, rb, local, ok := geom.ShiftOriginPad(to, g.Padding)
	if !ok {
		return lt, rb, proj, false
	}
	proj, err := geom.ProjectionFromControlPoints(from, local)
	if err != nil {
		return lt, rb, proj, false
	}
	return lt, rb, proj, true
}

// fit runs a single strategy. The boolean is false on failure.
func (g Geometry) fit(cp geom.ControlPoints[float64], strategy Strategy, smile bool, width, height float64) (Fit, bool) {
	from, to, ok := g.spriteQuad(cp, strategy, smile, width, height)
	if !ok {
		return Fit{}, false
	}
	lt, rb, proj, ok := g.project(from, to)
	if !ok {
		return Fit{}, false
	}
	return Fit{
		Strategy:  strategy,
		Smile:     smile,
		Offset:    lt,
		Size:      rb.Sub(lt),
		Transform: proj,
	}, true
}
