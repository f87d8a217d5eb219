package geom

import (
	"errors"

	"golang.org/x/exp/constraints"
)

// Padding is the margin added on every side of the bounding box
// computed by ShiftOrigin.
const Padding = 4

// ErrPointCount is returned when building control points from a slice
// which doesn't hold exactly four points.
var ErrPointCount = errors.New("geom: exactly four control points are required")

// ControlPoints describes a mouth as a quadrilateral. P1 and P3 are the
// left and right mouth corners, P2 and P4 the top and bottom points.
type ControlPoints[T Scalar] struct {
	P1, P2, P3, P4 Point[T]
}

// NewControlPoints returns the quadrilateral p1, p2, p3, p4.
func NewControlPoints[T Scalar](p1, p2, p3, p4 Point[T]) ControlPoints[T] {
	return ControlPoints[T]{P1: p1, P2: p2, P3: p3, P4: p4}
}

// ControlPointsFromSlice builds the control points out of exactly four points.
func ControlPointsFromSlice[T Scalar](pts []Point[T]) (ControlPoints[T], error) {
	if len(pts) != 4 {
		return ControlPoints[T]{}, ErrPointCount
	}
	return NewControlPoints(pts[0], pts[1], pts[2], pts[3]), nil
}

// ControlPointsFromRect returns the midpoints of the rectangle edges,
// in left, top, right, bottom order.
func ControlPointsFromRect[T Scalar](r Rectangle[T]) ControlPoints[T] {
	return ControlPoints[T]{
		P1: Point[T]{X: r.X, Y: r.Y + r.H/2},
		P2: Point[T]{X: r.X + r.W/2, Y: r.Y},
		P3: Point[T]{X: r.X + r.W, Y: r.Y + r.H/2},
		P4: Point[T]{X: r.X + r.W/2, Y: r.Y + r.H},
	}
}

// Points returns the control points as an array.
func (c ControlPoints[T]) Points() [4]Point[T] {
	return [4]Point[T]{c.P1, c.P2, c.P3, c.P4}
}

// Add adds the control points componentwise.
func (c ControlPoints[T]) Add(o ControlPoints[T]) ControlPoints[T] {
	return ControlPoints[T]{c.P1.Add(o.P1), c.P2.Add(o.P2), c.P3.Add(o.P3), c.P4.Add(o.P4)}
}

// Sub subtracts the control points componentwise.
func (c ControlPoints[T]) Sub(o ControlPoints[T]) ControlPoints[T] {
	return ControlPoints[T]{c.P1.Sub(o.P1), c.P2.Sub(o.P2), c.P3.Sub(o.P3), c.P4.Sub(o.P4)}
}

// AddPoint translates every point by p.
func (c ControlPoints[T]) AddPoint(p Point[T]) ControlPoints[T] {
	return ControlPoints[T]{c.P1.Add(p), c.P2.Add(p), c.P3.Add(p), c.P4.Add(p)}
}

// SubPoint translates every point by -p.
func (c ControlPoints[T]) SubPoint(p Point[T]) ControlPoints[T] {
	return ControlPoints[T]{c.P1.Sub(p), c.P2.Sub(p), c.P3.Sub(p), c.P4.Sub(p)}
}

// Mul scales every point by k.
func (c ControlPoints[T]) Mul(k T) ControlPoints[T] {
	return ControlPoints[T]{c.P1.Mul(k), c.P2.Mul(k), c.P3.Mul(k), c.P4.Mul(k)}
}

// Div divides every point by k.
func (c ControlPoints[T]) Div(k T) ControlPoints[T] {
	return ControlPoints[T]{c.P1.Div(k), c.P2.Div(k), c.P3.Div(k), c.P4.Div(k)}
}

// IsIrregular reports whether any coordinate is NaN or infinite.
func (c ControlPoints[T]) IsIrregular() bool {
	return c.P1.IsIrregular() || c.P2.IsIrregular() || c.P3.IsIrregular() || c.P4.IsIrregular()
}

// Center returns the horizontal midpoint of the corners
// combined with the vertical midpoint of the top and bottom points.
func (c ControlPoints[T]) Center() Point[T] {
	return Point[T]{
		X: (c.P1.X + c.P3.X) / 2,
		Y: (c.P2.Y + c.P4.Y) / 2,
	}
}

// Cross returns the intersection of the P1-P3 and P2-P4 diagonals.
// For parallel diagonals the result holds NaN or infinite coordinates.
func Cross[T constraints.Float](c ControlPoints[T]) Point[T] {
	x1, y1 := float64(c.P1.X), float64(c.P1.Y)
	x2, y2 := float64(c.P3.X), float64(c.P3.Y)
	x3, y3 := float64(c.P2.X), float64(c.P2.Y)
	x4, y4 := float64(c.P4.X), float64(c.P4.Y)

	x12, x34 := x1-x2, x3-x4
	y12, y34 := y1-y2, y3-y4

	x0 := (x34*(x2*y1-x1*y2) - x12*(x4*y3-x3*y4)) / (x34*y12 - x12*y34)
	y0 := (y34*(y2*x1-y1*x2) - y12*(y4*x3-y3*x4)) / (y34*x12 - y12*x34)

	return Point[T]{X: T(x0), Y: T(y0)}
}

// Enlarge scales the quadrilateral by 1+scale around its Center,
// or around its Cross if useCenter is false.
func Enlarge[T constraints.Float](c ControlPoints[T], scale T, useCenter bool) ControlPoints[T] {
	origin := c.Center()
	if !useCenter {
		origin = Cross(c)
	}
	return c.Add(c.Mul(scale)).SubPoint(origin.Mul(scale))
}

// CentralizeY moves the mouth corners vertically and horizontally so
// that the diagonals cross in the Center. The top and bottom points are kept.
func CentralizeY[T constraints.Float](c ControlPoints[T]) ControlPoints[T] {
	d := c.Center().Sub(Cross(c))
	return ControlPoints[T]{
		P1: c.P1.Add(d),
		P2: c.P2,
		P3: c.P3.Add(d),
		P4: c.P4,
	}
}

// IsConvex reports whether the diagonals cross below the top point
// or above the bottom point. The second value is false when the
// comparison is indeterminate.
func IsConvex[T constraints.Float](c ControlPoints[T]) (convex bool, ok bool) {
	y0 := Cross(c).Y
	top, ok1 := Compare(y0, c.P2.Y)
	bottom, ok2 := Compare(y0, c.P4.Y)
	if !ok1 || !ok2 {
		return false, false
	}
	return top > 0 || bottom < 0, true
}

// ShiftOrigin is ShiftOriginPad with the default Padding.
func ShiftOrigin[T constraints.Float](c ControlPoints[T]) (lt, rb Point[T], local ControlPoints[T], ok bool) {
	return ShiftOriginPad(c, Padding)
}

// ShiftOriginPad computes the bounding box of the parallelogram spanned by
// reflecting the corners around the diagonal crossing, grows it by pad on
// every side and returns its corners together with the control points
// expressed relative to the top-left corner.
func ShiftOriginPad[T constraints.Float](c ControlPoints[T], pad T) (lt, rb Point[T], local ControlPoints[T], ok bool) {
	cross := Cross(c)

	leftTop := c.P1.Sub(cross).Add(c.P2)
	rightTop := c.P3.Sub(cross).Add(c.P2)
	leftBottom := c.P1.Sub(cross).Add(c.P4)
	rightBottom := c.P3.Sub(cross).Add(c.P4)

	minX, ok1 := PosetMin(leftTop.X, leftBottom.X)
	minY, ok2 := PosetMin(leftTop.Y, rightTop.Y)
	maxX, ok3 := PosetMax(rightTop.X, rightBottom.X)
	maxY, ok4 := PosetMax(leftBottom.Y, rightBottom.Y)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return lt, rb, local, false
	}

	lt = Point[T]{X: minX - pad, Y: minY - pad}
	rb = Point[T]{X: maxX + pad, Y: maxY + pad}

	return lt, rb, c.SubPoint(lt), true
}

// CastControlPoints converts control points between numeric representations.
func CastControlPoints[Out, In Scalar](c ControlPoints[In]) ControlPoints[Out] {
	return ControlPoints[Out]{
		P1: CastPoint[Out](c.P1),
		P2: CastPoint[Out](c.P2),
		P3: CastPoint[Out](c.P3),
		P4: CastPoint[Out](c.P4),
	}
}
