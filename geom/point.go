// Package geom provides the small set of generic geometric primitives
// used for describing a mouth region: points, rectangles, the four
// control points of a mouth quadrilateral and the projective transform
// fitted between two such quadrilaterals.
//
// All types are immutable values. The geometry of the quadrilateral
// (diagonal crossing, convexity, enlarging, bounding box) is only
// available for floating point coordinates. Integer values are never
// irregular, so IsIrregular and the partial ordering helpers are
// defined over every Scalar.
package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Scalar is the set of numeric types a coordinate can be expressed in.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Point is a two dimensional vector.
type Point[T Scalar] struct {
	X, Y T
}

// Pt is shorthand for Point[T]{x, y}.
func Pt[T Scalar](x, y T) Point[T] {
	return Point[T]{X: x, Y: y}
}

// Add returns the vector p+q.
func (p Point[T]) Add(q Point[T]) Point[T] {
	return Point[T]{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector p-q.
func (p Point[T]) Sub(q Point[T]) Point[T] {
	return Point[T]{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the vector p*k.
func (p Point[T]) Mul(k T) Point[T] {
	return Point[T]{X: p.X * k, Y: p.Y * k}
}

// Div returns the vector p/k. Like the built-in division it panics
// for integer types when k is zero.
func (p Point[T]) Div(k T) Point[T] {
	return Point[T]{X: p.X / k, Y: p.Y / k}
}

// IsIrregular reports whether any coordinate is NaN or infinite.
func (p Point[T]) IsIrregular() bool {
	return isIrregular(p.X) || isIrregular(p.Y)
}

// CastPoint converts a point between numeric representations.
// Float to integer conversions truncate toward zero.
func CastPoint[Out, In Scalar](p Point[In]) Point[Out] {
	return Point[Out]{X: Out(p.X), Y: Out(p.Y)}
}

func isIrregular[T Scalar](v T) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func isNaN[T Scalar](v T) bool {
	return math.IsNaN(float64(v))
}
