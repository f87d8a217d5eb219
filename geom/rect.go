package geom

// Rectangle is an axis aligned rectangle given by its top-left corner and size.
type Rectangle[T Scalar] struct {
	X, Y, W, H T
}

// Rect is shorthand for Rectangle[T]{x, y, w, h}.
func Rect[T Scalar](x, y, w, h T) Rectangle[T] {
	return Rectangle[T]{X: x, Y: y, W: w, H: h}
}

// Min returns the top-left corner.
func (r Rectangle[T]) Min() Point[T] {
	return Point[T]{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner.
func (r Rectangle[T]) Max() Point[T] {
	return Point[T]{X: r.X + r.W, Y: r.Y + r.H}
}

// IsIrregular reports whether any component is NaN or infinite.
func (r Rectangle[T]) IsIrregular() bool {
	return isIrregular(r.X) || isIrregular(r.Y) || isIrregular(r.W) || isIrregular(r.H)
}

// CastRect converts a rectangle between numeric representations.
func CastRect[Out, In Scalar](r Rectangle[In]) Rectangle[Out] {
	return Rectangle[Out]{X: Out(r.X), Y: Out(r.Y), W: Out(r.W), H: Out(r.H)}
}
