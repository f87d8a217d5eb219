package geom

// Compare returns -1, 0 or +1 depending on whether a is less than, equal
// to or greater than b. The boolean is false when the values are not
// comparable, which happens only if one of them is NaN.
func Compare[T Scalar](a, b T) (int, bool) {
	if isNaN(a) || isNaN(b) {
		return 0, false
	}
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	}
	return 0, true
}

// PosetMin returns the smaller of a and b, if they are comparable.
func PosetMin[T Scalar](a, b T) (T, bool) {
	c, ok := Compare(a, b)
	if !ok {
		return 0, false
	}
	if c <= 0 {
		return a, true
	}
	return b, true
}

// PosetMax returns the bigger of a and b, if they are comparable.
func PosetMax[T Scalar](a, b T) (T, bool) {
	c, ok := Compare(a, b)
	if !ok {
		return 0, false
	}
	if c >= 0 {
		return a, true
	}
	return b, true
}

// AbsDiff returns |a-b| without underflowing unsigned types.
func AbsDiff[T Scalar](a, b T) (T, bool) {
	c, ok := Compare(a, b)
	if !ok {
		return 0, false
	}
	if c >= 0 {
		return a - b, true
	}
	return b - a, true
}
