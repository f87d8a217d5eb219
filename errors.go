package ciya

import "errors"

// ErrNotFound is returned by a Detector when the image holds no usable mouth.
var ErrNotFound = errors.New("no face or mouth detected")

// MathError reports control points which can't be turned into a projection.
// It is recoverable: the caller should reject the image, not abort.
type MathError struct {
	Reason string
}

func (e *MathError) Error() string {
	return "math error: " + e.Reason
}

func mathError(reason string) error {
	return &MathError{Reason: reason}
}

// IsMathError reports whether any error in err's chain is a MathError.
func IsMathError(err error) bool {
	var me *MathError
	return errors.As(err, &me)
}
