package ciya

import (
	"fmt"
	"image"
)

// Ciyafier ties a Detector to a Projector.
type Ciyafier struct {
	Detector  Detector
	Projector *Projector
}

// NewCiyafier returns a Ciyafier using the default projector.
func NewCiyafier(d Detector) *Ciyafier {
	return &Ciyafier{
		Detector:  d,
		Projector: DefaultProjector(),
	}
}

// Ciya detects the mouth of img and lays the overlay onto it.
func (c *Ciyafier) Ciya(img image.Image, emotion Emotion, antialias int) (*image.NRGBA, error) {
	cp, err := c.Detector.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("mouth detection failed: %w", err)
	}
	return c.Projector.Compose(img, cp, emotion, antialias)
}
