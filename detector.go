package ciya

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/esimov/ciya/geom"
)

// Detector locates the mouth of the most prominent face of an image.
// Implementations return ErrNotFound when there is none.
type Detector interface {
	Detect(img image.Image) (geom.ControlPoints[float64], error)
}

// StaticDetector always reports the same control points.
// It is used for manually annotated images.
type StaticDetector struct {
	Points geom.ControlPoints[float64]
}

// Detect returns the configured control points if they fit inside img.
func (d StaticDetector) Detect(img image.Image) (geom.ControlPoints[float64], error) {
	b := img.Bounds()
	for _, p := range d.Points.Points() {
		if p.IsIrregular() ||
			p.X < float64(b.Min.X) || p.X > float64(b.Max.X) ||
			p.Y < float64(b.Min.Y) || p.Y > float64(b.Max.Y) {
			return geom.ControlPoints[float64]{}, ErrNotFound
		}
	}
	return d.Points, nil
}

// ParsePoints parses control points given as "x1,y1,x2,y2,x3,y3,x4,y4",
// in left corner, top, right corner, bottom order.
func ParsePoints(s string) (geom.ControlPoints[float64], error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) != 8 {
		return geom.ControlPoints[float64]{}, fmt.Errorf("%w: got %d coordinates", geom.ErrPointCount, len(fields))
	}

	pts := make([]geom.Point[float64], 0, 4)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return geom.ControlPoints[float64]{}, fmt.Errorf("invalid coordinate %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return geom.ControlPoints[float64]{}, fmt.Errorf("invalid coordinate %q: %w", fields[i+1], err)
		}
		pts = append(pts, geom.Pt(x, y))
	}
	return geom.ControlPointsFromSlice(pts)
}
