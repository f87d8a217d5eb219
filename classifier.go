package ciya

import "github.com/esimov/ciya/geom"

// IsSmile reports whether the mouth opens more downward than upward, i.e.
// the top point lies closer to the diagonal crossing than the bottom point.
// The second value is false when the control points hold NaN coordinates.
func IsSmile(cp geom.ControlPoints[float64]) (smile bool, ok bool) {
	y0 := geom.Cross(cp).Y

	top, ok1 := geom.AbsDiff(cp.P2.Y, y0)
	bottom, ok2 := geom.AbsDiff(cp.P4.Y, y0)
	if !ok1 || !ok2 {
		return false, false
	}
	return top <= bottom, true
}
