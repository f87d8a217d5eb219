package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

func assertPointInDelta(t *testing.T, expected, actual Point[float64]) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, eps)
	assert.InDelta(t, expected.Y, actual.Y, eps)
}

func TestProjection_FitMapsControlPoints(t *testing.T) {
	from := ControlPointsFromRect(Rect(0.0, 0.0, 360, 200))
	to := Enlarge(diamond, 0.3, false)

	p, err := ProjectionFromControlPoints(from, to)
	require.NoError(t, err)

	src, dst := from.Points(), to.Points()
	for i := range src {
		assertPointInDelta(t, dst[i], p.Apply(src[i]))
	}
}

func TestProjection_Invert(t *testing.T) {
	from := NewControlPoints(Pt(24.0, 100.0), Pt(180.0, 0.0), Pt(336.0, 100.0), Pt(180.0, 200.0))
	to := NewControlPoints(Pt(-5.0, 80.0), Pt(60.0, 1.0), Pt(120.0, 70.0), Pt(55.0, 150.0))

	p, err := ProjectionFromControlPoints(from, to)
	require.NoError(t, err)

	inv, ok := p.Invert()
	require.True(t, ok)

	for _, pt := range to.Points() {
		back := inv.Apply(pt)
		fwd := p.Apply(back)
		assertPointInDelta(t, pt, fwd)
	}
	assertPointInDelta(t, from.P1, inv.Apply(to.P1))

	_, ok = Projection{}.Invert()
	assert.False(t, ok)
}

func TestProjection_Compose(t *testing.T) {
	assert := assert.New(t)

	s := ScaleProjection(2, 3)
	tr := TranslateProjection(10, -5)

	x, y := s.Mul(tr).ApplyXY(1, 1)
	assert.Equal(22.0, x)
	assert.Equal(-12.0, y)

	x, y = tr.Mul(s).ApplyXY(1, 1)
	assert.Equal(12.0, x)
	assert.Equal(-2.0, y)

	id := IdentityProjection()
	assert.Equal(s.Matrix(), id.Mul(s).Matrix())
	assert.Equal(s.Matrix(), s.Mul(id).Matrix())
}

func TestProjection_Degenerate(t *testing.T) {
	good := ControlPointsFromRect(Rect(0.0, 0.0, 10, 10))

	tests := []struct {
		name string
		cp   ControlPoints[float64]
	}{
		{
			name: "collinear",
			cp:   NewControlPoints(Pt(0.0, 0.0), Pt(1.0, 1.0), Pt(2.0, 2.0), Pt(0.0, 5.0)),
		},
		{
			name: "duplicate",
			cp:   NewControlPoints(Pt(0.0, 0.0), Pt(0.0, 0.0), Pt(2.0, 7.0), Pt(0.0, 5.0)),
		},
		{
			name: "nan",
			cp:   NewControlPoints(Pt(math.NaN(), 0.0), Pt(5.0, 0.0), Pt(10.0, 5.0), Pt(5.0, 10.0)),
		},
		{
			name: "zero height",
			cp:   NewControlPoints(Pt(0.0, 3.0), Pt(5.0, 3.0), Pt(10.0, 3.0), Pt(5.0, 3.0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectionFromControlPoints(good, tt.cp)
			assert.ErrorIs(t, err, ErrDegenerate)

			_, err = ProjectionFromControlPoints(tt.cp, good)
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}
