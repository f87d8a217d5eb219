package ciya

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/esimov/ciya/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_ParsePoints(t *testing.T) {
	cp, err := ParsePoints("0,64,50,0,100,64,50,128")
	require.NoError(t, err)
	assert.Equal(t, diamondMouth, cp)

	cp, err = ParsePoints(" 0 64; 50 0; 100 64; 50 128 ")
	require.NoError(t, err)
	assert.Equal(t, diamondMouth, cp)

	_, err = ParsePoints("0,64,50,0,100,64")
	assert.True(t, errors.Is(err, geom.ErrPointCount))

	_, err = ParsePoints("0,64,50,0,100,64,50,x")
	assert.Error(t, err)
}

func TestDetector_Static(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))

	cp, err := StaticDetector{Points: diamondMouth}.Detect(img)
	require.NoError(t, err)
	assert.Equal(t, diamondMouth, cp)

	outside := diamondMouth.AddPoint(geom.Pt(150.0, 0.0))
	_, err = StaticDetector{Points: outside}.Detect(img)
	assert.ErrorIs(t, err, ErrNotFound)

	invalid := diamondMouth
	invalid.P3.X = math.NaN()
	_, err = StaticDetector{Points: invalid}.Detect(img)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetector_OrderMouth(t *testing.T) {
	cp := orderMouth(
		geom.Pt(100.0, 64.0),
		geom.Pt(0.0, 64.0),
		geom.Pt(50.0, 128.0),
		geom.Pt(50.0, 0.0),
	)
	assert.Equal(t, diamondMouth, cp)
}

func TestDetector_Ciyafier(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))

	c := NewCiyafier(StaticDetector{Points: diamondMouth})
	res, err := c.Ciya(img, Cry, 1)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), res.Bounds())

	c = NewCiyafier(StaticDetector{Points: diamondMouth.AddPoint(geom.Pt(500.0, 0.0))})
	_, err = c.Ciya(img, Auto, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsMathError(err))
}

func TestDetector_PigoMissingCascade(t *testing.T) {
	_, err := NewPigoDetector("missing/facefinder", "missing/puploc", "missing/lps")
	assert.Error(t, err)
}
