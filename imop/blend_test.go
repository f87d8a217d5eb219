package imop

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend_Basic(t *testing.T) {
	assert := assert.New(t)

	op := NewBlend()
	assert.Empty(op.Get())

	err := op.Set("blend_mode_not_supported")
	assert.Error(err)
	assert.Empty(op.Get())

	assert.NoError(op.Set(Darken))
	assert.Equal(Darken, op.Get())
	assert.NoError(op.Set(Lighten))
	assert.Equal(Lighten, op.Get())
}

func TestBlend_Modes(t *testing.T) {
	front := color.NRGBA{R: 204, G: 51, B: 102, A: 255}
	back := color.NRGBA{R: 102, G: 153, B: 255, A: 255}

	tests := []struct {
		mode     string
		expected color.NRGBA
	}{
		{Darken, color.NRGBA{R: 102, G: 51, B: 102, A: 255}},
		{Lighten, color.NRGBA{R: 204, G: 153, B: 255, A: 255}},
		{Multiply, color.NRGBA{R: 82, G: 31, B: 102, A: 255}},
		{Screen, color.NRGBA{R: 224, G: 173, B: 255, A: 255}},
		{Overlay, color.NRGBA{R: 163, G: 92, B: 255, A: 255}},
	}

	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)
	source.SetNRGBA(0, 0, front)
	backdrop.SetNRGBA(0, 0, back)

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			blend := NewBlend()
			assert.NoError(t, blend.Set(tt.mode))

			out := compose(InitOp(), source, backdrop, blend)
			assert.Equal(t, tt.expected, out.NRGBAAt(0, 0))
		})
	}
}

func TestBlend_TransparentBackdropKeepsSource(t *testing.T) {
	front := color.NRGBA{R: 204, G: 51, B: 102, A: 255}

	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)
	source.SetNRGBA(0, 0, front)

	blend := NewBlend()
	assert.NoError(t, blend.Set(Multiply))

	out := compose(InitOp(), source, backdrop, blend)
	assert.Equal(t, front, out.NRGBAAt(0, 0))
}
