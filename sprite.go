package ciya

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// Size of the built-in sprite.
const (
	SpriteWidth  = 360
	SpriteHeight = 200
)

// kappa is the control point distance approximating a quarter ellipse with a cubic curve.
const kappa = 0.5522847498

var (
	lipColor    = color.NRGBA{R: 92, G: 24, B: 30, A: 255}
	throatColor = color.NRGBA{R: 140, G: 34, B: 48, A: 255}
	tongueColor = color.NRGBA{R: 236, G: 112, B: 122, A: 255}
	teethColor  = color.NRGBA{R: 252, G: 250, B: 244, A: 255}
)

// DefaultSprite renders the built-in overlay: a wide open mouth whose
// outline is the lower half of an ellipse spanning the whole sprite.
func DefaultSprite() *image.NRGBA {
	w, h := SpriteWidth, SpriteHeight
	rect := image.Rect(0, 0, w, h)
	img := image.NewNRGBA(rect)

	lips := halfEllipseMask(w, h, float32(w)/2, float32(w)/2, float32(h))
	throat := halfEllipseMask(w, h, float32(w)/2, float32(w)/2-10, float32(h)-12)

	tongue := ellipseMask(w, h, float32(w)/2, float32(h)-20, 92, 44)
	intersectMask(tongue, throat)

	teeth := image.NewAlpha(rect)
	draw.Draw(teeth, image.Rect(0, 0, w, 30), image.Opaque, image.Point{}, draw.Src)
	intersectMask(teeth, throat)

	for _, layer := range []struct {
		c    color.NRGBA
		mask *image.Alpha
	}{
		{lipColor, lips},
		{throatColor, throat},
		{tongueColor, tongue},
		{teethColor, teeth},
	} {
		draw.DrawMask(img, rect, image.NewUniform(layer.c), image.Point{}, layer.mask, image.Point{}, draw.Over)
	}

	return img
}

// LoadSprite reads a custom overlay sprite from disk.
func LoadSprite(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not load the sprite: %w", err)
	}
	return imgToNRGBA(img), nil
}

// halfEllipseMask rasterizes the lower half of the ellipse centered on (cx, 0).
func halfEllipseMask(w, h int, cx, rx, ry float32) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	z.MoveTo(cx-rx, 0)
	z.CubeTo(cx-rx, kappa*ry, cx-kappa*rx, ry, cx, ry)
	z.CubeTo(cx+kappa*rx, ry, cx+rx, kappa*ry, cx+rx, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// ellipseMask rasterizes the ellipse centered on (cx, cy).
func ellipseMask(w, h int, cx, cy, rx, ry float32) *image.Alpha {
	kx, ky := kappa*rx, kappa*ry

	z := vector.NewRasterizer(w, h)
	z.MoveTo(cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// intersectMask keeps in dst only the coverage shared with clip.
func intersectMask(dst, clip *image.Alpha) {
	for i, a := range dst.Pix {
		if c := clip.Pix[i]; c < a {
			dst.Pix[i] = c
		}
	}
}
