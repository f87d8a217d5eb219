package ciya

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	// ErrFormat is returned when encoding to an unsupported file type.
	ErrFormat = errors.New("unsupported image format")
	// ErrDecode is returned when the source isn't a readable image.
	ErrDecode = errors.New("could not decode the image")
)

// decodeImage decodes an image, applying the EXIF orientation if present.
// A positive limit caps both dimensions. It is checked against the image
// header, so oversized images are rejected before their pixels are decoded.
func decodeImage(r io.Reader, limit int) (*image.NRGBA, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if limit > 0 && (cfg.Width > limit || cfg.Height > limit) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dpx", ErrImageTooLarge, cfg.Width, cfg.Height, limit)
	}

	img, err := imaging.Decode(io.MultiReader(&head, r), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return imgToNRGBA(img), nil
}

// FormatFor returns the encoding matching the destination's file
// extension. Anything that isn't a named file is encoded as JPEG.
func FormatFor(w io.Writer) (imaging.Format, error) {
	f, ok := w.(*os.File)
	if !ok || f == os.Stdout {
		return imaging.JPEG, nil
	}
	ext := filepath.Ext(f.Name())
	if ext == "" {
		return imaging.JPEG, nil
	}
	return ParseFormat(ext)
}

// ParseFormat returns the encoding named by a file extension or a format
// name such as "png" or "jpeg".
func ParseFormat(name string) (imaging.Format, error) {
	format, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrFormat, name)
	}
	return format, nil
}

// encodeImage encodes img in the requested format.
func encodeImage(w io.Writer, img image.Image, format imaging.Format) error {
	return imaging.Encode(w, img, format, imaging.JPEGQuality(95))
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}

// rgbToGrayscale converts an image to grayscale mode and
// returns the pixel values as an one dimensional array.
func rgbToGrayscale(src *image.NRGBA) []uint8 {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	gray := make([]uint8, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := src.NRGBAAt(x, y)
			gray[y*width+x] = uint8(
				0.299*float64(c.R) +
					0.587*float64(c.G) +
					0.114*float64(c.B),
			)
		}
	}

	return gray
}
