package ciya

import (
	"errors"
	"io"

	"github.com/disintegration/imaging"
	"github.com/esimov/ciya/utils"
)

// Limits applied to the user supplied parameters.
const (
	DefaultAntialias = 8
	MaxAntialias     = 8
	MaxImageSize     = 4096
)

// ErrImageTooLarge is returned for images exceeding the size limit.
var ErrImageTooLarge = errors.New("image too large")

// Processor options
type Processor struct {
	Detector  Detector
	Projector *Projector
	Emotion   Emotion
	Antialias int
	// MaxImageSize limits both image dimensions. Zero disables the check.
	MaxImageSize int
	// Format forces the output encoding, e.g. "png". When empty
	// it is derived from the destination file name.
	Format  string
	Spinner *utils.Spinner
}

// Process decodes the image read from r, lays the overlay onto its mouth
// and encodes the result into w. Since it relies on the io package,
// the input and output can be files, pipes or network streams alike.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	if p.Detector == nil {
		return errors.New("no mouth detector configured")
	}

	var (
		format imaging.Format
		err    error
	)
	if p.Format != "" {
		format, err = ParseFormat(p.Format)
	} else {
		format, err = FormatFor(w)
	}
	if err != nil {
		return err
	}

	img, err := decodeImage(r, p.MaxImageSize)
	if err != nil {
		return err
	}

	projector := p.Projector
	if projector == nil {
		projector = DefaultProjector()
	}
	antialias := p.Antialias
	if antialias == 0 {
		antialias = DefaultAntialias
	}

	c := &Ciyafier{Detector: p.Detector, Projector: projector}
	res, err := c.Ciya(img, p.Emotion, antialias)
	if err != nil {
		return err
	}

	return encodeImage(w, res, format)
}
