package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/esimov/ciya"
	"github.com/esimov/ciya/imop"
	"github.com/esimov/ciya/utils"
)

const HelpBanner = `
┌─┐┬┬ ┬┌─┐
│  │└┬┘├─┤
└─┘┴ ┴ ┴ ┴

Replaces the mouth of a portrait with a wide open cartoon mouth.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	emotion     = flag.String("emotion", "auto", "Overlay variant: auto, smile or cry")
	antialias   = flag.Int("aa", ciya.DefaultAntialias, "Antialiasing scale factor")
	points      = flag.String("points", "", "Mouth control points as x1,y1,...,x4,y4 (skips the face detection)")
	cascade     = flag.String("cc", "", "Face detection cascade")
	puploc      = flag.String("pl", "", "Pupil localization cascade")
	flpcDir     = flag.String("flpc", "", "Facial landmark cascades directory")
	sprite      = flag.String("sprite", "", "Custom overlay sprite")
	compOp      = flag.String("comp", imop.SrcOver, "Composite operator: "+strings.Join(imop.Ops, ", "))
	blendMode   = flag.String("blend", "", "Blend mode: "+strings.Join(imop.BlendModes, ", "))
	angle       = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	maxSize     = flag.Int("max", ciya.MaxImageSize, "Maximum image width and height (0 disables the limit)")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("%s%s",
			utils.DecorateText(fmt.Sprintf("\n%v", err), utils.ErrorMessage),
			utils.DefaultColor,
		)
	}
}

func run() error {
	em, err := ciya.ParseEmotion(*emotion)
	if err != nil {
		return err
	}
	if *antialias < 1 || *antialias > ciya.MaxAntialias {
		return fmt.Errorf("the antialiasing factor should be between 1 and %d", ciya.MaxAntialias)
	}
	if !utils.Contains(imop.Ops, *compOp) {
		return fmt.Errorf("unsupported composite operator %q", *compOp)
	}
	if *blendMode != "" && !utils.Contains(imop.BlendModes, *blendMode) {
		return fmt.Errorf("unsupported blend mode %q", *blendMode)
	}

	detector, err := newDetector()
	if err != nil {
		return err
	}

	projector := ciya.DefaultProjector()
	if *sprite != "" {
		img, err := ciya.LoadSprite(*sprite)
		if err != nil {
			return err
		}
		projector = ciya.NewProjector(img)
	}
	if *compOp != imop.SrcOver || *blendMode != "" {
		p := *projector
		p.CompositeOp = *compOp
		p.BlendMode = *blendMode
		projector = &p
	}

	proc := &ciya.Processor{
		Detector:     detector,
		Projector:    projector,
		Emotion:      em,
		Antialias:    *antialias,
		MaxImageSize: *maxSize,
	}

	return proc.Execute(&ciya.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	})
}

// newDetector returns the mouth detector selected by the flags.
func newDetector() (ciya.Detector, error) {
	if *points != "" {
		cp, err := ciya.ParsePoints(*points)
		if err != nil {
			return nil, err
		}
		return ciya.StaticDetector{Points: cp}, nil
	}

	if *cascade == "" || *puploc == "" || *flpcDir == "" {
		flag.Usage()
		return nil, fmt.Errorf("please provide the -cc, -pl and -flpc cascades or the -points of the mouth")
	}
	det, err := ciya.NewPigoDetector(*cascade, *puploc, *flpcDir)
	if err != nil {
		return nil, err
	}
	det.Angle = *angle
	return det, nil
}
