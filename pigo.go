package ciya

import (
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/esimov/ciya/geom"
	"github.com/esimov/ciya/utils"
	pigo "github.com/esimov/pigo/core"
)

// PigoDetector finds the mouth with the pigo cascades: the face finder
// locates the faces, the pupil localization cascade finds the eyes of the
// biggest one, and the facial landmark cascades place the mouth points
// relative to the eyes.
type PigoDetector struct {
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64
	// Quality is the minimum detection score for a face to be considered.
	Quality float64
	// Angle is the in-plane rotation of the faces, as a fraction of 2π.
	Angle   float64
	Perturb int

	// CornerCascade locates a mouth corner; the other one is found by
	// running it over the mirrored face.
	CornerCascade string
	// LipCascades locate the top and bottom of the mouth, in any order.
	LipCascades [2]string

	faceFinder *pigo.Pigo
	puploc     *pigo.PuplocCascade
	flpcs      map[string][]*pigo.FlpCascade
}

// NewPigoDetector loads the face finder, the pupil localization cascade
// and the directory holding the facial landmark cascades.
func NewPigoDetector(faceCascade, puplocCascade, landmarkDir string) (*PigoDetector, error) {
	cf, err := os.ReadFile(faceCascade)
	if err != nil {
		return nil, fmt.Errorf("could not read the face cascade: %w", err)
	}
	faceFinder, err := pigo.NewPigo().Unpack(cf)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the face cascade: %w", err)
	}

	pf, err := os.ReadFile(puplocCascade)
	if err != nil {
		return nil, fmt.Errorf("could not read the pupil localization cascade: %w", err)
	}
	plc := pigo.NewPuplocCascade()
	puploc, err := plc.UnpackCascade(pf)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the pupil localization cascade: %w", err)
	}

	flpcs, err := puploc.ReadCascadeDir(landmarkDir)
	if err != nil {
		return nil, fmt.Errorf("error reading the facial landmark cascades: %w", err)
	}

	d := &PigoDetector{
		MinSize:       20,
		MaxSize:       2000,
		ShiftFactor:   0.1,
		ScaleFactor:   1.1,
		IoUThreshold:  0.2,
		Quality:       5.0,
		Perturb:       63,
		CornerCascade: "lp84",
		LipCascades:   [2]string{"lp82", "lp81"},
		faceFinder:    faceFinder,
		puploc:        puploc,
		flpcs:         flpcs,
	}
	for _, name := range append([]string{d.CornerCascade}, d.LipCascades[:]...) {
		if _, ok := d.landmarkCascade(name); !ok {
			return nil, fmt.Errorf("facial landmark cascade %q is missing from %s", name, landmarkDir)
		}
	}
	return d, nil
}

// Detect returns the mouth control points of the biggest face.
func (d *PigoDetector) Detect(img image.Image) (geom.ControlPoints[float64], error) {
	var none geom.ControlPoints[float64]

	src := imgToNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	imgParams := pigo.ImageParams{
		Pixels: rgbToGrayscale(src),
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}
	cParams := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     utils.Min(d.MaxSize, utils.Max(rows, cols)),
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: imgParams,
	}

	dets := d.faceFinder.RunCascade(cParams, d.Angle)
	dets = d.faceFinder.ClusterDetections(dets, d.IoUThreshold)

	face, ok := d.biggestFace(dets)
	if !ok {
		return none, ErrNotFound
	}

	scale := float32(face.Scale)
	leftEye := d.puploc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*scale),
		Col:      face.Col - int(0.175*scale),
		Scale:    scale * 0.25,
		Perturbs: d.Perturb,
	}, imgParams, d.Angle, false)
	rightEye := d.puploc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*scale),
		Col:      face.Col + int(0.185*scale),
		Scale:    scale * 0.25,
		Perturbs: d.Perturb,
	}, imgParams, d.Angle, false)
	if !isLocated(leftEye) || !isLocated(rightEye) {
		return none, ErrNotFound
	}

	landmark := func(name string, flipV bool) (geom.Point[float64], bool) {
		flpc, ok := d.landmarkCascade(name)
		if !ok {
			return geom.Point[float64]{}, false
		}
		p := flpc.GetLandmarkPoint(leftEye, rightEye, imgParams, d.Perturb, flipV)
		if !isLocated(p) {
			return geom.Point[float64]{}, false
		}
		return geom.Pt(float64(p.Col), float64(p.Row)), true
	}

	var pts [4]geom.Point[float64]
	for i, lm := range []struct {
		name  string
		flipV bool
	}{
		{d.CornerCascade, false},
		{d.CornerCascade, true},
		{d.LipCascades[0], false},
		{d.LipCascades[1], false},
	} {
		p, ok := landmark(lm.name, lm.flipV)
		if !ok {
			return none, ErrNotFound
		}
		pts[i] = p
	}

	return orderMouth(pts[0], pts[1], pts[2], pts[3]), nil
}

// biggestFace picks the detection with the largest scale
// among those above the quality threshold.
func (d *PigoDetector) biggestFace(dets []pigo.Detection) (pigo.Detection, bool) {
	var (
		best  pigo.Detection
		found bool
	)
	for _, det := range dets {
		if float64(det.Q) < d.Quality {
			continue
		}
		if !found || det.Scale > best.Scale {
			best, found = det, true
		}
	}
	return best, found
}

func (d *PigoDetector) landmarkCascade(name string) (*pigo.FlpCascade, bool) {
	cascades := d.flpcs[name]
	if len(cascades) == 0 || cascades[0] == nil || cascades[0].PuplocCascade == nil {
		return nil, false
	}
	return cascades[0], true
}

func isLocated(p *pigo.Puploc) bool {
	return p != nil && p.Row > 0 && p.Col > 0
}

// orderMouth arranges two mouth corners and two lip points into control
// points: leftmost corner, upper lip, rightmost corner, lower lip.
func orderMouth(c1, c2, l1, l2 geom.Point[float64]) geom.ControlPoints[float64] {
	corners := []geom.Point[float64]{c1, c2}
	lips := []geom.Point[float64]{l1, l2}

	sort.SliceStable(corners, func(i, j int) bool { return corners[i].X < corners[j].X })
	sort.SliceStable(lips, func(i, j int) bool { return lips[i].Y < lips[j].Y })

	return geom.NewControlPoints(corners[0], lips[0], corners[1], lips[1])
}
