/*
Package ciya replaces the mouth found in a photo with a wide open cartoon mouth.
The overlay sprite is warped with a projective transformation onto the four
mouth control points (the two corners, the upper and the lower lip), rendered
on a supersampled canvas, scaled down and composited over the source image.

The package provides a command line interface and an HTTP service.
To check the supported commands type:

	$ ciya --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/ciya"
	)

	func main() {
		det, err := ciya.NewPigoDetector("cascade/facefinder", "cascade/puploc", "cascade/lps")
		if err != nil {
			panic(err)
		}
		p := &ciya.Processor{
			Detector:  det,
			Emotion:   ciya.Auto,
			Antialias: ciya.DefaultAntialias,
		}

		if err := p.Process(in, out); err != nil {
			fmt.Printf("Error processing image: %s", err.Error())
		}
	}
*/
package ciya
