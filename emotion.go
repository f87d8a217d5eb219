package ciya

import (
	"fmt"
	"strings"
)

// Emotion selects the overlay variant.
type Emotion int

const (
	// Auto picks the variant matching the detected mouth shape.
	Auto Emotion = iota
	// Smile always uses the upright sprite.
	Smile
	// Cry always uses the vertically flipped sprite.
	Cry
)

func (e Emotion) String() string {
	switch e {
	case Auto:
		return "auto"
	case Smile:
		return "smile"
	case Cry:
		return "cry"
	}
	return fmt.Sprintf("Emotion(%d)", int(e))
}

// ParseEmotion converts the textual form of an emotion, as accepted by the
// command line and the HTTP service, into its value.
func ParseEmotion(s string) (Emotion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "smile":
		return Smile, nil
	case "cry":
		return Cry, nil
	}
	return Auto, fmt.Errorf("unknown emotion %q: use auto, smile or cry", s)
}
