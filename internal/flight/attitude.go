// Package flight holds the aircraft attitude passed to the HUD each frame and
// the sources that produce it.
package flight

import "errors"

// Attitude is the aircraft orientation in degrees. Values are unbounded;
// consumers normalize only what they display.
type Attitude struct {
	Pitch   float64
	Roll    float64
	Heading float64
}

// Advance returns att with delta added to pitch, roll and heading.
func Advance(att Attitude, delta float64) Attitude {
	return Attitude{
		Pitch:   att.Pitch + delta,
		Roll:    att.Roll + delta,
		Heading: att.Heading + delta,
	}
}

// ErrNoData is returned by a Source that has not produced an attitude yet.
var ErrNoData = errors.New("flight: no attitude data")

// Source supplies the attitude for the next frame.
type Source interface {
	Sample() (Attitude, error)
}
