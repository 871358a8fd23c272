// Package synth produces floating-point sample streams at a fixed 44.1 kHz rate.
package synth

import (
	"errors"
	"math"
)

const SampleRate = 44100

var (
	// ErrNoSamples is returned when a render is asked for zero or fewer samples.
	ErrNoSamples = errors.New("sample count must be positive")
	// ErrNoPartials is returned when a drone or bowl has an empty partial table.
	ErrNoPartials = errors.New("partial table is empty")
)

// Source is a stateful generator. Each call to Fill writes the next len(dst)
// samples of the stream.
type Source interface {
	Fill(dst []float64)
}

// Render draws n samples from src into a fresh buffer.
func Render(src Source, n int) ([]float64, error) {
	if n <= 0 {
		return nil, ErrNoSamples
	}
	buf := make([]float64, n)
	src.Fill(buf)
	return buf, nil
}

// Samples returns the number of samples covering the given whole seconds.
func Samples(seconds int) int {
	return seconds * SampleRate
}

// Partial is one component of a drone or bowl: a frequency ratio to the
// fundamental, a relative amplitude and, for bowls, an exponential decay rate
// in 1/s.
type Partial struct {
	Ratio     float64
	Amplitude float64
	Decay     float64
}

// wrap reduces a phase in cycles to [0,1).
func wrap(phase float64) float64 {
	return phase - math.Floor(phase)
}
