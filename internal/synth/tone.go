package synth

import "math"

// Tone is a unit-amplitude sine oscillator. Phase is tracked in cycles and
// advanced by a fixed increment, so precision does not degrade with the
// sample index.
type Tone struct {
	step  float64
	phase float64
}

// NewTone returns a sine oscillator at hz starting at phase zero.
func NewTone(hz float64) *Tone {
	return &Tone{step: hz / SampleRate}
}

// Fill implements Source.
func (t *Tone) Fill(dst []float64) {
	for i := range dst {
		dst[i] = math.Sin(2 * math.Pi * t.phase)
		t.phase = wrap(t.phase + t.step)
	}
}

// GenerateSineWave renders n samples of a sine wave at hz.
func GenerateSineWave(hz float64, n int) ([]float64, error) {
	return Render(NewTone(hz), n)
}
