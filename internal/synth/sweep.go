package synth

import (
	"fmt"
	"math"
)

// Curve is the interpolation law for a sweep's instantaneous frequency.
type Curve int

const (
	Linear Curve = iota
	Exponential
)

func (c Curve) String() string {
	if c == Exponential {
		return "exponential"
	}
	return "linear"
}

// ParseCurve maps "linear" (or "") and "exponential" (or "log") to a Curve.
func ParseCurve(s string) (Curve, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "exponential", "log":
		return Exponential, nil
	}
	return 0, fmt.Errorf("unknown sweep curve %q", s)
}

// Sweep glides from StartHz to EndHz over a fixed number of samples. The phase
// is the running sum of the instantaneous frequency, so there are no
// discontinuities however the frequency moves.
type Sweep struct {
	start, end float64
	curve      Curve
	span       float64
	i          int
	phase      float64
}

// NewSweep returns a sweep that reaches endHz on its n-th sample.
func NewSweep(startHz, endHz float64, n int, curve Curve) (*Sweep, error) {
	if n <= 0 {
		return nil, ErrNoSamples
	}
	if startHz <= 0 || endHz <= 0 {
		return nil, fmt.Errorf("sweep bounds must be positive, got %g..%g Hz", startHz, endHz)
	}
	span := float64(n - 1)
	if span == 0 {
		span = 1
	}
	return &Sweep{start: startHz, end: endHz, curve: curve, span: span}, nil
}

// Frequency returns the instantaneous frequency at sample i.
func (s *Sweep) Frequency(i int) float64 {
	p := float64(i) / s.span
	if p > 1 {
		p = 1
	}
	if s.curve == Exponential {
		return s.start * math.Pow(s.end/s.start, p)
	}
	return s.start + (s.end-s.start)*p
}

// Fill implements Source.
func (s *Sweep) Fill(dst []float64) {
	for k := range dst {
		dst[k] = math.Sin(2 * math.Pi * s.phase)
		s.phase = wrap(s.phase + s.Frequency(s.i)/SampleRate)
		s.i++
	}
}
