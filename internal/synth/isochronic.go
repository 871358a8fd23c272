package synth

import (
	"fmt"
	"math"
)

// Gate is the pulse shape of an isochronic tone.
type Gate int

const (
	// GateSine is a raised sine, 0.5·(1+sin), with no hard edges.
	GateSine Gate = iota
	// GatePulse is on for half of each period with 5 ms linear edges.
	GatePulse
)

func (g Gate) String() string {
	if g == GatePulse {
		return "pulse"
	}
	return "sine"
}

// ParseGate maps "sine" (or "") and "pulse" to a Gate.
func ParseGate(s string) (Gate, error) {
	switch s {
	case "", "sine":
		return GateSine, nil
	case "pulse":
		return GatePulse, nil
	}
	return 0, fmt.Errorf("unknown isochronic gate %q", s)
}

const pulseEdgeSeconds = 0.005

// Isochronic is a single carrier switched on and off at the pulse rate. It is
// mono by construction.
type Isochronic struct {
	carrier *Tone
	gate    Gate
	step    float64
	phase   float64
	edge    float64 // pulse edge width in cycles
}

// NewIsochronic gates a carrierHz tone at pulseHz.
func NewIsochronic(carrierHz, pulseHz float64, gate Gate) (*Isochronic, error) {
	if carrierHz <= 0 || pulseHz <= 0 {
		return nil, fmt.Errorf("isochronic rates must be positive, got carrier %g Hz pulse %g Hz", carrierHz, pulseHz)
	}
	return &Isochronic{
		carrier: NewTone(carrierHz),
		gate:    gate,
		step:    pulseHz / SampleRate,
		edge:    math.Min(pulseEdgeSeconds*pulseHz, 0.125),
	}, nil
}

// Level returns the gate gain at a phase in cycles.
func (s *Isochronic) Level(phase float64) float64 {
	if s.gate == GateSine {
		return 0.5 * (1 + math.Sin(2*math.Pi*phase))
	}
	switch {
	case phase >= 0.5:
		return 0
	case phase < s.edge:
		return phase / s.edge
	case phase > 0.5-s.edge:
		return (0.5 - phase) / s.edge
	}
	return 1
}

// Fill implements Source.
func (s *Isochronic) Fill(dst []float64) {
	s.carrier.Fill(dst)
	for i := range dst {
		dst[i] *= s.Level(s.phase)
		s.phase = wrap(s.phase + s.step)
	}
}
