package synth

import (
	"fmt"
	"math"
)

// Drift is the slow movement of a sustained drone. Partial k is detuned by
// a factor of 1 + k×DetuneStep, and its amplitude swings by ±Depth at
// RateHz + k×RateStep.
type Drift struct {
	DetuneStep float64
	RateHz     float64
	RateStep   float64
	Depth      float64
}

// DefaultDrift keeps neighbouring partials slightly apart and breathing at
// different rates.
var DefaultDrift = Drift{DetuneStep: 0.001, RateHz: 0.1, RateStep: 0.03, Depth: 0.15}

// Drone sums sine partials at base×ratio weighted by amplitude. The sum is
// not bounded; render it through Normalize.
type Drone struct {
	tones   []*Tone
	lfos    []*Tone // nil without drift
	amps    []float64
	depth   float64
	scratch []float64
	mod     []float64
}

// NewDrone builds a drone over baseHz. Decay fields of the partials are
// ignored.
func NewDrone(baseHz float64, partials []Partial) (*Drone, error) {
	return newDrone(baseHz, partials, nil)
}

// NewDriftingDrone is NewDrone with each partial detuned and amplitude
// modulated according to drift.
func NewDriftingDrone(baseHz float64, partials []Partial, drift Drift) (*Drone, error) {
	return newDrone(baseHz, partials, &drift)
}

func newDrone(baseHz float64, partials []Partial, drift *Drift) (*Drone, error) {
	if len(partials) == 0 {
		return nil, ErrNoPartials
	}
	if baseHz <= 0 {
		return nil, fmt.Errorf("drone base must be positive, got %g Hz", baseHz)
	}
	d := &Drone{}
	for k, p := range partials {
		if p.Ratio <= 0 || math.IsInf(p.Ratio, 0) || math.IsNaN(p.Ratio) {
			return nil, fmt.Errorf("drone ratio must be positive, got %g", p.Ratio)
		}
		hz := baseHz * p.Ratio
		if drift != nil {
			hz *= 1 + float64(k)*drift.DetuneStep
			d.lfos = append(d.lfos, NewTone(drift.RateHz+float64(k)*drift.RateStep))
			d.depth = drift.Depth
		}
		d.tones = append(d.tones, NewTone(hz))
		d.amps = append(d.amps, p.Amplitude)
	}
	return d, nil
}

// LayerPartials turns a list of absolute frequencies into equal-weight
// partials relative to the first one.
func LayerPartials(freqs []float64) []Partial {
	if len(freqs) == 0 || freqs[0] <= 0 {
		return nil
	}
	out := make([]Partial, len(freqs))
	for i, f := range freqs {
		out[i] = Partial{Ratio: f / freqs[0], Amplitude: 1 / float64(len(freqs))}
	}
	return out
}

// Fill implements Source.
func (d *Drone) Fill(dst []float64) {
	if cap(d.scratch) < len(dst) {
		d.scratch = make([]float64, len(dst))
		d.mod = make([]float64, len(dst))
	}
	tmp := d.scratch[:len(dst)]
	mod := d.mod[:len(dst)]
	clear(dst)
	for k, t := range d.tones {
		t.Fill(tmp)
		a := d.amps[k]
		if d.lfos == nil {
			for i, v := range tmp {
				dst[i] += a * v
			}
			continue
		}
		d.lfos[k].Fill(mod)
		for i, v := range tmp {
			dst[i] += a * (1 + d.depth*mod[i]) * v
		}
	}
}
