package synth

import (
	"fmt"
	"math"
)

// DefaultBowlPartials approximates a struck singing bowl. The 1.003 partial
// beats slowly against the fundamental; the upper partials are inharmonic
// and die away faster.
var DefaultBowlPartials = []Partial{
	{Ratio: 1.0, Amplitude: 1.0, Decay: 0.25},
	{Ratio: 1.003, Amplitude: 0.5, Decay: 0.3},
	{Ratio: 2.01, Amplitude: 0.6, Decay: 0.5},
	{Ratio: 3.03, Amplitude: 0.35, Decay: 0.8},
	{Ratio: 4.07, Amplitude: 0.2, Decay: 1.2},
	{Ratio: 5.12, Amplitude: 0.1, Decay: 1.6},
}

type bowlPartial struct {
	tone  *Tone
	amp   float64
	env   float64
	decay float64 // per-sample envelope multiplier
}

// Bowl sums exponentially decaying partials. Beating between close ratios
// comes from plain superposition.
type Bowl struct {
	partials []bowlPartial
	table    []Partial
	scratch  []float64
}

// NewBowl builds a bowl at fundamentalHz.
func NewBowl(fundamentalHz float64, partials []Partial) (*Bowl, error) {
	if len(partials) == 0 {
		return nil, ErrNoPartials
	}
	if fundamentalHz <= 0 {
		return nil, fmt.Errorf("bowl fundamental must be positive, got %g Hz", fundamentalHz)
	}
	b := &Bowl{table: partials}
	for _, p := range partials {
		if p.Ratio <= 0 {
			return nil, fmt.Errorf("bowl ratio must be positive, got %g", p.Ratio)
		}
		if p.Amplitude < 0 || p.Amplitude > 1 {
			return nil, fmt.Errorf("bowl amplitude must be within [0,1], got %g", p.Amplitude)
		}
		if p.Decay <= 0 {
			return nil, fmt.Errorf("bowl decay must be positive, got %g", p.Decay)
		}
		b.partials = append(b.partials, bowlPartial{
			tone:  NewTone(fundamentalHz * p.Ratio),
			amp:   p.Amplitude,
			env:   1,
			decay: math.Exp(-p.Decay / SampleRate),
		})
	}
	return b, nil
}

// TailLevel returns the summed partial envelope remaining after n samples.
func (b *Bowl) TailLevel(n int) float64 {
	t := float64(n) / SampleRate
	var level float64
	for _, p := range b.table {
		level += p.Amplitude * math.Exp(-p.Decay*t)
	}
	return level
}

// Fill implements Source.
func (b *Bowl) Fill(dst []float64) {
	if cap(b.scratch) < len(dst) {
		b.scratch = make([]float64, len(dst))
	}
	tmp := b.scratch[:len(dst)]
	clear(dst)
	for k := range b.partials {
		p := &b.partials[k]
		p.tone.Fill(tmp)
		for i, v := range tmp {
			dst[i] += p.amp * p.env * v
			p.env *= p.decay
		}
	}
}
