package synth

import (
	"fmt"
	"math/rand/v2"
)

// Color selects the spectral slope of a Noise source.
type Color int

const (
	White Color = iota
	Pink
	Brown
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Pink:
		return "pink"
	case Brown:
		return "brown"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// ParseColor maps "white", "pink" or "brown" to a Color.
func ParseColor(s string) (Color, error) {
	switch s {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	case "brown":
		return Brown, nil
	}
	return 0, fmt.Errorf("unknown noise color %q", s)
}

// brownLeak bounds the DC drift of the integrator.
const brownLeak = 0.995

// Noise produces white, pink or brown noise from a seeded PCG generator.
// Pink and brown output is not range-bounded on its own; wrap it with
// Normalize to keep it inside [-1,1].
type Noise struct {
	color Color
	rng   *rand.Rand

	// Paul Kellet pink filter state.
	b0, b1, b2, b3, b4, b5, b6 float64
	// brown integrator.
	last float64
}

// NewNoise returns a noise source. Two sources with the same color and seed
// produce identical streams.
func NewNoise(color Color, seed uint64) *Noise {
	return &Noise{
		color: color,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (n *Noise) white() float64 {
	return n.rng.Float64()*2 - 1
}

// Fill implements Source.
func (n *Noise) Fill(dst []float64) {
	switch n.color {
	case Pink:
		for i := range dst {
			w := n.white()
			n.b0 = 0.99886*n.b0 + w*0.0555179
			n.b1 = 0.99332*n.b1 + w*0.0750759
			n.b2 = 0.96900*n.b2 + w*0.1538520
			n.b3 = 0.86650*n.b3 + w*0.3104856
			n.b4 = 0.55000*n.b4 + w*0.5329522
			n.b5 = -0.7616*n.b5 - w*0.0168980
			dst[i] = n.b0 + n.b1 + n.b2 + n.b3 + n.b4 + n.b5 + n.b6 + w*0.5362
			n.b6 = w * 0.115926
		}
	case Brown:
		for i := range dst {
			n.last = brownLeak*n.last + 0.02*n.white()
			dst[i] = n.last
		}
	default:
		for i := range dst {
			dst[i] = n.white()
		}
	}
}

// RandomSeed draws a seed for renders that were not given one.
func RandomSeed() uint64 {
	return rand.Uint64()
}
