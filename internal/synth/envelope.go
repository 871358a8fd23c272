package synth

import "time"

const (
	DefaultFade = 50 * time.Millisecond
	DroneFade   = 3 * time.Second
	// BowlRelease is the ramp-to-zero appended when a bowl has not decayed
	// below TailEpsilon by the end of the buffer.
	BowlRelease = time.Second
	TailEpsilon = 1e-3
)

// Envelope applies linear fades at both ends of a stream of Total samples.
// The first and last samples are always zero.
type Envelope struct {
	Total   int
	FadeIn  int
	FadeOut int
}

// NewEnvelope returns symmetric fades of the given length, clamped to half the
// stream.
func NewEnvelope(total int, fade time.Duration) Envelope {
	n := samplesFor(fade, total)
	return Envelope{Total: total, FadeIn: n, FadeOut: n}
}

// BowlEnvelope is NewEnvelope(total, DefaultFade) with the release stretched
// to BowlRelease when tail, the level left at the end relative to the peak,
// is still audible.
func BowlEnvelope(total int, tail float64) Envelope {
	env := NewEnvelope(total, DefaultFade)
	if tail > TailEpsilon {
		env.FadeOut = samplesFor(BowlRelease, total)
	}
	return env
}

func samplesFor(d time.Duration, total int) int {
	n := int(d.Seconds() * SampleRate)
	if n > total/2 {
		n = total / 2
	}
	return n
}

// Gain returns the envelope gain at absolute sample index i.
func (e Envelope) Gain(i int) float64 {
	g := 1.0
	if e.FadeIn > 0 && i < e.FadeIn {
		g = float64(i) / float64(e.FadeIn)
	}
	if e.FadeOut > 0 && i >= e.Total-e.FadeOut {
		if out := float64(e.Total-1-i) / float64(e.FadeOut); out < g {
			g = out
		}
	}
	if g < 0 {
		g = 0
	}
	return g
}

// Apply shapes dst in place, where dst[0] is absolute sample offset.
func (e Envelope) Apply(dst []float64, offset int) {
	for k := range dst {
		i := offset + k
		if i >= e.FadeIn && i < e.Total-e.FadeOut {
			continue
		}
		dst[k] *= e.Gain(i)
	}
}
