package synth

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoSegments is returned for a sequence without segments.
var ErrNoSegments = errors.New("sequence has no segments")

// Segment is one tone of a Sequence.
type Segment struct {
	Hz     float64
	Frames int
}

// Sequence plays sine segments back to back. Each segment starts at phase
// zero and carries its own fade in and out.
type Sequence struct {
	segs []Segment
	fade time.Duration

	cur  int
	pos  int
	tone *Tone
	env  Envelope
}

// NewSequence validates segs and returns a Sequence positioned at its start.
func NewSequence(segs []Segment, fade time.Duration) (*Sequence, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	for i, s := range segs {
		if !(s.Hz > 0) || math.IsInf(s.Hz, 0) {
			return nil, fmt.Errorf("segment %d: frequency must be positive, got %g Hz", i, s.Hz)
		}
		if s.Frames <= 0 {
			return nil, fmt.Errorf("segment %d: %w", i, ErrNoSamples)
		}
	}
	s := &Sequence{segs: segs, fade: fade}
	s.start(0)
	return s, nil
}

// Frames is the total length of the sequence.
func (s *Sequence) Frames() int {
	n := 0
	for _, seg := range s.segs {
		n += seg.Frames
	}
	return n
}

func (s *Sequence) start(i int) {
	s.cur, s.pos = i, 0
	if i < len(s.segs) {
		s.tone = NewTone(s.segs[i].Hz)
		s.env = NewEnvelope(s.segs[i].Frames, s.fade)
	}
}

// Fill implements Source. Past the last segment it writes silence.
func (s *Sequence) Fill(dst []float64) {
	for len(dst) > 0 {
		if s.cur >= len(s.segs) {
			clear(dst)
			return
		}
		m := min(len(dst), s.segs[s.cur].Frames-s.pos)
		chunk := dst[:m]
		s.tone.Fill(chunk)
		s.env.Apply(chunk, s.pos)
		s.pos += m
		dst = dst[m:]
		if s.pos == s.segs[s.cur].Frames {
			s.start(s.cur + 1)
		}
	}
}
