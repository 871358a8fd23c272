package synth

import "math"

const scanChunk = 4096

// Normalized scales a source by a fixed gain.
type Normalized struct {
	src  Source
	gain float64
}

// Fill implements Source.
func (s *Normalized) Fill(dst []float64) {
	s.src.Fill(dst)
	for i := range dst {
		dst[i] *= s.gain
	}
}

// Normalize pre-scans n samples from one instance produced by open to find
// its absolute peak, then returns a second instance scaled so that peak maps
// to 1. open must yield identical streams on every call. The raw peak is
// returned alongside.
func Normalize(open func() Source, n int) (*Normalized, float64, error) {
	if n <= 0 {
		return nil, 0, ErrNoSamples
	}
	peak := Peak(open(), n)
	gain := 1.0
	if peak > 0 {
		gain = 1 / peak
	}
	return &Normalized{src: open(), gain: gain}, peak, nil
}

// Peak returns the largest absolute value among the next n samples of src.
func Peak(src Source, n int) float64 {
	buf := make([]float64, min(n, scanChunk))
	var peak float64
	for n > 0 {
		chunk := buf[:min(n, len(buf))]
		src.Fill(chunk)
		for _, v := range chunk {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		n -= len(chunk)
	}
	return peak
}
