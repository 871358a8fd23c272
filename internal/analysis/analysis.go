// Package analysis reads rendered WAVE files back and measures them.
package analysis

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// MaxAnalysisFrames caps the FFT length per channel.
const MaxAnalysisFrames = 1 << 21

var ErrTooShort = errors.New("need at least 4 samples")

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin of
// samples, refined by parabolic interpolation between neighbouring bins.
func DominantFrequency(samples []float64, sampleRate int) (float64, error) {
	n := len(samples)
	if n < 4 {
		return 0, ErrTooShort
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	seq := window.Hann(append([]float64(nil), samples...))
	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)

	best, bestMag := 0, 0.0
	for i := 1; i < len(coeffs); i++ {
		if m := cmplx.Abs(coeffs[i]); m > bestMag {
			best, bestMag = i, m
		}
	}
	if best == 0 {
		return 0, nil
	}

	offset := 0.0
	if best < len(coeffs)-1 {
		l := cmplx.Abs(coeffs[best-1])
		r := cmplx.Abs(coeffs[best+1])
		if d := l - 2*bestMag + r; d != 0 {
			offset = 0.5 * (l - r) / d
		}
	}
	return (float64(best) + offset) * float64(sampleRate) / float64(n), nil
}

// BinWidth is the FFT resolution in Hz for n samples.
func BinWidth(n, sampleRate int) float64 {
	return float64(sampleRate) / float64(n)
}

// Decoded is a WAVE file split into per-channel float samples in [-1,1].
type Decoded struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames is the number of samples per channel.
func (d *Decoded) Frames() int {
	if len(d.Channels) == 0 {
		return 0
	}
	return len(d.Channels[0])
}

// Decode reads a PCM WAVE stream.
func Decode(r io.ReadSeeker) (*Decoded, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid WAVE file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, errors.New("missing fmt chunk")
	}
	return split(buf, int(dec.BitDepth)), nil
}

func split(buf *audio.IntBuffer, bitDepth int) *Decoded {
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	scale := math.Exp2(float64(bitDepth-1)) - 1

	out := &Decoded{SampleRate: buf.Format.SampleRate, BitDepth: bitDepth, Channels: make([][]float64, ch)}
	for c := range out.Channels {
		out.Channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames*ch; i++ {
		v := float64(buf.Data[i]) / scale
		out.Channels[i%ch][i/ch] = max(-1, min(1, v))
	}
	return out
}

// ChannelReport summarises one channel.
type ChannelReport struct {
	DominantHz float64
	Peak       float64
}

// Report describes a WAVE file on disk.
type Report struct {
	Path       string
	SampleRate int
	BitDepth   int
	Frames     int
	Duration   time.Duration
	Size       int64
	Channels   []ChannelReport
}

// Inspect decodes the file at path and measures every channel.
func Inspect(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", path, err)
	}

	rep := &Report{
		Path:       path,
		SampleRate: d.SampleRate,
		BitDepth:   d.BitDepth,
		Frames:     d.Frames(),
		Size:       info.Size(),
		Duration:   time.Duration(float64(d.Frames()) / float64(d.SampleRate) * float64(time.Second)),
	}
	for _, samples := range d.Channels {
		cr := ChannelReport{Peak: peak(samples)}
		if len(samples) > MaxAnalysisFrames {
			samples = samples[:MaxAnalysisFrames]
		}
		if hz, err := DominantFrequency(samples, d.SampleRate); err == nil {
			cr.DominantHz = hz
		}
		rep.Channels = append(rep.Channels, cr)
	}
	return rep, nil
}

func peak(samples []float64) float64 {
	var p float64
	for _, v := range samples {
		p = max(p, math.Abs(v))
	}
	return p
}
