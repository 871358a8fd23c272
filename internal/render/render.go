// Package render turns frequency specs into WAVE streams: mode selection,
// generator wiring, envelopes and chunked encoding.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/RenatoCabral2022/spirit/internal/synth"
	"github.com/RenatoCabral2022/spirit/internal/wav"
)

// ChunkFrames is the number of frames synthesized per pipeline step.
const ChunkFrames = 4096

// chunkBuffers holds per-render scratch for the synth -> envelope -> encode
// pipeline. Pooled so batch workers don't allocate per job.
type chunkBuffers struct {
	left  []float64
	right []float64
	inter []float64
}

var chunkPool = sync.Pool{
	New: func() any {
		return &chunkBuffers{
			left:  make([]float64, ChunkFrames),
			right: make([]float64, ChunkFrames),
			inter: make([]float64, 2*ChunkFrames),
		}
	},
}

func acquireChunk() *chunkBuffers  { return chunkPool.Get().(*chunkBuffers) }
func releaseChunk(b *chunkBuffers) { chunkPool.Put(b) }

// Options control the length and layout of a render.
type Options struct {
	Seconds int
	// Stereo duplicates a mono plan into two identical channels.
	Stereo bool
}

// Result describes a finished render.
type Result struct {
	Header wav.Header
	// Seed is the noise seed actually used, zero for other generators.
	Seed uint64
}

// Bytes is the total file size.
func (r Result) Bytes() int64 {
	return int64(wav.HeaderSize + r.Header.DataSize())
}

type voices struct {
	left  synth.Source
	right synth.Source // nil for mono
	env   synth.Envelope
	seed  uint64
}

func (p Plan) voices(n int) (voices, error) {
	env := synth.NewEnvelope(n, p.Fade)
	switch p.Generator {
	case GenTone:
		return voices{left: synth.NewTone(p.Hz), env: env}, nil

	case GenBinaural:
		return voices{
			left:  synth.NewTone(p.CarrierHz),
			right: synth.NewTone(p.CarrierHz + p.Hz),
			env:   env,
		}, nil

	case GenIsochronic:
		src, err := synth.NewIsochronic(p.CarrierHz, p.Hz, p.Gate)
		if err != nil {
			return voices{}, err
		}
		return voices{left: src, env: env}, nil

	case GenSweep:
		src, err := synth.NewSweep(p.Hz, p.EndHz, n, p.Curve)
		if err != nil {
			return voices{}, err
		}
		return voices{left: src, env: env}, nil

	case GenNoise:
		seed := synth.RandomSeed()
		if p.Seed != nil {
			seed = *p.Seed
		}
		open := func() synth.Source { return synth.NewNoise(p.Noise, seed) }
		if p.Noise == synth.White {
			return voices{left: open(), env: env, seed: seed}, nil
		}
		src, _, err := synth.Normalize(open, n)
		if err != nil {
			return voices{}, err
		}
		return voices{left: src, env: env, seed: seed}, nil

	case GenDrone:
		newDrone := func() (*synth.Drone, error) {
			if p.Drift {
				return synth.NewDriftingDrone(p.Hz, p.Partials, synth.DefaultDrift)
			}
			return synth.NewDrone(p.Hz, p.Partials)
		}
		if _, err := newDrone(); err != nil {
			return voices{}, err
		}
		src, _, err := synth.Normalize(func() synth.Source {
			d, _ := newDrone()
			return d
		}, n)
		if err != nil {
			return voices{}, err
		}
		return voices{left: src, env: env}, nil

	case GenBowl:
		bowl, err := synth.NewBowl(p.Hz, p.Partials)
		if err != nil {
			return voices{}, err
		}
		src, peak, err := synth.Normalize(func() synth.Source {
			b, _ := synth.NewBowl(p.Hz, p.Partials)
			return b
		}, n)
		if err != nil {
			return voices{}, err
		}
		tail := 0.0
		if peak > 0 {
			tail = bowl.TailLevel(n) / peak
		}
		return voices{left: src, env: synth.BowlEnvelope(n, tail)}, nil

	case GenSequence:
		src, err := synth.NewSequence(p.Segments, p.Fade)
		if err != nil {
			return voices{}, err
		}
		// segments carry their own fades
		return voices{left: src, env: synth.NewEnvelope(n, 0)}, nil
	}
	return voices{}, fmt.Errorf("unknown generator %s", p.Generator)
}

// Render streams plan to w as a complete WAVE file. Samples are produced and
// encoded ChunkFrames at a time, so memory stays flat regardless of duration.
// Sequences take their length from their segments instead of opts.Seconds.
func Render(w io.Writer, plan Plan, opts Options) (Result, error) {
	const op = "render"
	if opts.Seconds <= 0 {
		return Result{}, configError(op, "duration must be positive, got %d s", opts.Seconds)
	}
	n := synth.Samples(opts.Seconds)
	if plan.Generator == GenSequence {
		n = plan.Frames()
	}
	channels := plan.Channels
	if opts.Stereo {
		channels = 2
	}

	v, err := plan.voices(n)
	if err != nil {
		return Result{}, &Error{Kind: KindSynthesis, Op: op, Generator: plan.Generator.String(), Err: err}
	}
	hdr := wav.Header{Channels: channels, Frames: n}
	if err := hdr.Validate(); err != nil {
		return Result{}, newError(KindConfiguration, op, err)
	}

	ww, err := wav.NewWriter(w, hdr)
	if err != nil {
		return Result{}, newError(KindIO, op, err)
	}

	bufs := acquireChunk()
	defer releaseChunk(bufs)

	for off := 0; off < n; off += ChunkFrames {
		m := min(ChunkFrames, n-off)
		left := bufs.left[:m]
		v.left.Fill(left)
		v.env.Apply(left, off)

		var right []float64
		if v.right != nil {
			right = bufs.right[:m]
			v.right.Fill(right)
			v.env.Apply(right, off)
		}

		out := left
		if channels == 2 {
			out = Interleave(bufs.inter, left, right)
		}
		if err := ww.Write(out); err != nil {
			return Result{}, newError(KindIO, op, err)
		}
	}
	if err := ww.Close(); err != nil {
		return Result{}, newError(KindIO, op, err)
	}
	return Result{Header: hdr, Seed: v.seed}, nil
}

// WriteFile renders plan to path. The data goes to a temporary file in the
// same directory which is renamed into place only after a complete write, so
// path never holds a partial file. Missing parent directories are created.
func WriteFile(path string, plan Plan, opts Options) (res Result, err error) {
	const op = "write file"
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, newError(KindIO, op, err)
	}
	tmp, err := os.CreateTemp(dir, ".spirit-*.wav.tmp")
	if err != nil {
		return Result{}, newError(KindIO, op, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	res, err = Render(tmp, plan, opts)
	if err != nil {
		return Result{}, err
	}
	if err = tmp.Close(); err != nil {
		return Result{}, newError(KindIO, op, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return Result{}, newError(KindIO, op, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return Result{}, newError(KindIO, op, err)
	}
	return res, nil
}
