package render

import (
	"fmt"
	"math"
	"time"

	"github.com/RenatoCabral2022/spirit/internal/synth"
)

const (
	// CarrierHz is the left-ear tone of a binaural pair and the carrier of
	// an isochronic pulse train.
	CarrierHz = 200.0
	// BinauralThreshold is the lowest frequency auto mode renders as a
	// plain tone. Anything below is delivered as a binaural beat.
	BinauralThreshold = 20.0
)

// Generator identifies the synthesis path a Plan takes.
type Generator int

const (
	GenTone Generator = iota
	GenBinaural
	GenIsochronic
	GenNoise
	GenSweep
	GenDrone
	GenBowl
	GenSequence
)

var generatorNames = [...]string{
	GenTone:       "tone",
	GenBinaural:   "binaural",
	GenIsochronic: "isochronic",
	GenNoise:      "noise",
	GenSweep:      "sweep",
	GenDrone:      "drone",
	GenBowl:       "bowl",
	GenSequence:   "sequence",
}

func (g Generator) String() string {
	if int(g) >= 0 && int(g) < len(generatorNames) {
		return generatorNames[g]
	}
	return "unknown"
}

// Plan is a fully resolved rendering recipe. Select produces it without
// touching any random state; the renderer turns it into sources.
type Plan struct {
	Generator Generator
	Channels  int

	// Hz is the tone frequency, the binaural beat, the isochronic pulse
	// rate, the sweep start, the drone base or the bowl fundamental.
	Hz        float64
	CarrierHz float64
	EndHz     float64
	Curve     synth.Curve
	Gate      synth.Gate
	Noise     synth.Color
	Seed      *uint64
	Partials  []synth.Partial
	Drift     bool
	Segments  []synth.Segment
	Fade      time.Duration
}

// Frames is the plan's own length for sequences, or zero when the length
// comes from the render duration.
func (p Plan) Frames() int {
	n := 0
	for _, s := range p.Segments {
		n += s.Frames
	}
	return n
}

// Select decides how spec is rendered. It is a pure function of its inputs.
func Select(spec FrequencySpec, mode Mode) (Plan, error) {
	const op = "select"
	if mode == "" {
		mode = ModeAuto
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return Plan{}, newError(KindConfiguration, op, err)
	}
	if spec.Fade < 0 {
		return Plan{}, configError(op, "fade must not be negative, got %s", spec.Fade)
	}

	switch spec.Hint {
	case HintNoise:
		return Plan{
			Generator: GenNoise,
			Channels:  1,
			Noise:     spec.Noise,
			Seed:      spec.Seed,
			Fade:      fadeOr(spec, synth.DefaultFade),
		}, nil

	case HintSequence:
		for i, s := range spec.Segments {
			if !validHz(s.Hz) {
				return Plan{}, configError(op, "segment %d frequency must be positive, got %g Hz", i, s.Hz)
			}
			if s.Frames <= 0 {
				return Plan{}, configError(op, "segment %d length must be positive, got %d frames", i, s.Frames)
			}
		}
		return Plan{
			Generator: GenSequence,
			Channels:  1,
			Segments:  spec.Segments,
			Fade:      fadeOr(spec, synth.DefaultFade),
		}, nil
	}

	if !validHz(spec.TargetHz) {
		return Plan{}, configError(op, "target frequency must be positive, got %g Hz", spec.TargetHz)
	}

	switch spec.Hint {
	case HintTone, HintCustom:
		if spec.CarrierHz != 0 && !validHz(spec.CarrierHz) {
			return Plan{}, configError(op, "carrier frequency must be positive, got %g Hz", spec.CarrierHz)
		}
		return selectTone(spec, mode), nil

	case HintSweep:
		if !validHz(spec.EndHz) {
			return Plan{}, configError(op, "sweep end frequency must be positive, got %g Hz", spec.EndHz)
		}
		return Plan{
			Generator: GenSweep,
			Channels:  1,
			Hz:        spec.TargetHz,
			EndHz:     spec.EndHz,
			Curve:     spec.Curve,
			Fade:      fadeOr(spec, synth.DefaultFade),
		}, nil

	case HintDrone:
		if err := checkPartials(spec.Partials, false); err != nil {
			return Plan{}, newError(KindConfiguration, op, err)
		}
		return Plan{
			Generator: GenDrone,
			Channels:  1,
			Hz:        spec.TargetHz,
			Partials:  spec.Partials,
			Drift:     spec.Drift,
			Fade:      fadeOr(spec, synth.DroneFade),
		}, nil

	case HintBowl:
		partials := spec.Partials
		if len(partials) == 0 {
			partials = synth.DefaultBowlPartials
		}
		if err := checkPartials(partials, true); err != nil {
			return Plan{}, newError(KindConfiguration, op, err)
		}
		return Plan{
			Generator: GenBowl,
			Channels:  1,
			Hz:        spec.TargetHz,
			Partials:  partials,
			Fade:      fadeOr(spec, synth.DefaultFade),
		}, nil
	}
	return Plan{}, configError(op, "unsupported hint %s", spec.Hint)
}

func selectTone(spec FrequencySpec, mode Mode) Plan {
	fade := fadeOr(spec, synth.DefaultFade)
	hz := spec.TargetHz
	carrier := spec.CarrierHz
	if carrier == 0 {
		carrier = CarrierHz
	}
	if mode == ModeAuto {
		mode = ModeSine
		if hz < BinauralThreshold {
			mode = ModeBinaural
		}
	}
	switch mode {
	case ModeBinaural:
		return Plan{
			Generator: GenBinaural,
			Channels:  2,
			Hz:        hz,
			CarrierHz: carrier,
			Fade:      fade,
		}
	case ModeIsochronic:
		return Plan{
			Generator: GenIsochronic,
			Channels:  1,
			Hz:        hz,
			CarrierHz: carrier,
			Gate:      spec.Gate,
			Fade:      fade,
		}
	}
	return Plan{Generator: GenTone, Channels: 1, Hz: hz, Fade: fade}
}

func fadeOr(spec FrequencySpec, def time.Duration) time.Duration {
	if spec.Fade > 0 {
		return spec.Fade
	}
	return def
}

// checkPartials rejects partials that could only come from bad input. An
// empty table is left to the generator.
func checkPartials(partials []synth.Partial, decays bool) error {
	for i, p := range partials {
		if !validHz(p.Ratio) {
			return fmt.Errorf("partial %d: ratio must be positive, got %g", i, p.Ratio)
		}
		if !(p.Amplitude >= 0 && p.Amplitude <= 1) {
			return fmt.Errorf("partial %d: amplitude must be within [0,1], got %g", i, p.Amplitude)
		}
		if decays && !validHz(p.Decay) {
			return fmt.Errorf("partial %d: decay must be positive, got %g", i, p.Decay)
		}
	}
	return nil
}

func validHz(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
}
