package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/RenatoCabral2022/spirit/internal/batch"
	"github.com/RenatoCabral2022/spirit/internal/render"
	"github.com/RenatoCabral2022/spirit/internal/synth"
)

// BrainwaveState is a named EEG band used for binaural presets.
type BrainwaveState struct {
	Name        string
	LowHz       float64
	HighHz      float64
	Description string
}

// TargetHz is the middle of the band.
func (s BrainwaveState) TargetHz() float64 {
	return (s.LowHz + s.HighHz) / 2
}

var BrainwaveStates = []BrainwaveState{
	{"delta", 0.5, 4, "Deep sleep, healing, unconscious"},
	{"theta", 4, 8, "Meditation, creativity, REM sleep"},
	{"alpha", 8, 14, "Relaxation, calm focus, light meditation"},
	{"beta", 14, 30, "Active thinking, focus, alertness"},
	{"gamma", 30, 100, "Higher cognition, peak awareness"},
}

const (
	SchumannHz = 7.83
	OmHz       = 136.1

	// ComparisonSegment is the length of each tone in the 432/440 A-B file.
	ComparisonSegment = 5 * time.Second
	// MeditationFade fades every chakra of the meditation sequence.
	MeditationFade = 2 * time.Second
)

// OmPartials is a fundamental with two falling harmonics.
var OmPartials = []synth.Partial{
	{Ratio: 1, Amplitude: 1},
	{Ratio: 2, Amplitude: 0.5},
	{Ratio: 3, Amplitude: 0.25},
}

func (o JobOptions) job(spec render.FrequencySpec, mode render.Mode, path string) batch.Job {
	return batch.Job{
		Spec:    spec,
		Mode:    mode,
		Seconds: o.Seconds,
		Stereo:  o.Stereo,
		Path:    path,
	}
}

// BinauralPresets renders one binaural beat per brainwave state on the given
// carrier. carrierHz <= 0 uses render.CarrierHz.
func BinauralPresets(o JobOptions, carrierHz float64) []batch.Job {
	if carrierHz <= 0 {
		carrierHz = render.CarrierHz
	}
	dir := filepath.Join(o.OutputDir, "binaural")
	jobs := make([]batch.Job, 0, len(BrainwaveStates))
	for _, s := range BrainwaveStates {
		spec := render.FrequencySpec{
			TargetHz:    s.TargetHz(),
			Label:       s.Name,
			Category:    "binaural",
			Description: s.Description,
			CarrierHz:   carrierHz,
		}
		name := fmt.Sprintf("binaural_%s_%shz.wav", s.Name, formatHz(s.TargetHz(), 1))
		jobs = append(jobs, o.job(spec, render.ModeBinaural, filepath.Join(dir, name)))
	}
	return jobs
}

// Schumann renders the 7.83 Hz resonance as an isochronic and a binaural file.
func Schumann(o JobOptions) []batch.Job {
	dir := filepath.Join(o.OutputDir, "schumann")
	spec := render.FrequencySpec{TargetHz: SchumannHz, Label: "schumann", Category: "schumann"}
	return []batch.Job{
		o.job(spec, render.ModeIsochronic, filepath.Join(dir, "schumann_7.83hz_isochronic.wav")),
		o.job(spec, render.ModeBinaural, filepath.Join(dir, "schumann_7.83hz_binaural.wav")),
	}
}

// Tuning renders 432 Hz and 440 Hz reference tones and an A-B file that
// alternates them in ComparisonSegment steps, one pair per ten seconds of
// duration and at least one pair.
func Tuning(o JobOptions) []batch.Job {
	dir := filepath.Join(o.OutputDir, "tuning")
	tone := func(hz float64, label string) batch.Job {
		spec := render.FrequencySpec{TargetHz: hz, Label: label, Category: "tuning"}
		return o.job(spec, render.ModeSine, filepath.Join(dir, fmt.Sprintf("tuning_%.0fhz_%s.wav", hz, label)))
	}

	seg := int(ComparisonSegment.Seconds()) * synth.SampleRate
	pairs := max(1, o.Seconds/int(2*ComparisonSegment.Seconds()))
	segs := make([]synth.Segment, 0, 2*pairs)
	for range pairs {
		segs = append(segs, synth.Segment{Hz: 432, Frames: seg}, synth.Segment{Hz: 440, Frames: seg})
	}
	ab := render.FrequencySpec{
		TargetHz: 432,
		Label:    "comparison",
		Category: "tuning",
		Hint:     render.HintSequence,
		Segments: segs,
	}
	return []batch.Job{
		tone(432, "natural"),
		tone(440, "standard"),
		o.job(ab, render.ModeAuto, filepath.Join(dir, "tuning_432_440_comparison.wav")),
	}
}

// Meditation joins every chakra tone, root to crown, into one file of
// o.Seconds per chakra, each faded over MeditationFade.
func (c *Catalog) Meditation(o JobOptions) (batch.Job, error) {
	specs, err := c.Resolve("chakras")
	if err != nil {
		return batch.Job{}, err
	}
	segs := make([]synth.Segment, len(specs))
	for i, s := range specs {
		segs[i] = synth.Segment{Hz: s.TargetHz, Frames: synth.Samples(o.Seconds)}
	}
	cat, _ := c.Category("chakras")
	spec := render.FrequencySpec{
		Label:    "full-meditation",
		Category: "chakras",
		Hint:     render.HintSequence,
		Segments: segs,
		Fade:     MeditationFade,
	}
	if len(specs) > 0 {
		spec.TargetHz = specs[0].TargetHz
	}
	path := filepath.Join(o.OutputDir, cat.Dir, Sanitize(cat.Prefix+"_full_meditation.wav"))
	return o.job(spec, render.ModeAuto, path), nil
}

// Om renders the 136.1 Hz Om tone with its harmonics.
func Om(o JobOptions) batch.Job {
	spec := render.FrequencySpec{
		TargetHz: OmHz,
		Label:    "om",
		Category: "om",
		Hint:     render.HintDrone,
		Partials: OmPartials,
	}
	return o.job(spec, render.ModeAuto, filepath.Join(o.OutputDir, "om_136.1hz.wav"))
}

// Noise renders one file per color into <out>/noise. A nil seed draws a
// fresh seed per file.
func Noise(o JobOptions, seed *uint64, colors ...synth.Color) []batch.Job {
	dir := filepath.Join(o.OutputDir, "noise")
	jobs := make([]batch.Job, 0, len(colors))
	for _, c := range colors {
		spec := render.FrequencySpec{
			Label:    c.String() + "-noise",
			Category: "noise",
			Hint:     render.HintNoise,
			Noise:    c,
			Seed:     seed,
		}
		jobs = append(jobs, o.job(spec, render.ModeAuto, filepath.Join(dir, c.String()+"_noise.wav")))
	}
	return jobs
}

func joinHz(freqs []float64) string {
	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = formatHz(f, 0)
	}
	return strings.Join(parts, "_")
}

// Drone layers freqs into one sustained, slowly faded tone whose partials
// drift apart and breathe. The first frequency is the base; an empty list
// yields a job that fails as a synthesis error.
func Drone(o JobOptions, freqs []float64) batch.Job {
	return layered(o, freqs, "drone", "drone_"+joinHz(freqs)+".wav", true)
}

// Layer sums freqs at equal weight.
func Layer(o JobOptions, freqs []float64) batch.Job {
	return layered(o, freqs, "layer", "layered_"+joinHz(freqs)+".wav", false)
}

func layered(o JobOptions, freqs []float64, category, name string, drift bool) batch.Job {
	spec := render.FrequencySpec{
		Label:    category,
		Category: category,
		Hint:     render.HintDrone,
		Drift:    drift,
	}
	if len(freqs) > 0 {
		spec.TargetHz = freqs[0]
		spec.Partials = synth.LayerPartials(freqs)
	} else {
		// nothing to anchor the partials to; the generator rejects the
		// empty table
		spec.TargetHz = 1
	}
	return o.job(spec, render.ModeAuto, filepath.Join(o.OutputDir, Sanitize(name)))
}

// Sweep glides from startHz to endHz over the job duration.
func Sweep(o JobOptions, startHz, endHz float64, curve synth.Curve) batch.Job {
	spec := render.FrequencySpec{
		TargetHz: startHz,
		EndHz:    endHz,
		Curve:    curve,
		Label:    "sweep",
		Category: "sweep",
		Hint:     render.HintSweep,
	}
	name := fmt.Sprintf("sweep_%shz_to_%shz.wav", formatHz(startHz, 0), formatHz(endHz, 0))
	return o.job(spec, render.ModeAuto, filepath.Join(o.OutputDir, name))
}

// Bowl renders a singing bowl struck at hz.
func Bowl(o JobOptions, hz float64) batch.Job {
	spec := render.FrequencySpec{TargetHz: hz, Label: "bowl", Category: "bowl", Hint: render.HintBowl}
	return o.job(spec, render.ModeAuto, filepath.Join(o.OutputDir, fmt.Sprintf("bowl_%shz.wav", formatHz(hz, 0))))
}

// Custom renders hz in mode. The file name records the mode actually used.
func Custom(o JobOptions, hz float64, mode render.Mode) batch.Job {
	spec := render.FrequencySpec{TargetHz: hz, Label: "custom", Category: "custom", Hint: render.HintCustom}
	name := fmt.Sprintf("custom_%shz_%s.wav", formatHz(hz, 2), modeName(spec, mode))
	return o.job(spec, mode, filepath.Join(o.OutputDir, name))
}

func modeName(spec render.FrequencySpec, mode render.Mode) string {
	plan, err := render.Select(spec, mode)
	if err != nil {
		if mode == "" {
			return string(render.ModeAuto)
		}
		return Sanitize(string(mode))
	}
	switch plan.Generator {
	case render.GenBinaural:
		return string(render.ModeBinaural)
	case render.GenIsochronic:
		return string(render.ModeIsochronic)
	}
	return string(render.ModeSine)
}

// Extras returns the sets the "all" command renders after the categories:
// the chakra meditation, binaural presets, Schumann, tuning, Om and the
// three noises.
func (c *Catalog) Extras(o JobOptions) []batch.Job {
	var jobs []batch.Job
	if m, err := c.Meditation(o); err == nil {
		jobs = append(jobs, m)
	}
	jobs = append(jobs, BinauralPresets(o, render.CarrierHz)...)
	jobs = append(jobs, Schumann(o)...)
	jobs = append(jobs, Tuning(o)...)
	jobs = append(jobs, Om(o))
	jobs = append(jobs, Noise(o, nil, synth.White, synth.Pink, synth.Brown)...)
	return jobs
}
