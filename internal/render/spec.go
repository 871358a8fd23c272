package render

import (
	"fmt"
	"time"

	"github.com/RenatoCabral2022/spirit/internal/synth"
)

// Hint tells the selector which family of generator a spec wants.
type Hint int

const (
	HintTone Hint = iota
	HintNoise
	HintDrone
	HintSweep
	HintBowl
	HintCustom
	HintSequence
)

var hintNames = map[Hint]string{
	HintTone:     "tone",
	HintNoise:    "noise",
	HintDrone:    "drone",
	HintSweep:    "sweep",
	HintBowl:     "bowl",
	HintCustom:   "custom",
	HintSequence: "sequence",
}

func (h Hint) String() string {
	if s, ok := hintNames[h]; ok {
		return s
	}
	return fmt.Sprintf("Hint(%d)", int(h))
}

// ParseHint maps a hint name to a Hint. The empty string is HintTone.
func ParseHint(s string) (Hint, error) {
	if s == "" {
		return HintTone, nil
	}
	for h, name := range hintNames {
		if name == s {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown render hint %q", s)
}

// FrequencySpec is one thing to render: a target frequency with its catalog
// identity and the parameters the utility generators need.
type FrequencySpec struct {
	TargetHz    float64
	Label       string
	Category    string
	Description string
	Hint        Hint

	Noise    synth.Color
	Seed     *uint64 // nil draws a fresh seed per render
	EndHz    float64 // sweep
	Curve    synth.Curve
	Partials []synth.Partial // drone or bowl; bowl defaults when empty
	Drift    bool            // drone: detune and slowly modulate partials
	Segments []synth.Segment // sequence; TargetHz is ignored
	Gate     synth.Gate      // isochronic
	// Fade overrides the generator's default fade. For sequences it is the
	// fade of every segment.
	Fade time.Duration
	// CarrierHz overrides the binaural and isochronic carrier. Zero means
	// the package default.
	CarrierHz float64
}

// Mode is an explicit render mode tag for tone specs.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeSine       Mode = "sine"
	ModeBinaural   Mode = "binaural"
	ModeIsochronic Mode = "isochronic"
)

// ParseMode validates a mode tag. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeSine, ModeBinaural, ModeIsochronic:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want auto, sine, binaural or isochronic)", s)
}
