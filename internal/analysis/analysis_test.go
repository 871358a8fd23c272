package analysis

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RenatoCabral2022/spirit/internal/render"
	"github.com/RenatoCabral2022/spirit/internal/synth"
	spiritwav "github.com/RenatoCabral2022/spirit/internal/wav"
)

func TestDominantFrequencySine(t *testing.T) {
	for _, hz := range []float64{40, 432, 528, 7000} {
		samples, err := synth.GenerateSineWave(hz, synth.SampleRate)
		if err != nil {
			t.Fatal(err)
		}
		got, err := DominantFrequency(samples, synth.SampleRate)
		if err != nil {
			t.Fatalf("DominantFrequency: %v", err)
		}
		if math.Abs(got-hz) > 0.5 {
			t.Errorf("DominantFrequency(%g Hz sine) = %g", hz, got)
		}
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2}, 44100); !errors.Is(err, ErrTooShort) {
		t.Errorf("err = %v, want ErrTooShort", err)
	}
	if _, err := DominantFrequency(make([]float64, 16), 0); err == nil {
		t.Error("zero sample rate accepted")
	}
	if hz, err := DominantFrequency(make([]float64, 16), 44100); err != nil || hz != 0 {
		t.Errorf("silence = %g, %v; want 0, nil", hz, err)
	}
}

func renderTo(t *testing.T, path string, spec render.FrequencySpec, seconds int) {
	t.Helper()
	plan, err := render.Select(spec, render.ModeAuto)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, err := render.WriteFile(path, plan, render.Options{Seconds: seconds}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestInspectCustom528(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_528.00hz_sine.wav")
	renderTo(t, path, render.FrequencySpec{TargetHz: 528, Hint: render.HintCustom}, 10)

	rep, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(rep.Channels) != 1 {
		t.Fatalf("channels = %d, want 1", len(rep.Channels))
	}
	if rep.Frames != 441000 || rep.SampleRate != 44100 || rep.BitDepth != 16 {
		t.Errorf("frames=%d rate=%d bits=%d", rep.Frames, rep.SampleRate, rep.BitDepth)
	}
	if rep.Size != 882044 {
		t.Errorf("size = %d, want 882044", rep.Size)
	}
	bin := BinWidth(rep.Frames, rep.SampleRate)
	if got := rep.Channels[0].DominantHz; math.Abs(got-528) > bin {
		t.Errorf("dominant = %g Hz, want 528 within %g", got, bin)
	}
	if p := rep.Channels[0].Peak; p < 0.99 || p > 1 {
		t.Errorf("peak = %g, want full scale", p)
	}
}

func TestInspectBinauralSeparation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_7.00hz_binaural.wav")
	renderTo(t, path, render.FrequencySpec{TargetHz: 7, Hint: render.HintCustom}, 10)

	rep, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(rep.Channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(rep.Channels))
	}
	left, right := rep.Channels[0].DominantHz, rep.Channels[1].DominantHz
	bin := BinWidth(rep.Frames, rep.SampleRate)
	if math.Abs(left-render.CarrierHz) > bin {
		t.Errorf("left = %g Hz, want %g", left, render.CarrierHz)
	}
	if d := right - left; math.Abs(d-7) > 2*bin {
		t.Errorf("separation = %g Hz, want 7", d)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	in := make([]float64, 1000)
	for i := range in {
		in[i] = math.Sin(float64(i)/13) * 0.9
	}
	var buf bytes.Buffer
	w, err := spiritwav.NewWriter(&buf, spiritwav.Header{Channels: 1, Frames: len(in)})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(in); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	d, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Frames() != len(in) {
		t.Fatalf("frames = %d, want %d", d.Frames(), len(in))
	}
	for i, v := range d.Channels[0] {
		if math.Abs(v-in[i]) > 1.0/32768 {
			t.Fatalf("sample %d = %g, want %g", i, v, in[i])
		}
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("definitely not a riff file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); err == nil {
		t.Error("Inspect accepted a non-WAVE file")
	}
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("Inspect accepted a missing file")
	}
}
