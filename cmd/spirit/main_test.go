package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/RenatoCabral2022/spirit/internal/config"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cfg := &config.Config{OutputDir: t.TempDir(), Duration: 1, Workers: 2}
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, zaptest.NewLogger(t), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCustomWritesNamedFile(t *testing.T) {
	dir := t.TempDir()
	code, out, errOut := runCLI(t, "-o", dir, "custom", "528", "-d", "2")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, errOut)
	}
	path := filepath.Join(dir, "custom_528.00hz_sine.wav")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 44+2*44100*2 {
		t.Errorf("size = %d", info.Size())
	}
	if !strings.Contains(out, "rendered 1 files") {
		t.Errorf("stdout = %q", out)
	}
}

func TestCustomFrequencyFlag(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := runCLI(t, "--output", dir, "--frequency", "7", "custom")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "custom_7.00hz_binaural.wav")); err != nil {
		t.Errorf("binaural file missing: %v", err)
	}
}

func TestCategoryCommand(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := runCLI(t, "-o", dir, "solfeggio")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, errOut)
	}
	files, _ := os.ReadDir(filepath.Join(dir, "solfeggio"))
	if len(files) != 9 {
		t.Errorf("%d files, want 9", len(files))
	}
}

func TestChakrasIncludeMeditation(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := runCLI(t, "-o", dir, "-d", "1", "chakras")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, errOut)
	}
	files, _ := os.ReadDir(filepath.Join(dir, "chakras"))
	if len(files) != 8 {
		t.Errorf("%d files, want 7 chakras and the meditation", len(files))
	}
	info, err := os.Stat(filepath.Join(dir, "chakras", "chakra_full_meditation.wav"))
	if err != nil {
		t.Fatalf("meditation missing: %v", err)
	}
	if want := int64(44 + 7*44100*2); info.Size() != want {
		t.Errorf("meditation = %d bytes, want %d", info.Size(), want)
	}
}

func TestTuningWritesComparison(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := runCLI(t, "-o", dir, "-d", "1", "tuning")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, errOut)
	}
	info, err := os.Stat(filepath.Join(dir, "tuning", "tuning_432_440_comparison.wav"))
	if err != nil {
		t.Fatalf("comparison missing: %v", err)
	}
	if want := int64(44 + 2*5*44100*2); info.Size() != want {
		t.Errorf("comparison = %d bytes, want %d", info.Size(), want)
	}
}

func TestUnknownCategoryFails(t *testing.T) {
	code, _, errOut := runCLI(t, "-o", t.TempDir(), "astrology")
	if code != exitFailed {
		t.Errorf("exit = %d, want %d", code, exitFailed)
	}
	if !strings.Contains(errOut, "astrology") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestEveryJobFailingExitsNonZero(t *testing.T) {
	code, _, errOut := runCLI(t, "-o", t.TempDir(), "--frequency=-5", "custom")
	if code != exitFailed {
		t.Errorf("exit = %d, want %d", code, exitFailed)
	}
	if !strings.Contains(errOut, "configuration error") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"-d", "0", "solfeggio"},
		{"--mode", "quantum", "custom", "528"},
		{"--gate", "square", "schumann"},
		{"--curve", "cubic", "sweep"},
		{"custom"},
		{"drone"},
		{"layer", "1,x"},
		{"--nope"},
	}
	for _, args := range tests {
		if code, _, _ := runCLI(t, args...); code != exitUsage {
			t.Errorf("run(%q) = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestNoiseWithSeedIsReproducible(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	for _, dir := range []string{a, b} {
		if code, _, errOut := runCLI(t, "-o", dir, "--seed", "7", "pink-noise"); code != exitOK {
			t.Fatalf("exit = %d, stderr %s", code, errOut)
		}
	}
	x, err := os.ReadFile(filepath.Join(a, "noise", "pink_noise.wav"))
	if err != nil {
		t.Fatal(err)
	}
	y, _ := os.ReadFile(filepath.Join(b, "noise", "pink_noise.wav"))
	if !bytes.Equal(x, y) {
		t.Error("seeded pink noise differs between runs")
	}
}

func TestListAndInspect(t *testing.T) {
	code, out, _ := runCLI(t, "list")
	if code != exitOK || !strings.Contains(out, "solfeggio") {
		t.Errorf("list = %d, %q", code, out)
	}
	alpha := strings.Index(out, "alpha")
	if alpha < 0 || !strings.Contains(out, "8-14 Hz") || alpha > strings.Index(out, "solfeggio") {
		t.Errorf("list should open with the brainwave states: %q", out)
	}
	code, out, _ = runCLI(t, "list", "solfeggio")
	if code != exitOK || !strings.Contains(out, "528 Hz") {
		t.Errorf("list solfeggio = %d, %q", code, out)
	}
	if code, _, _ := runCLI(t, "list", "astrology"); code != exitFailed {
		t.Errorf("list unknown = %d", code)
	}

	dir := t.TempDir()
	if code, _, errOut := runCLI(t, "-o", dir, "-d", "2", "custom", "432"); code != exitOK {
		t.Fatalf("render exit = %d, stderr %s", code, errOut)
	}
	code, out, _ = runCLI(t, "inspect", filepath.Join(dir, "custom_432.00hz_sine.wav"))
	if code != exitOK {
		t.Fatalf("inspect exit = %d", code)
	}
	if !strings.Contains(out, "1 ch") || !strings.Contains(out, "dominant 432") {
		t.Errorf("inspect output = %q", out)
	}
	if code, _, _ := runCLI(t, "inspect", filepath.Join(dir, "missing.wav")); code != exitFailed {
		t.Errorf("inspect missing = %d, want %d", code, exitFailed)
	}
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "spirit.prom")
	if code, _, errOut := runCLI(t, "-o", dir, "--metrics-file", metricsPath, "tuning"); code != exitOK {
		t.Fatalf("exit = %d, stderr %s", code, errOut)
	}
	b, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(b), "spirit_jobs_total") {
		t.Error("metrics file lacks spirit_jobs_total")
	}
}
