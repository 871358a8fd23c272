// Command spirit renders catalog frequencies and utility signals to WAV files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/RenatoCabral2022/spirit/internal/analysis"
	"github.com/RenatoCabral2022/spirit/internal/batch"
	"github.com/RenatoCabral2022/spirit/internal/catalog"
	"github.com/RenatoCabral2022/spirit/internal/config"
	"github.com/RenatoCabral2022/spirit/internal/render"
	"github.com/RenatoCabral2022/spirit/internal/synth"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	defaultBase = render.CarrierHz
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	logger.Sync()
	os.Exit(code)
}

type options struct {
	output      string
	duration    int
	frequency   float64
	mode        string
	seed        *uint64
	workers     int
	stereo      bool
	metricsFile string
	base        float64
	start       float64
	end         float64
	curve       string
	gate        string
}

func newFlagSet(cfg *config.Config, o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("spirit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.output, "output", cfg.OutputDir, "output directory (created if missing)")
	fs.StringVar(&o.output, "o", cfg.OutputDir, "shorthand for -output")
	fs.IntVar(&o.duration, "duration", cfg.Duration, "duration of each file in seconds")
	fs.IntVar(&o.duration, "d", cfg.Duration, "shorthand for -duration")
	fs.Float64Var(&o.frequency, "frequency", 0, "target frequency in Hz for custom and bowl")
	fs.StringVar(&o.mode, "mode", string(render.ModeAuto), "auto, sine, binaural or isochronic")
	fs.Func("seed", "noise seed (random when unset)", func(s string) error {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		o.seed = &v
		return nil
	})
	fs.IntVar(&o.workers, "workers", cfg.Workers, "files rendered in parallel")
	fs.BoolVar(&o.stereo, "stereo", false, "write mono signals as two identical channels")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile when done")
	fs.Float64Var(&o.base, "base", defaultBase, "carrier frequency for binaural presets")
	fs.Float64Var(&o.start, "start", 20, "sweep start frequency")
	fs.Float64Var(&o.end, "end", 20000, "sweep end frequency")
	fs.StringVar(&o.curve, "curve", "", "sweep curve: linear or exponential")
	fs.StringVar(&o.gate, "gate", "", "isochronic gate: sine or pulse")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `usage: spirit [flags] <command> [args]

commands:
  list [category]        show categories, or the frequencies of one
  all                    every category plus the presets below
  <category>             every frequency of a catalog category
                         (chakras adds the full meditation sequence)
  white-noise | pink-noise | brown-noise | noise
  drone f1,f2,...        layered drone with slow fades
  layer f1,f2,...        equal-weight layered tones
  sweep                  glide from -start to -end
  custom [F]             one frequency (-frequency F) in -mode
  bowl [F]               singing bowl struck at F
  binaural               brainwave presets on -base
  schumann | tuning | om (tuning adds a 432/440 A-B file)
  inspect FILE...        decode WAV files and report dominant frequencies

flags:`)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs accepts flags before and after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func parseFreqs(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad frequency %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string, stdout, stderr io.Writer) int {
	var o options
	fs := newFlagSet(cfg, &o, stderr)
	pos, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if len(pos) == 0 {
		fs.Usage()
		return exitUsage
	}
	command, rest := pos[0], pos[1:]

	switch command {
	case "list":
		return list(stdout, stderr, rest)
	case "inspect":
		return inspect(stdout, stderr, rest)
	}

	if o.duration <= 0 {
		fmt.Fprintf(stderr, "spirit: duration must be a positive number of seconds, got %d\n", o.duration)
		return exitUsage
	}
	mode, err := render.ParseMode(o.mode)
	if err != nil {
		fmt.Fprintf(stderr, "spirit: %v\n", err)
		return exitUsage
	}
	gate, err := synth.ParseGate(o.gate)
	if err != nil {
		fmt.Fprintf(stderr, "spirit: %v\n", err)
		return exitUsage
	}

	jobs, err := buildJobs(command, rest, o, mode)
	if err != nil {
		fmt.Fprintf(stderr, "spirit: %v\n", err)
		if errors.Is(err, catalog.ErrUnknownCategory) {
			return exitFailed
		}
		return exitUsage
	}
	for i := range jobs {
		jobs[i].Spec.Gate = gate
	}

	if err := os.MkdirAll(o.output, 0o755); err != nil {
		fmt.Fprintf(stderr, "spirit: create output dir: %v\n", err)
		return exitFailed
	}

	runner := batch.NewRunner(logger, o.workers)
	summary := runner.Run(ctx, jobs)
	report(stdout, stderr, summary)

	if o.metricsFile != "" {
		if err := prometheus.WriteToTextfile(o.metricsFile, prometheus.DefaultGatherer); err != nil {
			fmt.Fprintf(stderr, "spirit: write metrics: %v\n", err)
		}
	}
	return batch.ExitCode(summary)
}

func buildJobs(command string, rest []string, o options, mode render.Mode) ([]batch.Job, error) {
	jo := catalog.JobOptions{OutputDir: o.output, Seconds: o.duration, Mode: mode, Stereo: o.stereo}
	cat := catalog.Default()

	// a frequency may be given as -frequency or as the first argument
	freq := func() (float64, error) {
		if len(rest) > 0 {
			v, err := strconv.ParseFloat(rest[0], 64)
			if err != nil {
				return 0, fmt.Errorf("bad frequency %q", rest[0])
			}
			return v, nil
		}
		if o.frequency == 0 {
			return 0, fmt.Errorf("%s needs a frequency", command)
		}
		return o.frequency, nil
	}

	switch command {
	case "all":
		return append(cat.AllJobs(jo), cat.Extras(jo)...), nil
	case "white-noise":
		return catalog.Noise(jo, o.seed, synth.White), nil
	case "pink-noise":
		return catalog.Noise(jo, o.seed, synth.Pink), nil
	case "brown-noise":
		return catalog.Noise(jo, o.seed, synth.Brown), nil
	case "noise":
		return catalog.Noise(jo, o.seed, synth.White, synth.Pink, synth.Brown), nil
	case "drone", "layer":
		if len(rest) == 0 {
			return nil, fmt.Errorf("%s needs a comma-separated frequency list", command)
		}
		freqs, err := parseFreqs(strings.Join(rest, ","))
		if err != nil {
			return nil, err
		}
		if command == "drone" {
			return []batch.Job{catalog.Drone(jo, freqs)}, nil
		}
		return []batch.Job{catalog.Layer(jo, freqs)}, nil
	case "sweep":
		curve, err := synth.ParseCurve(o.curve)
		if err != nil {
			return nil, err
		}
		return []batch.Job{catalog.Sweep(jo, o.start, o.end, curve)}, nil
	case "custom":
		hz, err := freq()
		if err != nil {
			return nil, err
		}
		return []batch.Job{catalog.Custom(jo, hz, mode)}, nil
	case "bowl":
		hz, err := freq()
		if err != nil {
			return nil, err
		}
		return []batch.Job{catalog.Bowl(jo, hz)}, nil
	case "binaural":
		return catalog.BinauralPresets(jo, o.base), nil
	case "schumann":
		return catalog.Schumann(jo), nil
	case "tuning":
		return catalog.Tuning(jo), nil
	case "om":
		return []batch.Job{catalog.Om(jo)}, nil
	case "chakras":
		jobs, err := cat.Jobs(command, jo)
		if err != nil {
			return nil, err
		}
		m, err := cat.Meditation(jo)
		if err != nil {
			return nil, err
		}
		return append(jobs, m), nil
	}
	return cat.Jobs(command, jo)
}

func report(stdout, stderr io.Writer, s batch.Summary) {
	var total int64
	for _, r := range s.Results {
		if r.OK() {
			total += r.Bytes
			fmt.Fprintf(stdout, "%s\n", r.Job.Path)
			continue
		}
		fmt.Fprintf(stderr, "failed %s: %v\n", r.Job.Path, r.Err)
	}
	fmt.Fprintf(stdout, "rendered %d files (%.1f MB), %d failed\n",
		s.Succeeded, float64(total)/(1<<20), s.Failed)
}

func list(stdout, stderr io.Writer, args []string) int {
	cat := catalog.Default()
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if len(args) == 0 {
		fmt.Fprintln(tw, "brainwave states (binaural presets)")
		for _, s := range catalog.BrainwaveStates {
			fmt.Fprintf(tw, "  %s\t%g-%g Hz\t%s\n", s.Name, s.LowHz, s.HighHz, s.Description)
		}
		fmt.Fprintln(tw, "\ncategories")
		for _, c := range cat.Categories() {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", c.Command, len(c.Frequencies), c.Display)
		}
		return exitOK
	}
	c, ok := cat.Category(args[0])
	if !ok {
		fmt.Fprintf(stderr, "spirit: unknown category %q\n", args[0])
		return exitFailed
	}
	for _, e := range c.Frequencies {
		fmt.Fprintf(tw, "%g Hz\t%s\t%s\n", e.Hz, e.Name, e.Description)
	}
	return exitOK
}

func inspect(stdout, stderr io.Writer, paths []string) int {
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "spirit: inspect needs at least one file")
		return exitUsage
	}
	failed := 0
	for _, p := range paths {
		rep, err := analysis.Inspect(p)
		if err != nil {
			fmt.Fprintf(stderr, "spirit: %v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s: %d Hz, %d-bit, %d ch, %d frames (%s), %d bytes\n",
			rep.Path, rep.SampleRate, rep.BitDepth, len(rep.Channels), rep.Frames, rep.Duration, rep.Size)
		for i, ch := range rep.Channels {
			fmt.Fprintf(stdout, "  ch%d: dominant %.2f Hz, peak %.3f\n", i, ch.DominantHz, ch.Peak)
		}
	}
	if failed == len(paths) {
		return exitFailed
	}
	return exitOK
}
