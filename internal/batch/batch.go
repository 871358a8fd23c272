// Package batch renders many jobs on a bounded worker pool. Each job fails
// on its own; the caller gets a summary of every outcome.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RenatoCabral2022/spirit/internal/metrics"
	"github.com/RenatoCabral2022/spirit/internal/render"
)

// Job is one file to render.
type Job struct {
	ID      string
	Spec    render.FrequencySpec
	Mode    render.Mode
	Seconds int
	Stereo  bool
	Path    string
}

// Validate rejects jobs that cannot start.
func (j Job) Validate() error {
	if j.Seconds <= 0 {
		return &render.Error{Kind: render.KindConfiguration, Op: "validate",
			Err: fmt.Errorf("duration must be positive, got %d s", j.Seconds)}
	}
	if j.Path == "" {
		return &render.Error{Kind: render.KindConfiguration, Op: "validate",
			Err: errors.New("output path is empty")}
	}
	return nil
}

// Result is the outcome of one job.
type Result struct {
	Job       Job
	Generator string
	Channels  int
	Bytes     int64
	Seed      uint64
	Elapsed   time.Duration
	Err       error
}

// OK reports whether the job produced its file.
func (r Result) OK() bool { return r.Err == nil }

// Summary collects every job's Result in submission order.
type Summary struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// Err combines the failures, or returns nil if every job succeeded.
func (s Summary) Err() error {
	var err error
	for _, r := range s.Results {
		if r.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", r.Job.Path, r.Err))
		}
	}
	return err
}

// ExitCode is non-zero only when jobs were attempted and every one failed.
func ExitCode(s Summary) int {
	if s.Failed > 0 && s.Succeeded == 0 {
		return 1
	}
	return 0
}

// Runner executes jobs with at most Workers in flight.
type Runner struct {
	logger  *zap.Logger
	workers int
	write   func(path string, plan render.Plan, opts render.Options) (render.Result, error)
}

// NewRunner creates a Runner. workers <= 0 means runtime.NumCPU().
func NewRunner(logger *zap.Logger, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{logger: logger, workers: workers, write: render.WriteFile}
}

// Workers returns the pool size.
func (r *Runner) Workers() int { return r.workers }

// Run renders jobs and blocks until all dispatched jobs finish. Cancelling
// ctx stops further dispatch; jobs already running complete and undispatched
// jobs are reported as failed with the context error.
func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	results := make([]Result, len(jobs))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		if ctx.Err() != nil {
			results[i] = r.cancelled(job, ctx.Err())
			continue
		}
		select {
		case sem <- struct{}{}:
			metrics.WorkerSlotsUsed.Inc()
		case <-ctx.Done():
			results[i] = r.cancelled(job, ctx.Err())
			continue
		}
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			defer func() {
				<-sem
				metrics.WorkerSlotsUsed.Dec()
			}()
			results[i] = r.runOne(job)
		}(i, job)
	}
	wg.Wait()

	s := Summary{Results: results}
	for _, res := range results {
		if res.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	r.logger.Info("batch complete",
		zap.Int("jobs", len(jobs)),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
	)
	return s
}

func (r *Runner) cancelled(job Job, err error) Result {
	metrics.JobsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
	r.logger.Debug("job not started", zap.String("job", job.ID), zap.String("path", job.Path))
	return Result{Job: job, Err: fmt.Errorf("job not started: %w", err)}
}

func (r *Runner) runOne(job Job) Result {
	start := time.Now()
	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	logger := r.logger.With(
		zap.String("job", job.ID),
		zap.String("category", job.Spec.Category),
		zap.String("label", job.Spec.Label),
	)

	res := Result{Job: job}
	finish := func(err error) Result {
		res.Elapsed = time.Since(start)
		res.Err = render.Annotate(err, job.Spec, res.Generator)
		r.record(logger, res)
		return res
	}

	if err := job.Validate(); err != nil {
		return finish(err)
	}
	plan, err := render.Select(job.Spec, job.Mode)
	if err != nil {
		return finish(err)
	}
	res.Generator = plan.Generator.String()

	out, err := r.write(job.Path, plan, render.Options{Seconds: job.Seconds, Stereo: job.Stereo})
	if err != nil {
		return finish(err)
	}
	res.Bytes = out.Bytes()
	res.Channels = out.Header.Channels
	res.Seed = out.Seed
	return finish(nil)
}

func (r *Runner) record(logger *zap.Logger, res Result) {
	elapsedMs := float64(res.Elapsed.Microseconds()) / 1000.0
	generator := res.Generator
	if generator == "" {
		generator = "none"
	}
	metrics.JobDuration.WithLabelValues(generator).Observe(elapsedMs)

	if res.Err == nil {
		metrics.JobsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		metrics.BytesWrittenTotal.Add(float64(res.Bytes))
		logger.Info("rendered",
			zap.String("path", res.Job.Path),
			zap.Int64("bytes", res.Bytes),
			zap.Float64("elapsedMs", elapsedMs),
		)
		return
	}

	switch render.KindOf(res.Err) {
	case render.KindSynthesis:
		metrics.JobsTotal.WithLabelValues(metrics.OutcomeSynthesis).Inc()
		logger.Error("synthesis failed",
			zap.Float64("frequencyHz", res.Job.Spec.TargetHz),
			zap.String("generator", generator),
			zap.Error(res.Err),
		)
	case render.KindIO:
		metrics.JobsTotal.WithLabelValues(metrics.OutcomeIO).Inc()
		logger.Error("write failed", zap.String("path", res.Job.Path), zap.Error(res.Err))
	default:
		metrics.JobsTotal.WithLabelValues(metrics.OutcomeConfiguration).Inc()
		logger.Warn("job rejected",
			zap.Float64("frequencyHz", res.Job.Spec.TargetHz),
			zap.Error(res.Err),
		)
	}
}
