package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spirit_active_jobs",
		Help: "Number of render jobs currently synthesizing",
	})
	WorkerSlotsUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spirit_worker_slots_used",
		Help: "Number of batch worker slots currently in use",
	})
)

// Counters
var (
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spirit_jobs_total",
		Help: "Total render jobs by outcome",
	}, []string{"outcome"})
	BytesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spirit_bytes_written_total",
		Help: "Total WAVE bytes written to disk",
	})
	RenderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spirit_render_requests_total",
		Help: "Total HTTP render requests by status",
	}, []string{"status"})
)

// Histograms
var (
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spirit_job_duration_ms",
		Help:    "Render job duration in milliseconds by generator",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"generator"})
)

// Outcome labels for JobsTotal.
const (
	OutcomeOK            = "ok"
	OutcomeConfiguration = "configuration_error"
	OutcomeIO            = "io_error"
	OutcomeSynthesis     = "synthesis_error"
	OutcomeCancelled     = "cancelled"
)
