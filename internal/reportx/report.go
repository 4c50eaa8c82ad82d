// Package reportx is the timing/reporting external collaborator named in
// SPEC_FULL.md §1: it has no knowledge of the scheduler's internals, only
// of how long a run took and what it produced. Each run is tagged with a
// UUID so repeated runs are distinguishable in logs; the metrics are
// labelled by workload only, not by run.
package reportx

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the Prometheus collectors for scheduler benchmark runs.
// It is safe to share a single Registry across repeated runs; each run
// adds one observation rather than replacing previous ones.
type Registry struct {
	reg      *prometheus.Registry
	duration *prometheus.HistogramVec
	tasks    *prometheus.CounterVec
}

// NewRegistry builds a fresh Prometheus registry scoped to one process.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a single workload run.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"workload"})

	tasks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "tasks_executed_total",
		Help:      "Total number of tasks executed across all runs.",
	}, []string{"workload"})

	reg.MustRegister(duration, tasks)

	return &Registry{reg: reg, duration: duration, tasks: tasks}
}

// Gatherer exposes the underlying registry for an HTTP /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Run is one timed execution of a workload, identified by a UUID so
// repeated runs against the same workload are distinguishable.
type Run struct {
	ID       uuid.UUID
	Workload string
	Started  time.Time
}

// Start begins timing a run of the named workload.
func Start(workload string) *Run {
	return &Run{ID: uuid.New(), Workload: workload, Started: time.Now()}
}

// Finish records the run's duration and task count against r, and returns
// the elapsed wall-clock time for the caller to print or log.
func (run *Run) Finish(r *Registry, tasksExecuted int) time.Duration {
	elapsed := time.Since(run.Started)
	r.duration.WithLabelValues(run.Workload).Observe(elapsed.Seconds())
	r.tasks.WithLabelValues(run.Workload).Add(float64(tasksExecuted))
	return elapsed
}
