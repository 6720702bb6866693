package observability

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by run and step events.
type Metrics struct {
	Runs         *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	Steps        *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
	InFlight     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Name:      "runs_total",
				Help:      "Finished runs by environment and status.",
			},
			[]string{"selector", "status"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lattice",
				Name:      "run_duration_seconds",
				Help:      "Wall time of a run.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"selector"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Name:      "steps_total",
				Help:      "Finished steps by phase, group and outcome.",
			},
			[]string{"phase", "group", "outcome"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lattice",
				Name:      "step_duration_seconds",
				Help:      "Duration of a single command.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lattice",
			Name:      "runs_in_flight",
			Help:      "Runs currently executing.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.RunDuration, m.Steps, m.StepDuration, m.InFlight)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.InFlight.Inc()
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			m.InFlight.Dec()
			m.Runs.WithLabelValues(e.Selector, string(e.Status)).Inc()
			m.RunDuration.WithLabelValues(e.Selector).Observe(e.Duration.Seconds())
		},
		OnStepFinish: func(_ context.Context, e *domain.StepEvent) {
			if e.Result == nil {
				return
			}
			m.Steps.WithLabelValues(string(e.Step.Phase), e.Step.Group, Outcome(*e.Result)).Inc()
			m.StepDuration.WithLabelValues(string(e.Step.Phase)).Observe(e.Result.Duration.Seconds())
		},
	}
}

// Outcome classifies a step result as passed, failed, ignored or skipped.
func Outcome(r domain.StepResult) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Ignored:
		return "ignored"
	case r.Failed():
		return "failed"
	}
	return "passed"
}
