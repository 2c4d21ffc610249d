package observability

import (
	"context"

	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for dialog activity.
type Metrics struct {
	DialogBegins *prometheus.CounterVec
	DialogEnds   *prometheus.CounterVec
	TurnDuration prometheus.Histogram
	TurnErrors   prometheus.Counter
	StackDepth   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DialogBegins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialogs_dialog_begin_total",
				Help: "Total number of dialogs pushed onto a stack",
			},
			[]string{"dialog"},
		),
		DialogEnds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dialogs_dialog_end_total",
				Help: "Total number of dialogs popped from a stack, by end reason",
			},
			[]string{"dialog", "reason"},
		),
		TurnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dialogs_turn_duration_seconds",
				Help:    "Duration of processed turns",
				Buckets: prometheus.DefBuckets,
			},
		),
		TurnErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dialogs_turn_errors_total",
				Help: "Total number of turns that failed",
			},
		),
		StackDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dialogs_stack_depth",
				Help:    "Dialog stack depth at the end of a turn",
				Buckets: []float64{0, 1, 2, 3, 5, 8},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.DialogBegins, m.DialogEnds, m.TurnDuration, m.TurnErrors, m.StackDepth)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDialogBegin: func(ctx context.Context, e *domain.DialogEvent) {
			m.DialogBegins.WithLabelValues(e.DialogID).Inc()
		},
		OnDialogEnd: func(ctx context.Context, e *domain.DialogEvent) {
			m.DialogEnds.WithLabelValues(e.DialogID, e.Reason.String()).Inc()
		},
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			m.TurnDuration.Observe(e.Duration.Seconds())
			m.StackDepth.Observe(float64(e.Depth))
			if e.Err != nil {
				m.TurnErrors.Inc()
			}
		},
	}
}
