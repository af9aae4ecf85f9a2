package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records transition engine activity.
type WorkflowMetrics struct {
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_action_duration_seconds",
		Help:    "Duration of workflow actions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "Workflow actions by action name and outcome.",
	}, []string{"action", "outcome"})
	reg.MustRegister(duration, transitions)
	return &WorkflowMetrics{
		duration:    duration,
		transitions: transitions,
	}
}

// ObserveDuration records the duration for the named action.
func (m *WorkflowMetrics) ObserveDuration(action string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(action)).Observe(duration.Seconds())
}

// IncTransition counts one action with the given outcome
// ("applied", "rejected", "error").
func (m *WorkflowMetrics) IncTransition(action, outcome string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
