package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorkflowMetricsCountsTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg)

	m.IncTransition("packing", "applied")
	m.IncTransition("packing", "applied")
	m.IncTransition("packing", "rejected")
	m.ObserveDuration("packing", 25*time.Millisecond)

	applied := testutil.ToFloat64(m.transitions.WithLabelValues("packing", "applied"))
	if applied != 2 {
		t.Fatalf("expected 2 applied transitions, got %v", applied)
	}
	rejected := testutil.ToFloat64(m.transitions.WithLabelValues("packing", "rejected"))
	if rejected != 1 {
		t.Fatalf("expected 1 rejected transition, got %v", rejected)
	}
}

func TestWorkflowMetricsNilSafe(t *testing.T) {
	var m *WorkflowMetrics
	m.IncTransition("marking", "applied")
	m.ObserveDuration("marking", time.Second)

	empty := NewWorkflowMetrics(nil)
	empty.IncTransition("", "")
}
