package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/ensemble/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTurnStart(ctx, &domain.TurnEvent{State: "design", Agent: "architect"})
	hooks.OnTurnStart(ctx, &domain.TurnEvent{State: "build", Agent: "dev"})
	hooks.OnAgentReturn(ctx, &domain.AgentReturnEvent{Agent: "dev", Latency: 2 * time.Second})
	hooks.OnAgentReturn(ctx, &domain.AgentReturnEvent{Agent: "dev", Latency: time.Second, Failed: true})
	hooks.OnTransition(ctx, &domain.TransitionEvent{From: "design", To: "build"})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Workflow: "wf", Status: domain.StatusTerminated})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("design", "architect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("build", "dev")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.agentErrors.WithLabelValues("dev")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("design", "build")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("wf", "terminated")))
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, _ *domain.RunEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnRunEnd:    func(_ context.Context, _ *domain.RunEvent) { order = append(order, "b") },
		OnTurnStart: func(_ context.Context, _ *domain.TurnEvent) { order = append(order, "turn") },
	}

	combined := Combine(a, b)
	combined.OnRunEnd(context.Background(), &domain.RunEvent{})
	combined.OnTurnStart(context.Background(), &domain.TurnEvent{})

	assert.Equal(t, []string{"a", "b", "turn"}, order)
	assert.Nil(t, combined.OnAgentReturn)
}
