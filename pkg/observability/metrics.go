// Package observability provides Prometheus instrumentation for the
// engine, packaged as lifecycle hooks so the runtime stays metrics-free.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/ensemble/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	turnsTotal   *prometheus.CounterVec
	agentLatency *prometheus.HistogramVec
	agentErrors  *prometheus.CounterVec
	transitions  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on the given registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensemble_runs_total",
				Help: "Total number of finished runs by workflow and final status",
			},
			[]string{"workflow", "status"},
		),
		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensemble_turns_total",
				Help: "Total number of started turns by state",
			},
			[]string{"state", "agent"},
		),
		agentLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ensemble_agent_call_duration_seconds",
				Help:    "Duration of agent proxy calls",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"agent"},
		),
		agentErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensemble_agent_call_errors_total",
				Help: "Total number of failed agent proxy calls",
			},
			[]string{"agent"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensemble_transitions_total",
				Help: "Total number of taken transitions by edge",
			},
			[]string{"from", "to"},
		),
	}
	registry.MustRegister(m.runsTotal, m.turnsTotal, m.agentLatency, m.agentErrors, m.transitions)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Compose with
// other hooks via Combine when logging callbacks are also needed.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) {
			m.turnsTotal.WithLabelValues(e.State, e.Agent).Inc()
		},
		OnAgentReturn: func(_ context.Context, e *domain.AgentReturnEvent) {
			m.agentLatency.WithLabelValues(e.Agent).Observe(e.Latency.Seconds())
			if e.Failed {
				m.agentErrors.WithLabelValues(e.Agent).Inc()
			}
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(e.From, e.To).Inc()
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.runsTotal.WithLabelValues(e.Workflow, string(e.Status)).Inc()
		},
	}
}

// Combine merges several hook sets into one; every non-nil callback in
// every set fires.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for i := range sets {
		h := sets[i]
		if h.OnRunStart != nil {
			out.OnRunStart = chain(out.OnRunStart, h.OnRunStart)
		}
		if h.OnTurnStart != nil {
			out.OnTurnStart = chain(out.OnTurnStart, h.OnTurnStart)
		}
		if h.OnAgentReturn != nil {
			out.OnAgentReturn = chain(out.OnAgentReturn, h.OnAgentReturn)
		}
		if h.OnTransition != nil {
			out.OnTransition = chain(out.OnTransition, h.OnTransition)
		}
		if h.OnRunEnd != nil {
			out.OnRunEnd = chain(out.OnRunEnd, h.OnRunEnd)
		}
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
