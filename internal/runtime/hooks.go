package runtime

import (
	"context"
	"time"

	"github.com/aretw0/ensemble/pkg/domain"
)

// Hook dispatchers. Each is a no-op when the corresponding callback is nil,
// so the hot path carries no conditional logic at call sites.

func (e *Engine) fireRunStart(ctx context.Context, session *domain.Session) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		SessionID: session.ID,
		Workflow:  session.WorkflowName,
		Status:    session.Status,
		Turns:     session.TurnCount,
		Timestamp: time.Now(),
	})
}

func (e *Engine) fireTurnStart(ctx context.Context, session *domain.Session, state *domain.StateSpec) {
	if e.hooks.OnTurnStart == nil {
		return
	}
	e.hooks.OnTurnStart(ctx, &domain.TurnEvent{
		SessionID: session.ID,
		Turn:      session.TurnCount + 1,
		State:     state.Name,
		Agent:     state.Agent,
		Timestamp: time.Now(),
	})
}

func (e *Engine) fireAgentReturn(ctx context.Context, session *domain.Session, state *domain.StateSpec, latency time.Duration, content string, failed bool) {
	if e.hooks.OnAgentReturn == nil {
		return
	}
	e.hooks.OnAgentReturn(ctx, &domain.AgentReturnEvent{
		SessionID: session.ID,
		Turn:      session.TurnCount + 1,
		State:     state.Name,
		Agent:     state.Agent,
		Latency:   latency,
		Content:   content,
		Failed:    failed,
	})
}

func (e *Engine) fireTransition(ctx context.Context, session *domain.Session, from string, tr domain.Transition) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		SessionID: session.ID,
		Turn:      session.TurnCount,
		From:      from,
		To:        tr.To,
		Condition: tr.Condition.Source(),
	})
}

func (e *Engine) fireRunEnd(ctx context.Context, session *domain.Session) {
	if e.hooks.OnRunEnd == nil {
		return
	}
	e.hooks.OnRunEnd(ctx, &domain.RunEvent{
		SessionID: session.ID,
		Workflow:  session.WorkflowName,
		Status:    session.Status,
		Turns:     session.TurnCount,
		Timestamp: time.Now(),
	})
}
