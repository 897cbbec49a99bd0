package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

// Run drives the session until it reaches a terminal status or the context
// is canceled. Within one run execution is strictly sequential: each turn's
// routing depends on the prior turn's decisions.
//
// Cancellation is cooperative and takes effect only at the top of the turn
// loop; the session is persisted with StatusRunning so a later invocation
// can resume it. A safety stop (MaxTurns reached) ends the run in
// StatusHalted, distinguishable from a workflow-directed StatusTerminated.
func (e *Engine) Run(ctx context.Context, session *domain.Session) error {
	switch session.Status {
	case domain.StatusIdle:
		session.Status = domain.StatusRunning
		e.fireRunStart(ctx, session)
	case domain.StatusRunning:
		// Resuming a paused session.
		e.logger.Info("resuming session", "session", session.ID, "state", session.CurrentState, "turn", session.TurnCount)
	default:
		return fmt.Errorf("session %s already finished with status %q", session.ID, session.Status)
	}

	for {
		// Cancellation point: before any turn work begins.
		select {
		case <-ctx.Done():
			e.persist(session)
			return ctx.Err()
		default:
		}

		// Safety stop. Never loop past the turn budget.
		if session.TurnCount >= e.def.MaxTurns {
			session.Status = domain.StatusHalted
			e.logger.Warn("max turns reached, halting run", "session", session.ID, "turns", session.TurnCount)
			e.persist(session)
			e.fireRunEnd(ctx, session)
			return nil
		}

		if err := e.step(ctx, session); err != nil {
			session.Status = domain.StatusAborted
			session.Error = err.Error()
			e.persist(session)
			e.fireRunEnd(ctx, session)
			return err
		}

		e.persist(session)
		if session.Status.Terminal() {
			e.fireRunEnd(ctx, session)
			return nil
		}
	}
}

// step executes one full turn in the strict order: exit conditions, prompt
// rendering, agent invocation, control block extraction, decision merge,
// transition resolution, turn record.
func (e *Engine) step(ctx context.Context, session *domain.Session) error {
	state, ok := e.def.State(session.CurrentState)
	if !ok {
		// Only reachable when a persisted session references a definition
		// that has since changed.
		return fmt.Errorf("current state %q is not part of workflow %q", session.CurrentState, e.def.Name)
	}

	e.fireTurnStart(ctx, session, state)

	// 1. Global exit conditions, always before state-local logic.
	vars := e.evalContext(session)
	for _, exit := range e.def.ExitConditions {
		if !e.evalCondition(exit.Condition, vars, session) {
			continue
		}
		e.logger.Info("exit condition matched", "session", session.ID, "condition", exit.Condition.Source(), "action", exit.Action)
		if exit.Action == domain.ExitSaveAndEnd {
			session.Error = fmt.Sprintf("exit condition %q requested save_and_end", exit.Condition.Source())
			e.persist(session)
		}
		session.Status = domain.StatusTerminated
		return nil
	}

	// 2. Render the state's prompt.
	rendered, notes := state.Prompt.Render(e.templateVars(session))
	for _, note := range notes {
		e.logger.Debug("prompt rendering note", "session", session.ID, "state", state.Name, "note", note)
	}

	// 3. Invoke the agent proxy. The sole long-latency boundary.
	raw, err := e.invoke(ctx, session, state, rendered)
	if err != nil {
		return err
	}

	// 4. Extract the trailing JSON control block.
	reply, err := extractControlBlock(raw)
	if err != nil {
		return &domain.ResponseFormatError{
			State:  state.Name,
			Agent:  state.Agent,
			Turn:   session.TurnCount + 1,
			Reason: err.Error(),
			Raw:    raw,
		}
	}

	// 5. Merge decisions: most-recent-wins per key, union retained.
	session.Decisions.Merge(reply.Decisions)

	// 6. Commit the turn before routing, so transition conditions see the
	// completed turn in turn_count and the per-state visit counters.
	session.History = append(session.History, domain.TurnRecord{
		Turn:      session.TurnCount + 1,
		State:     state.Name,
		Agent:     state.Agent,
		Prompt:    rendered,
		Response:  raw,
		Content:   reply.Content,
		Decisions: reply.Decisions,
	})
	session.TurnCount++

	// 7. First matching transition wins; no match terminates the run.
	next := e.resolveTransition(ctx, session, state)

	if next == domain.EndTarget {
		session.Status = domain.StatusTerminated
		return nil
	}
	session.CurrentState = next
	return nil
}

// invoke calls the agent proxy with the per-turn timeout applied. A
// timeout or proxy failure is treated identically to an unparseable
// response: the run aborts and is not retried here.
func (e *Engine) invoke(ctx context.Context, session *domain.Session, state *domain.StateSpec, rendered string) (string, error) {
	agent, _ := e.def.Agent(state.Agent)

	callCtx := ctx
	if e.turnTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.turnTimeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := e.proxy.Invoke(callCtx, ports.AgentCall{
		Agent:     state.Agent,
		AgentType: agent.Type,
		Workspace: session.Workspace,
		Prompt:    rendered,
	})
	latency := time.Since(started)
	e.fireAgentReturn(ctx, session, state, latency, raw, err != nil)

	if err != nil {
		return "", &domain.ResponseFormatError{
			State:  state.Name,
			Agent:  state.Agent,
			Turn:   session.TurnCount + 1,
			Reason: fmt.Sprintf("agent call failed: %v", err),
		}
	}
	return raw, nil
}

// resolveTransition evaluates the state's transitions in declared order
// against the post-merge context and returns the first matching target.
// With no match the run terminates: authors supply an explicit fallback
// transition to avoid premature termination.
func (e *Engine) resolveTransition(ctx context.Context, session *domain.Session, state *domain.StateSpec) string {
	vars := e.evalContext(session)
	for _, tr := range state.Transitions {
		if !e.evalCondition(tr.Condition, vars, session) {
			continue
		}
		e.fireTransition(ctx, session, state.Name, tr)
		return tr.To
	}
	e.logger.Info("no transition matched, terminating", "session", session.ID, "state", state.Name)
	return domain.EndTarget
}

// evalCondition resolves a compiled condition, giving host-registered named
// conditions precedence over expression evaluation.
func (e *Engine) evalCondition(cond domain.Condition, vars map[string]domain.Value, session *domain.Session) bool {
	if len(e.conditions) > 0 {
		if fn, ok := e.conditions[strings.TrimSpace(cond.Source())]; ok {
			return fn(session.Decisions, session)
		}
	}
	return cond.Eval(vars)
}

// persist saves the session if a store is configured. Persistence failures
// are logged, not fatal: losing a snapshot must not kill a healthy run.
func (e *Engine) persist(session *domain.Session) {
	if e.store == nil {
		return
	}
	// Saving uses a background context so a canceled run still persists.
	if err := e.store.Save(context.Background(), session); err != nil {
		e.logger.Error("failed to persist session", "session", session.ID, "err", err)
	}
}
