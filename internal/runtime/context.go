package runtime

import (
	"github.com/aretw0/ensemble/pkg/domain"
)

// evalContext builds the flat value context conditions are evaluated
// against: the accumulated decisions plus derived keys. Decisions win on
// collision, matching the original contract that agent output has the
// highest priority.
func (e *Engine) evalContext(session *domain.Session) map[string]domain.Value {
	vars := make(map[string]domain.Value, len(session.Decisions)+8)
	for k, v := range session.Decisions {
		vars[k] = v
	}

	derived := map[string]domain.Value{
		"turn_count":         domain.Number(float64(session.TurnCount)),
		"max_turns_exceeded": domain.Bool(session.TurnCount >= e.def.MaxTurns),
		"error_occurred":     domain.Bool(session.Error != ""),
		"last_agent_name":    domain.String(lastAgent(session)),
	}
	// Fine-grained visit counters, one per state.
	for i := range e.def.States {
		name := e.def.States[i].Name
		derived["turn_count_"+name] = domain.Number(float64(session.Visits(name)))
	}

	for k, v := range derived {
		if _, taken := vars[k]; !taken {
			vars[k] = v
		}
	}
	return vars
}

// templateVars extends the condition context with the fixed substitution
// set available to prompt templates.
func (e *Engine) templateVars(session *domain.Session) map[string]domain.Value {
	vars := e.evalContext(session)

	fixed := map[string]domain.Value{
		"initial_message":     domain.String(e.def.InitialMessage),
		"collaboration_guide": domain.String(e.guide),
		"workflow_name":       domain.String(e.def.Name),
		"last_agent_content":  domain.String(lastContent(session)),
		"last_agent_decisions": func() domain.Value {
			if rec := lastRecord(session); rec != nil && len(rec.Decisions) > 0 {
				fields := make(map[string]domain.Value, len(rec.Decisions))
				for k, v := range rec.Decisions {
					fields[k] = v
				}
				return domain.Object(fields)
			}
			return domain.String("{}")
		}(),
	}
	for k, v := range fixed {
		if _, taken := vars[k]; !taken {
			vars[k] = v
		}
	}
	return vars
}

func lastRecord(session *domain.Session) *domain.TurnRecord {
	if len(session.History) == 0 {
		return nil
	}
	return &session.History[len(session.History)-1]
}

func lastAgent(session *domain.Session) string {
	if rec := lastRecord(session); rec != nil {
		return rec.Agent
	}
	return ""
}

func lastContent(session *domain.Session) string {
	if rec := lastRecord(session); rec != nil {
		return rec.Content
	}
	return ""
}
