package domain

import (
	"context"
	"time"
)

// RunEvent marks the start or end of a run.
type RunEvent struct {
	SessionID string    `json:"session_id"`
	Workflow  string    `json:"workflow"`
	Status    RunStatus `json:"status"`
	Turns     int       `json:"turns"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnEvent marks the top of a turn, before exit conditions are checked.
type TurnEvent struct {
	SessionID string    `json:"session_id"`
	Turn      int       `json:"turn"`
	State     string    `json:"state"`
	Agent     string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// AgentReturnEvent marks a completed agent proxy call.
type AgentReturnEvent struct {
	SessionID string        `json:"session_id"`
	Turn      int           `json:"turn"`
	State     string        `json:"state"`
	Agent     string        `json:"agent"`
	Latency   time.Duration `json:"latency"`
	Content   string        `json:"content"`
	Failed    bool          `json:"failed,omitempty"`
}

// TransitionEvent marks a taken transition. To is EndTarget when the
// workflow directed its own completion.
type TransitionEvent struct {
	SessionID string `json:"session_id"`
	Turn      int    `json:"turn"`
	From      string `json:"from"`
	To        string `json:"to"`
	Condition string `json:"condition,omitempty"`
}

// LifecycleHooks defines optional callbacks for engine observability.
// Nil hooks are skipped. Hooks run synchronously inside the turn loop and
// must be fast.
type LifecycleHooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnTurnStart   func(context.Context, *TurnEvent)
	OnAgentReturn func(context.Context, *AgentReturnEvent)
	OnTransition  func(context.Context, *TransitionEvent)
	OnRunEnd      func(context.Context, *RunEvent)
}
