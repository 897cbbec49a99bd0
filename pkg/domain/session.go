package domain

import "time"

// RunStatus describes the lifecycle of a session.
type RunStatus string

const (
	// StatusIdle means the session exists but the driver has not started.
	StatusIdle RunStatus = "idle"
	// StatusRunning means the driver is mid-run (or the run was paused and
	// can be resumed).
	StatusRunning RunStatus = "running"
	// StatusTerminated means the workflow directed its own completion
	// (an END transition or a matching exit condition).
	StatusTerminated RunStatus = "terminated"
	// StatusAborted means a turn failed (unparseable agent response or
	// proxy timeout). The session is persisted for diagnosis; the engine
	// does not retry.
	StatusAborted RunStatus = "aborted"
	// StatusHalted means the max_turns safety stop fired before a terminal
	// transition was reached. Not an error: a designed outcome.
	StatusHalted RunStatus = "halted"
)

// Terminal reports whether the status ends the run.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusTerminated, StatusAborted, StatusHalted:
		return true
	}
	return false
}

// TurnRecord captures one full turn for audit and resume.
type TurnRecord struct {
	Turn      int       `json:"turn"`
	State     string    `json:"state"`
	Agent     string    `json:"agent"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Content   string    `json:"content"`
	Decisions Decisions `json:"decisions,omitempty"`
}

// Session is the mutable, persistable state of one run. Decisions and the
// workspace handle are keep-alive: they persist across the entire run with
// no reset between turns, so later turns can build on earlier agents'
// decision flags and file-system side effects.
//
// The JSON form is the persisted external interface: enough to resume a
// running session or audit a finished one.
type Session struct {
	ID           string       `json:"session_id"`
	WorkflowName string       `json:"workflow_name"`
	Status       RunStatus    `json:"status"`
	CurrentState string       `json:"current_state"`
	TurnCount    int          `json:"turn_count"`
	Decisions    Decisions    `json:"accumulated_decisions"`
	History      []TurnRecord `json:"turn_history"`
	Workspace    string       `json:"workspace,omitempty"`
	Error        string       `json:"error,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
}

// NewSession creates an idle session positioned at the workflow's start
// state. workspace is an opaque handle passed through to agent proxies.
func NewSession(id string, def *WorkflowDefinition, workspace string) *Session {
	return &Session{
		ID:           id,
		WorkflowName: def.Name,
		Status:       StatusIdle,
		CurrentState: def.StartState().Name,
		Decisions:    make(Decisions),
		History:      []TurnRecord{},
		Workspace:    workspace,
		StartedAt:    time.Now().UTC(),
	}
}

// Clone returns a deep-enough copy for safe persistence: the decisions map
// and history slice are copied, individual values are immutable.
func (s *Session) Clone() *Session {
	out := *s
	out.Decisions = s.Decisions.Clone()
	out.History = make([]TurnRecord, len(s.History))
	copy(out.History, s.History)
	return &out
}

// Visits counts completed turns spent in the named state.
func (s *Session) Visits(state string) int {
	n := 0
	for i := range s.History {
		if s.History[i].State == state {
			n++
		}
	}
	return n
}
