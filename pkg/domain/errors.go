package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports every violation found while loading a workflow
// definition, so an author sees all errors at once instead of fixing them
// one load at a time.
type ValidationError struct {
	Workflow   string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow %q is invalid (%d violations):\n- %s",
		e.Workflow, len(e.Violations), strings.Join(e.Violations, "\n- "))
}

// ResponseFormatError is a per-turn failure: the agent's raw text carried
// no parseable trailing JSON control block (or the proxy timed out). The
// run moves to Aborted and the session is persisted for post-mortem.
type ResponseFormatError struct {
	State  string
	Agent  string
	Turn   int
	Reason string
	Raw    string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("turn %d (state %q, agent %q): %s", e.Turn, e.State, e.Agent, e.Reason)
}
