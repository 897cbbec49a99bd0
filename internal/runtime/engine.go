// Package runtime contains the state machine driver: the per-turn
// orchestration loop that renders prompts, invokes the agent proxy,
// extracts the trailing JSON control block and routes between states.
package runtime

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
	"github.com/aretw0/ensemble/pkg/prompt"
)

// Engine drives sessions through a workflow definition. It is stateless
// across runs: all mutable run state lives in the session, so one Engine
// may drive any number of sessions (sequentially or from separate
// goroutines).
type Engine struct {
	def         *domain.WorkflowDefinition
	proxy       ports.AgentProxy
	store       ports.SessionStore
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	guide       string
	turnTimeout time.Duration
	conditions  map[string]ports.ConditionFunc
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore enables session persistence. Without a store the engine still
// runs, but sessions cannot be resumed or audited after the process exits.
func WithStore(store ports.SessionStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCollaborationGuide overrides the process-wide collaboration guide
// text exposed to templates as {{collaboration_guide}}.
func WithCollaborationGuide(guide string) EngineOption {
	return func(e *Engine) {
		e.guide = guide
	}
}

// WithTurnTimeout bounds each agent proxy call. A timeout aborts the run
// the same way an unparseable response does. Zero means no limit.
func WithTurnTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.turnTimeout = d
	}
}

// WithCondition registers a host-implemented named condition. A transition
// or exit condition consisting solely of the name calls fn instead of
// looking the name up in the decision context.
func WithCondition(name string, fn ports.ConditionFunc) EngineOption {
	return func(e *Engine) {
		e.conditions[name] = fn
	}
}

// NewEngine creates a driver for the given definition and agent proxy.
func NewEngine(def *domain.WorkflowDefinition, proxy ports.AgentProxy, opts ...EngineOption) *Engine {
	e := &Engine{
		def:        def,
		proxy:      proxy,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		guide:      prompt.DefaultCollaborationGuide,
		conditions: make(map[string]ports.ConditionFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Definition returns the immutable workflow definition driven by this engine.
func (e *Engine) Definition() *domain.WorkflowDefinition { return e.def }
