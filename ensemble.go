package ensemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/internal/runtime"
	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

// Version is the library version reported by the CLI and MCP server.
const Version = "0.3.0"

// Engine is the high-level entry point for the Ensemble library. It wraps
// the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	def     *domain.WorkflowDefinition
	store   ports.SessionStore

	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	guide       string
	turnTimeout time.Duration
	conditions  map[string]ports.ConditionFunc
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore enables session persistence.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithCollaborationGuide overrides the guide text exposed to templates as
// {{collaboration_guide}}.
func WithCollaborationGuide(guide string) Option {
	return func(e *Engine) { e.guide = guide }
}

// WithTurnTimeout bounds each agent call. Zero means no limit.
func WithTurnTimeout(d time.Duration) Option {
	return func(e *Engine) { e.turnTimeout = d }
}

// WithCondition registers a host-implemented named condition usable in
// transition and exit conditions.
func WithCondition(name string, fn ports.ConditionFunc) Option {
	return func(e *Engine) { e.conditions[name] = fn }
}

// New loads and validates a workflow definition from a YAML file and
// builds an engine driving it through the given agent proxy. Validation
// problems are reported together in a *domain.ValidationError.
func New(workflowPath string, proxy ports.AgentProxy, opts ...Option) (*Engine, error) {
	def, err := compiler.LoadFile(workflowPath)
	if err != nil {
		return nil, err
	}
	return NewFromDefinition(def, proxy, opts...), nil
}

// NewFromDefinition builds an engine for an already compiled definition.
func NewFromDefinition(def *domain.WorkflowDefinition, proxy ports.AgentProxy, opts ...Option) *Engine {
	eng := &Engine{
		def:        def,
		conditions: make(map[string]ports.ConditionFunc),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("workflow", def.Name)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithTurnTimeout(eng.turnTimeout),
	}
	if eng.store != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithStore(eng.store))
	}
	if eng.guide != "" {
		runtimeOpts = append(runtimeOpts, runtime.WithCollaborationGuide(eng.guide))
	}
	for name, fn := range eng.conditions {
		runtimeOpts = append(runtimeOpts, runtime.WithCondition(name, fn))
	}

	eng.runtime = runtime.NewEngine(def, proxy, runtimeOpts...)
	return eng
}

// Definition returns the compiled workflow definition.
func (e *Engine) Definition() *domain.WorkflowDefinition { return e.def }

// Store returns the configured session store, or nil.
func (e *Engine) Store() ports.SessionStore { return e.store }

// NewSession creates an idle session with a generated ID, positioned at
// the workflow's start state. workspace is an opaque handle passed through
// to agent proxies.
func (e *Engine) NewSession(workspace string) *domain.Session {
	return domain.NewSession(uuid.NewString(), e.def, workspace)
}

// Run drives the session until it reaches a terminal status or ctx is
// canceled. A canceled run leaves the session resumable.
func (e *Engine) Run(ctx context.Context, session *domain.Session) error {
	return e.runtime.Run(ctx, session)
}

// Resume loads a persisted session and continues driving it.
func (e *Engine) Resume(ctx context.Context, sessionID string) (*domain.Session, error) {
	if e.store == nil {
		return nil, errors.New("resume requires a session store")
	}
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.WorkflowName != e.def.Name {
		return nil, fmt.Errorf("session %s belongs to workflow %q, engine drives %q",
			sessionID, session.WorkflowName, e.def.Name)
	}
	return session, e.runtime.Run(ctx, session)
}
