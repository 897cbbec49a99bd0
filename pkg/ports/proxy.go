package ports

import (
	"context"

	"github.com/aretw0/ensemble/pkg/domain"
)

// AgentCall is the input to one agent invocation. Workspace is an opaque
// handle to the shared directory where agents exchange deliverables; the
// engine never interprets it.
type AgentCall struct {
	Agent     string
	AgentType domain.AgentType
	Workspace string
	Prompt    string
}

// AgentProxy turns a rendered prompt into raw response text. It is the
// engine's sole long-latency boundary; implementations must honor ctx for
// cancellation and deadlines on a best-effort basis.
//
// The returned text is expected to follow the "files first, JSON last"
// contract: free-form work output, closed by a JSON object carrying
// "content" and "decisions". Extraction of that block is the driver's job,
// not the proxy's.
type AgentProxy interface {
	Invoke(ctx context.Context, call AgentCall) (string, error)
}

// AgentProxyFunc adapts a function to the AgentProxy interface.
type AgentProxyFunc func(ctx context.Context, call AgentCall) (string, error)

// Invoke implements AgentProxy.
func (f AgentProxyFunc) Invoke(ctx context.Context, call AgentCall) (string, error) {
	return f(ctx, call)
}
