package cli

import (
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/aretw0/ensemble/pkg/adapters/anthropic"
	"github.com/aretw0/ensemble/pkg/adapters/openai"
	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

// buildProxy selects the agent proxy backend. API keys come from the
// provider SDK's environment variables.
func buildProxy(provider, model string) (ports.AgentProxy, error) {
	switch strings.ToLower(provider) {
	case "", "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if model != "" {
				o.Model = anthropicsdk.Model(model)
			}
		}), nil
	case "openai":
		return openai.New(func(o *openai.Options) {
			if model != "" {
				o.Model = model
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (expected anthropic or openai)", provider)
	}
}

// summaryMarkdown renders the post-run summary as markdown.
func summaryMarkdown(session *domain.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run %s\n\n", session.ID)
	fmt.Fprintf(&sb, "- **Workflow:** %s\n", session.WorkflowName)
	fmt.Fprintf(&sb, "- **Status:** %s\n", session.Status)
	fmt.Fprintf(&sb, "- **Turns:** %d\n", session.TurnCount)
	if session.Error != "" {
		fmt.Fprintf(&sb, "- **Error:** %s\n", session.Error)
	}

	if len(session.Decisions) > 0 {
		sb.WriteString("\n## Decisions\n\n")
		for _, key := range session.Decisions.Keys() {
			fmt.Fprintf(&sb, "- `%s` = %s\n", key, session.Decisions[key])
		}
	}

	if len(session.History) > 0 {
		sb.WriteString("\n## Turns\n\n")
		for _, rec := range session.History {
			fmt.Fprintf(&sb, "%d. **%s** (%s): %s\n", rec.Turn, rec.State, rec.Agent, rec.Content)
		}
	}
	return sb.String()
}
