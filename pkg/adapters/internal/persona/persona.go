// Package persona builds the system prompt shared by the LLM-backed
// proxies: a role framing per agent type plus the response contract the
// driver's extractor depends on.
package persona

import (
	"strings"

	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

const contract = `Respond with your working output first. End your reply with a single JSON object of the form {"content": "<summary>", "decisions": {...}} and nothing after it. Decision values may be booleans, numbers, strings, arrays or objects.`

// SystemPrompt composes the role framing for a call.
func SystemPrompt(call ports.AgentCall) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(call.Agent)
	b.WriteString(", ")

	switch call.AgentType {
	case domain.AgentArchitect:
		b.WriteString("a software architect. You design systems and review plans; you do not write implementation code.")
	case domain.AgentCoder:
		b.WriteString("a software developer. You implement, refactor and test code.")
	case domain.AgentAsk:
		b.WriteString("an analyst. You answer questions and review work; you do not modify anything.")
	default:
		b.WriteString("a software agent collaborating in a multi-agent workflow.")
	}

	if call.Workspace != "" {
		b.WriteString(" Your shared workspace is ")
		b.WriteString(call.Workspace)
		b.WriteString(".")
	}

	b.WriteString("\n\n")
	b.WriteString(contract)
	return b.String()
}
