// Package graph renders a workflow definition as a Mermaid flowchart for
// documentation and debugging.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/ensemble/pkg/domain"
)

// Overlay contains dynamic session data to visualize on the graph.
type Overlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces Mermaid flowchart syntax for the definition.
// The start state is a circle, END a double circle, other states
// rectangles labelled with their agent. Overlay styles mark visited and
// current states when a session is supplied.
func GenerateMermaid(def *domain.WorkflowDefinition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hasEnd := false
	for _, state := range def.States {
		safeID := sanitizeMermaidID(state.Name)
		label := fmt.Sprintf("%s<br/>(%s)", state.Name, state.Agent)

		opener, closer := "[", "]"
		if state.Start {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, tr := range state.Transitions {
			to := tr.To
			if to == domain.EndTarget {
				hasEnd = true
			}
			arrow := "-->"
			if cond := tr.Condition.Source(); cond != "" && cond != "true" {
				// Double quotes break Mermaid edge labels.
				safeCond := strings.ReplaceAll(cond, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", safeCond)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(to)))
		}
	}

	if hasEnd {
		sb.WriteString("    END(((\"END\")))\n")
	}

	// Exit conditions are global edges; draw them from a detached marker.
	if len(def.ExitConditions) > 0 {
		sb.WriteString("    exit{\"exit conditions\"}\n")
		for _, exit := range def.ExitConditions {
			safeCond := strings.ReplaceAll(exit.Condition.Source(), "\"", "'")
			sb.WriteString(fmt.Sprintf("    exit -. \"%s (%s)\" .-> END\n", safeCond, exit.Action))
			hasEnd = true
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(name)
			if safeID != "" && !visitedSet[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

// FromSession builds the overlay for a session's progress.
func FromSession(session *domain.Session) *Overlay {
	overlay := &Overlay{CurrentState: session.CurrentState}
	for _, rec := range session.History {
		overlay.VisitedStates = append(overlay.VisitedStates, rec.State)
	}
	return overlay
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
