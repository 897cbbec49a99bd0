package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/internal/presentation/graph"
	"github.com/aretw0/ensemble/pkg/domain"
)

const workflowYAML = `
name: pair-review
max_turns: 8
agents:
  - name: architect
    type: architect
  - name: dev
    type: coder
states:
  - name: design
    agent: architect
    start: true
    prompt: plan
    transitions:
      - to: build
        condition: design_done
  - name: build
    agent: dev
    prompt: code
    transitions:
      - to: END
        condition: score >= 8 AND approved
      - to: design
exit_conditions:
  - condition: error_occurred
    action: save_and_end
`

func TestGenerateMermaid(t *testing.T) {
	def, err := compiler.Load([]byte(workflowYAML))
	require.NoError(t, err)

	out := graph.GenerateMermaid(def, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	// Start state is a circle, labelled with its agent.
	assert.Contains(t, out, `design(("design<br/>(architect)"))`)
	assert.Contains(t, out, `build["build<br/>(dev)"]`)
	// Conditioned edges carry their source text; quotes are not allowed in
	// Mermaid labels.
	assert.Contains(t, out, `design -- "design_done" --> build`)
	assert.Contains(t, out, `build -- "score >= 8 AND approved" --> END`)
	// The unconditioned fallback renders as a plain arrow.
	assert.Contains(t, out, "build --> design")
	assert.Contains(t, out, `END((("END")))`)
	// Global exit conditions appear as detached dotted edges.
	assert.Contains(t, out, `exit -. "error_occurred (save_and_end)" .-> END`)
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	def, err := compiler.Load([]byte(workflowYAML))
	require.NoError(t, err)

	session := domain.NewSession("s", def, "")
	session.History = append(session.History,
		domain.TurnRecord{Turn: 1, State: "design"},
		domain.TurnRecord{Turn: 2, State: "build"},
		domain.TurnRecord{Turn: 3, State: "design"},
	)
	session.CurrentState = "build"

	out := graph.GenerateMermaid(def, graph.FromSession(session))

	assert.Contains(t, out, "class design visited;")
	assert.Contains(t, out, "class build visited;")
	assert.Contains(t, out, "class build current;")
	// Visited states are deduplicated.
	assert.Equal(t, 1, strings.Count(out, "class design visited;"))
}
