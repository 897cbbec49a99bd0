package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/internal/compiler"
	"github.com/aretw0/ensemble/pkg/domain"
)

const validWorkflow = `
name: pair-review
description: architect designs, coder builds
initial_message: Build a URL shortener
max_turns: 10
agents:
  - name: architect
    type: architect
  - name: dev
    type: coder
states:
  - name: design
    agent: architect
    start: true
    prompt: |
      Design the system for: {{initial_message}}
    transitions:
      - to: build
        condition: design_confirmed
      - to: design
        condition: always
  - name: build
    agent: dev
    prompt: |
      {% if last_agent_name == "architect" %}Follow the design.{% endif %}
      Implement it. {{collaboration_guide}}
    transitions:
      - to: END
        condition: ready_to_ship
      - to: design
exit_conditions:
  - condition: max_turns_exceeded
    action: force_end
  - condition: error_occurred
    action: save_and_end
`

func TestLoad_Valid(t *testing.T) {
	def, err := compiler.Load([]byte(validWorkflow))
	require.NoError(t, err)

	assert.Equal(t, "pair-review", def.Name)
	assert.Equal(t, 10, def.MaxTurns)
	require.Len(t, def.States, 2)
	require.Len(t, def.Agents, 2)
	require.Len(t, def.ExitConditions, 2)

	start := def.StartState()
	require.NotNil(t, start)
	assert.Equal(t, "design", start.Name)

	// Conditions and templates are pre-compiled.
	build, ok := def.State("build")
	require.True(t, ok)
	require.Len(t, build.Transitions, 2)
	assert.NotNil(t, build.Transitions[0].Condition)
	assert.Equal(t, domain.EndTarget, build.Transitions[0].To)
	assert.NotNil(t, build.Prompt)

	// An omitted condition is an always transition.
	assert.True(t, build.Transitions[1].Condition.Eval(nil))
}

func TestLoad_AliasConditions(t *testing.T) {
	def, err := compiler.Load([]byte(validWorkflow))
	require.NoError(t, err)

	design, ok := def.State("design")
	require.True(t, ok)
	// "always" compiles to a tautology.
	assert.True(t, design.Transitions[1].Condition.Eval(map[string]domain.Value{}))
}

func TestLoad_CollectsAllViolations(t *testing.T) {
	bad := `
name: broken
max_turns: 0
agents:
  - name: dev
    type: wizard
  - name: dev
    type: coder
states:
  - name: a
    agent: ghost
    prompt: "{% if x == 1 %}bad literal{% endif %}"
    transitions:
      - to: nowhere
        condition: "score >=="
  - name: a
    agent: dev
    prompt: ok
`
	_, err := compiler.Load([]byte(bad))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	all := strings.Join(verr.Violations, "\n")
	expectContains := []string{
		"max_turns",
		`unknown type "wizard"`,
		`duplicate agent name "dev"`,
		`undeclared agent "ghost"`,
		`unknown state "nowhere"`,
		"invalid condition",
		"invalid prompt template",
		`duplicate state name "a"`,
		"exactly one state must set start",
	}
	for _, want := range expectContains {
		assert.Contains(t, all, want)
	}
}

func TestLoad_MultipleStartStates(t *testing.T) {
	multi := `
name: twostarts
max_turns: 5
agents:
  - name: dev
    type: coder
states:
  - name: a
    agent: dev
    start: true
    prompt: x
  - name: b
    agent: dev
    start: true
    prompt: y
`
	_, err := compiler.Load([]byte(multi))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "exactly one state")
}

func TestLoad_NotYAML(t *testing.T) {
	_, err := compiler.Load([]byte("::: not yaml {"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := compiler.LoadFile("/does/not/exist.yaml")
	assert.Error(t, err)
}
