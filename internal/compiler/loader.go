// Package compiler turns raw YAML workflow definitions into the validated,
// immutable domain model. All violations are collected in one pass and
// every condition expression and prompt template is pre-compiled here, so
// no syntax error can surface after a run has started.
package compiler

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/expr"
	"github.com/aretw0/ensemble/pkg/prompt"
)

// rawWorkflow mirrors the on-disk YAML schema.
type rawWorkflow struct {
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description"`
	InitialMessage string         `yaml:"initial_message"`
	MaxTurns       int            `yaml:"max_turns"`
	Agents         []rawAgent     `yaml:"agents"`
	States         []rawState     `yaml:"states"`
	ExitConditions []rawExitEntry `yaml:"exit_conditions"`
}

type rawAgent struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type rawState struct {
	Name        string          `yaml:"name"`
	Agent       string          `yaml:"agent"`
	Start       bool            `yaml:"start"`
	Prompt      string          `yaml:"prompt"`
	Transitions []rawTransition `yaml:"transitions"`
}

type rawTransition struct {
	To        string `yaml:"to"`
	Condition string `yaml:"condition"`
}

type rawExitEntry struct {
	Condition string `yaml:"condition"`
	Action    string `yaml:"action"`
}

// LoadFile reads and compiles a workflow definition from a YAML file.
func LoadFile(path string) (*domain.WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return Load(data)
}

// Load compiles a workflow definition from raw YAML. On failure it returns
// a *domain.ValidationError listing every violation found, not just the
// first, so an author can fix the whole file in one pass.
func Load(data []byte) (*domain.WorkflowDefinition, error) {
	var raw rawWorkflow
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ValidationError{
			Workflow:   raw.Name,
			Violations: []string{fmt.Sprintf("not valid YAML: %v", err)},
		}
	}

	v := newValidator(raw.Name)
	def := compile(&raw, v)
	if err := v.err(); err != nil {
		return nil, err
	}
	return def, nil
}

// compile builds the definition while v collects violations. The returned
// definition is only meaningful when v stays empty.
func compile(raw *rawWorkflow, v *validator) *domain.WorkflowDefinition {
	def := &domain.WorkflowDefinition{
		Name:           raw.Name,
		Description:    raw.Description,
		InitialMessage: raw.InitialMessage,
		MaxTurns:       raw.MaxTurns,
	}

	if raw.Name == "" {
		v.add("workflow name is required")
	}
	if raw.MaxTurns <= 0 {
		v.add("max_turns must be > 0 (got %d)", raw.MaxTurns)
	}

	agents := map[string]bool{}
	if len(raw.Agents) == 0 {
		v.add("at least one agent must be declared")
	}
	for i, a := range raw.Agents {
		if a.Name == "" {
			v.add("agents[%d]: name is required", i)
			continue
		}
		if agents[a.Name] {
			v.add("agents[%d]: duplicate agent name %q", i, a.Name)
		}
		agents[a.Name] = true

		typ := domain.AgentType(a.Type)
		if !typ.Valid() {
			v.add("agent %q: unknown type %q (want coder, architect or ask)", a.Name, a.Type)
		}
		def.Agents = append(def.Agents, domain.AgentSpec{Name: a.Name, Type: typ})
	}

	states := map[string]bool{}
	for _, s := range raw.States {
		if s.Name != "" {
			states[s.Name] = true
		}
	}

	if len(raw.States) == 0 {
		v.add("at least one state must be declared")
	}
	startCount := 0
	for i, s := range raw.States {
		name := s.Name
		if name == "" {
			v.add("states[%d]: name is required", i)
			name = fmt.Sprintf("states[%d]", i)
		} else {
			for j := 0; j < i; j++ {
				if raw.States[j].Name == s.Name {
					v.add("states[%d]: duplicate state name %q", i, s.Name)
					break
				}
			}
		}
		if s.Start {
			startCount++
		}
		if s.Agent == "" {
			v.add("state %q: agent is required", name)
		} else if !agents[s.Agent] {
			v.add("state %q: references undeclared agent %q", name, s.Agent)
		}

		spec := domain.StateSpec{
			Name:  s.Name,
			Agent: s.Agent,
			Start: s.Start,
		}

		tpl, err := prompt.Compile(s.Prompt)
		if err != nil {
			v.add("state %q: invalid prompt template: %v", name, err)
		} else {
			spec.Prompt = tpl
		}

		for j, tr := range s.Transitions {
			if tr.To != domain.EndTarget && !states[tr.To] {
				v.add("state %q: transitions[%d] targets unknown state %q", name, j, tr.To)
			}
			cond, err := compileCondition(tr.Condition)
			if err != nil {
				v.add("state %q: transitions[%d]: invalid condition %q: %v", name, j, tr.Condition, err)
				continue
			}
			spec.Transitions = append(spec.Transitions, domain.Transition{To: tr.To, Condition: cond})
		}

		def.States = append(def.States, spec)
	}
	if startCount != 1 {
		v.add("exactly one state must set start: true (found %d)", startCount)
	}

	for i, e := range raw.ExitConditions {
		action := domain.ExitAction(e.Action)
		if !action.Valid() {
			v.add("exit_conditions[%d]: unknown action %q (want force_end or save_and_end)", i, e.Action)
		}
		cond, err := compileCondition(e.Condition)
		if err != nil {
			v.add("exit_conditions[%d]: invalid condition %q: %v", i, e.Condition, err)
			continue
		}
		def.ExitConditions = append(def.ExitConditions, domain.ExitConditionSpec{
			Condition: cond,
			Action:    action,
		})
	}

	return def
}

// compileCondition normalizes the legacy system-condition aliases before
// compiling: an empty condition is an always transition, and always/never
// are accepted as spellings of true/false.
func compileCondition(src string) (domain.Condition, error) {
	switch strings.ToLower(strings.TrimSpace(src)) {
	case "", "always", "true":
		return expr.MustCompile("true"), nil
	case "never":
		return expr.MustCompile("false"), nil
	}
	return expr.Compile(src)
}
