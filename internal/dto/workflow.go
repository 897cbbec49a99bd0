// Package dto holds the wire representations shared by the HTTP and MCP
// adapters. Compiled conditions and templates are interfaces holding
// programs; on the wire they surface as their source text.
package dto

import "github.com/aretw0/ensemble/pkg/domain"

type Agent struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Transition struct {
	To        string `json:"to"`
	Condition string `json:"condition"`
}

type State struct {
	Name        string       `json:"name"`
	Agent       string       `json:"agent"`
	Start       bool         `json:"start,omitempty"`
	Prompt      string       `json:"prompt"`
	Transitions []Transition `json:"transitions"`
}

type ExitCondition struct {
	Condition string `json:"condition"`
	Action    string `json:"action"`
}

type Workflow struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	InitialMessage string          `json:"initial_message,omitempty"`
	MaxTurns       int             `json:"max_turns"`
	Agents         []Agent         `json:"agents"`
	States         []State         `json:"states"`
	ExitConditions []ExitCondition `json:"exit_conditions,omitempty"`
}

// FromDefinition maps a compiled definition to its wire view.
func FromDefinition(def *domain.WorkflowDefinition) Workflow {
	view := Workflow{
		Name:           def.Name,
		Description:    def.Description,
		InitialMessage: def.InitialMessage,
		MaxTurns:       def.MaxTurns,
	}
	for _, a := range def.Agents {
		view.Agents = append(view.Agents, Agent{Name: a.Name, Type: string(a.Type)})
	}
	for _, st := range def.States {
		sv := State{
			Name:   st.Name,
			Agent:  st.Agent,
			Start:  st.Start,
			Prompt: st.Prompt.Source(),
		}
		for _, tr := range st.Transitions {
			sv.Transitions = append(sv.Transitions, Transition{
				To:        tr.To,
				Condition: tr.Condition.Source(),
			})
		}
		view.States = append(view.States, sv)
	}
	for _, exit := range def.ExitConditions {
		view.ExitConditions = append(view.ExitConditions, ExitCondition{
			Condition: exit.Condition.Source(),
			Action:    string(exit.Action),
		})
	}
	return view
}
