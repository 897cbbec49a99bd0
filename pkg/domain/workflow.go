package domain

// EndTarget is the reserved transition target that terminates the run.
const EndTarget = "END"

// AgentType is a closed capability tag for declared agents.
type AgentType string

const (
	AgentCoder     AgentType = "coder"
	AgentArchitect AgentType = "architect"
	AgentAsk       AgentType = "ask"
)

// Valid reports whether the tag is one of the known capability types.
func (t AgentType) Valid() bool {
	switch t {
	case AgentCoder, AgentArchitect, AgentAsk:
		return true
	}
	return false
}

// Condition is a pre-compiled boolean expression. Compilation happens at
// definition load time; evaluation is total and never fails, degrading
// missing or mismatched operands to false.
type Condition interface {
	// Source returns the original expression text.
	Source() string

	// Eval evaluates the expression against a flat value context.
	Eval(vars map[string]Value) bool
}

// Template is a pre-compiled prompt template. Missing variables render as
// empty strings; the notes returned by Render report them.
type Template interface {
	// Source returns the original template text.
	Source() string

	// Render substitutes variables and resolves conditional blocks.
	// The returned notes list non-fatal rendering issues (missing keys).
	Render(vars map[string]Value) (text string, notes []string)
}

// AgentSpec declares a named agent participating in the workflow.
type AgentSpec struct {
	Name string
	Type AgentType
}

// Transition is an ordered, conditioned edge out of a state. To is either
// a declared state name or EndTarget.
type Transition struct {
	To        string
	Condition Condition
}

// StateSpec is a named point in the workflow where one agent acts once per
// visit. Transitions are evaluated in declared order, first match wins.
type StateSpec struct {
	Name        string
	Agent       string
	Start       bool
	Prompt      Template
	Transitions []Transition
}

// ExitAction selects what happens when a global exit condition fires.
type ExitAction string

const (
	// ExitForceEnd terminates the run immediately.
	ExitForceEnd ExitAction = "force_end"
	// ExitSaveAndEnd persists the session, then terminates with the error
	// flag set.
	ExitSaveAndEnd ExitAction = "save_and_end"
)

// Valid reports whether the action is one of the known exit actions.
func (a ExitAction) Valid() bool {
	return a == ExitForceEnd || a == ExitSaveAndEnd
}

// ExitConditionSpec is a global condition checked before any state-local
// transition logic, every turn.
type ExitConditionSpec struct {
	Condition Condition
	Action    ExitAction
}

// WorkflowDefinition is the validated, immutable description of a
// collaboration: who the agents are, what each state does, and how control
// moves between states. It is safe for unsynchronized concurrent reads;
// nothing may mutate it after load.
//
// States form an indexed table referenced by name, so cycles between states
// carry no ownership hazards. The only bound on cycling is MaxTurns.
type WorkflowDefinition struct {
	Name           string
	Description    string
	InitialMessage string
	MaxTurns       int
	Agents         []AgentSpec
	States         []StateSpec
	ExitConditions []ExitConditionSpec
}

// State looks up a state by name.
func (w *WorkflowDefinition) State(name string) (*StateSpec, bool) {
	for i := range w.States {
		if w.States[i].Name == name {
			return &w.States[i], true
		}
	}
	return nil, false
}

// Agent looks up an agent by name.
func (w *WorkflowDefinition) Agent(name string) (*AgentSpec, bool) {
	for i := range w.Agents {
		if w.Agents[i].Name == name {
			return &w.Agents[i], true
		}
	}
	return nil, false
}

// StartState returns the uniquely flagged start state. Load-time validation
// guarantees exactly one exists.
func (w *WorkflowDefinition) StartState() *StateSpec {
	for i := range w.States {
		if w.States[i].Start {
			return &w.States[i]
		}
	}
	return nil
}
