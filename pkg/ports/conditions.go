package ports

import "github.com/aretw0/ensemble/pkg/domain"

// ConditionFunc is a host-registered named condition. When a transition or
// exit condition consists of a single registered name, the engine calls the
// function instead of evaluating the name as a context identifier. This
// lets workflows branch on logic that the expression language cannot
// express (repository state, external checks) without widening the DSL.
type ConditionFunc func(decisions domain.Decisions, session *domain.Session) bool
