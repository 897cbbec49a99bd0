package compiler

import (
	"fmt"

	"github.com/aretw0/ensemble/pkg/domain"
)

// validator accumulates violations during a load pass.
type validator struct {
	workflow   string
	violations []string
}

func newValidator(workflow string) *validator {
	return &validator{workflow: workflow}
}

func (v *validator) add(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

// err returns the collected violations as a *domain.ValidationError, or nil
// if the definition is clean.
func (v *validator) err() error {
	if len(v.violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Workflow: v.workflow, Violations: v.violations}
}
