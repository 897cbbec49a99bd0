package ports

import (
	"context"

	"github.com/aretw0/ensemble/pkg/domain"
)

// SessionStore defines the interface for persisting run state. This
// enables durable execution: a run can be paused and resumed by a later
// invocation of the driver, and Terminated/Aborted/Halted runs stay
// inspectable.
type SessionStore interface {
	// Save persists the session snapshot under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session by ID.
	// Returns domain.ErrSessionNotFound if it does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// List returns all stored session IDs.
	List(ctx context.Context) ([]string, error)
}
