package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a
// SessionStore implementation adheres to the interface contract. Adapter
// packages call it from their own tests.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	def := &domain.WorkflowDefinition{
		Name:     "contract",
		MaxTurns: 5,
		States:   []domain.StateSpec{{Name: "draft", Agent: "writer", Start: true}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, def, "/tmp/ws")
		session.Status = domain.StatusRunning
		session.TurnCount = 2
		session.Decisions["approved"] = domain.Bool(true)
		session.Decisions["score"] = domain.Number(8)
		session.History = append(session.History, domain.TurnRecord{
			Turn: 1, State: "draft", Agent: "writer", Content: "done",
		})

		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, session.WorkflowName, loaded.WorkflowName)
		assert.Equal(t, domain.StatusRunning, loaded.Status)
		assert.Equal(t, "draft", loaded.CurrentState)
		assert.Equal(t, 2, loaded.TurnCount)
		assert.True(t, loaded.Decisions["approved"].Equal(domain.Bool(true)))
		assert.True(t, loaded.Decisions["score"].Equal(domain.Number(8)))
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "done", loaded.History[0].Content)
	})

	t.Run("Isolation", func(t *testing.T) {
		session := domain.NewSession(sessionID, def, "")
		require.NoError(t, store.Save(ctx, session))

		// Mutating the saved session must not leak into the store.
		session.Decisions["leak"] = domain.Bool(true)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotContains(t, loaded.Decisions, "leak")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, def, "")))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, def, ""))
		_ = store.Save(ctx, domain.NewSession(id2, def, ""))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
