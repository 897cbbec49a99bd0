package ensemble_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble"
	"github.com/aretw0/ensemble/pkg/adapters/memory"
	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/ports"
)

const workflowYAML = `
name: ping-pong
initial_message: Say hello
max_turns: 4
agents:
  - name: speaker
    type: ask
states:
  - name: speak
    agent: speaker
    start: true
    prompt: "{{initial_message}}"
    transitions:
      - to: END
        condition: said_it
      - to: speak
`

func writeWorkflow(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(workflowYAML), 0o644))
	return path
}

func echoProxy(reply string) ports.AgentProxy {
	return ports.AgentProxyFunc(func(_ context.Context, _ ports.AgentCall) (string, error) {
		return reply, nil
	})
}

func TestNew_RunsWorkflowFile(t *testing.T) {
	eng, err := ensemble.New(writeWorkflow(t),
		echoProxy(`{"content": "hello", "decisions": {"said_it": true}}`))
	require.NoError(t, err)
	assert.Equal(t, "ping-pong", eng.Definition().Name)

	session := eng.NewSession("")
	require.NotEmpty(t, session.ID)
	require.NoError(t, eng.Run(context.Background(), session))

	assert.Equal(t, domain.StatusTerminated, session.Status)
	assert.Equal(t, 1, session.TurnCount)
	assert.Equal(t, "hello", session.History[0].Content)
}

func TestNew_InvalidWorkflowReportsViolations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: broken\nmax_turns: 0\n"), 0o644))

	_, err := ensemble.New(path, echoProxy(""))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Violations)
}

func TestEngine_Resume(t *testing.T) {
	store := memory.NewStore()
	eng, err := ensemble.New(writeWorkflow(t),
		echoProxy(`{"content": "hello", "decisions": {"said_it": true}}`),
		ensemble.WithStore(store))
	require.NoError(t, err)

	// A session interrupted before its first turn stays resumable.
	session := eng.NewSession("")
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, eng.Run(canceled, session), context.Canceled)

	resumed, err := eng.Resume(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTerminated, resumed.Status)
}

func TestEngine_ResumeUnknownSession(t *testing.T) {
	eng, err := ensemble.New(writeWorkflow(t), echoProxy(""),
		ensemble.WithStore(memory.NewStore()))
	require.NoError(t, err)

	_, err = eng.Resume(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEngine_NamedCondition(t *testing.T) {
	eng, err := ensemble.New(writeWorkflow(t),
		echoProxy(`{"content": "hello", "decisions": {}}`),
		ensemble.WithCondition("said_it", func(_ domain.Decisions, _ *domain.Session) bool {
			return true
		}))
	require.NoError(t, err)

	session := eng.NewSession("")
	require.NoError(t, eng.Run(context.Background(), session))
	assert.Equal(t, domain.StatusTerminated, session.Status)
}
