package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/internal/compiler"
	httpadapter "github.com/aretw0/ensemble/pkg/adapters/http"
	"github.com/aretw0/ensemble/pkg/adapters/memory"
	"github.com/aretw0/ensemble/pkg/domain"
)

const testWorkflow = `
name: review-loop
max_turns: 6
agents:
  - name: writer
    type: coder
  - name: critic
    type: ask
states:
  - name: write
    agent: writer
    start: true
    prompt: "Write it: {{initial_message}}"
    transitions:
      - to: critique
        condition: draft_ready
  - name: critique
    agent: critic
    prompt: Review the draft.
    transitions:
      - to: END
        condition: approved
      - to: write
`

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store, *domain.WorkflowDefinition) {
	t.Helper()
	def, err := compiler.Load([]byte(testWorkflow))
	require.NoError(t, err)

	store := memory.NewStore()
	handler := httpadapter.NewHandler(def, store, prometheus.NewRegistry())
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, store, def
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServer_Health(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Workflow(t *testing.T) {
	ts, _, _ := newTestServer(t)

	var body struct {
		Name     string `json:"name"`
		MaxTurns int    `json:"max_turns"`
		States   []struct {
			Name        string `json:"name"`
			Transitions []struct {
				To        string `json:"to"`
				Condition string `json:"condition"`
			} `json:"transitions"`
		} `json:"states"`
	}
	resp := getJSON(t, ts.URL+"/workflow", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "review-loop", body.Name)
	assert.Equal(t, 6, body.MaxTurns)
	require.Len(t, body.States, 2)
	// Compiled conditions surface as their source text.
	assert.Equal(t, "draft_ready", body.States[0].Transitions[0].Condition)
	assert.Equal(t, "END", body.States[1].Transitions[0].To)
}

func TestServer_Sessions(t *testing.T) {
	ts, store, def := newTestServer(t)
	ctx := context.Background()

	session := domain.NewSession("s-1", def, "")
	session.Status = domain.StatusHalted
	session.TurnCount = 6
	require.NoError(t, store.Save(ctx, session))

	var list struct {
		Sessions []string `json:"sessions"`
	}
	resp := getJSON(t, ts.URL+"/sessions", &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"s-1"}, list.Sessions)

	var loaded domain.Session
	resp = getJSON(t, ts.URL+"/sessions/s-1", &loaded)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.StatusHalted, loaded.Status)
	assert.Equal(t, 6, loaded.TurnCount)
}

func TestServer_SessionNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := getJSON(t, ts.URL+"/sessions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_DeleteSession(t *testing.T) {
	ts, store, def := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.NewSession("gone", def, "")))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/sessions/gone", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = store.Load(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_Metrics(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := getJSON(t, ts.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
