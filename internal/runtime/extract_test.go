package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/pkg/domain"
)

func TestExtractControlBlock_TrailingObject(t *testing.T) {
	raw := `I refactored the handler and wrote the tests.

{"content": "refactor done", "decisions": {"tests_passed": true, "score": 9}}`

	reply, err := extractControlBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, "refactor done", reply.Content)
	assert.True(t, reply.Decisions["tests_passed"].Equal(domain.Bool(true)))
	assert.True(t, reply.Decisions["score"].Equal(domain.Number(9)))
}

func TestExtractControlBlock_BracesInProse(t *testing.T) {
	// Code containing braces before the block, a stray fence after it.
	raw := "Here is the function:\n\n" +
		"func main() { fmt.Println(\"{}\") }\n\n" +
		`{"content": "wrote main", "decisions": {"done": "yes"}}` +
		"\n```\n"

	reply, err := extractControlBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, "wrote main", reply.Content)
	// String booleans are canonicalized at merge time, not extraction time.
	assert.True(t, reply.Decisions["done"].Equal(domain.String("yes")))
}

func TestExtractControlBlock_NestedDecisions(t *testing.T) {
	raw := `{"content": "x", "decisions": {"review": {"approved": true, "notes": ["a", "b"]}}}`

	reply, err := extractControlBlock(raw)
	require.NoError(t, err)
	review := reply.Decisions["review"]
	assert.Equal(t, domain.KindObject, review.Kind())
}

func TestExtractControlBlock_EmptyDecisions(t *testing.T) {
	reply, err := extractControlBlock(`{"content": "nothing to decide", "decisions": {}}`)
	require.NoError(t, err)
	assert.Empty(t, reply.Decisions)
}

func TestExtractControlBlock_Missing(t *testing.T) {
	for name, raw := range map[string]string{
		"no json at all":   "I did the work, trust me.",
		"wrong fields":     `{"summary": "done", "flags": {}}`,
		"content only":     `{"content": "done"}`,
		"unclosed object":  `{"content": "done", "decisions": {`,
		"array not object": `["content", "decisions"]`,
		"empty response":   "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := extractControlBlock(raw)
			assert.Error(t, err)
		})
	}
}

func TestExtractControlBlock_PicksLastBlock(t *testing.T) {
	raw := `{"content": "draft", "decisions": {"ok": false}}
Some narration in between.
{"content": "final", "decisions": {"ok": true}}`

	reply, err := extractControlBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, "final", reply.Content)
	assert.True(t, reply.Decisions["ok"].Equal(domain.Bool(true)))
}
