package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/pkg/domain"
)

func TestValue_Truthiness(t *testing.T) {
	assert.False(t, domain.Null().Truthy())
	assert.True(t, domain.Bool(true).Truthy())
	assert.False(t, domain.Bool(false).Truthy())
	assert.True(t, domain.Number(0.5).Truthy())
	assert.False(t, domain.Number(0).Truthy())
	assert.True(t, domain.String("x").Truthy())
	assert.False(t, domain.String("").Truthy())
	assert.True(t, domain.Array(domain.Number(1)).Truthy())
	assert.False(t, domain.Array().Truthy())
	assert.False(t, domain.Object(nil).Truthy())
}

func TestValue_Equality(t *testing.T) {
	assert.True(t, domain.Null().Equal(domain.Null()))
	assert.False(t, domain.Null().Equal(domain.Bool(false)))
	assert.False(t, domain.Number(1).Equal(domain.String("1")))
	assert.True(t, domain.Array(domain.Number(1), domain.String("a")).
		Equal(domain.Array(domain.Number(1), domain.String("a"))))
	assert.False(t, domain.Array(domain.Number(1)).Equal(domain.Array(domain.Number(2))))
}

func TestValue_Compare(t *testing.T) {
	cmp, ok := domain.Number(3).Compare(domain.Number(5))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = domain.String("b").Compare(domain.String("a"))
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	// Mixed kinds and null are unordered.
	_, ok = domain.Number(3).Compare(domain.String("3"))
	assert.False(t, ok)
	_, ok = domain.Null().Compare(domain.Number(0))
	assert.False(t, ok)
}

func TestValue_Canonical(t *testing.T) {
	assert.True(t, domain.String("yes").Canonical().Equal(domain.Bool(true)))
	assert.True(t, domain.String("False").Canonical().Equal(domain.Bool(false)))
	assert.True(t, domain.String("maybe").Canonical().Equal(domain.String("maybe")))
	assert.True(t, domain.Number(1).Canonical().Equal(domain.Number(1)))
}

func TestValue_JSONRoundTrip(t *testing.T) {
	var v domain.Value
	require.NoError(t, json.Unmarshal([]byte(`{"score": 8, "tags": ["a"], "ok": true, "note": null}`), &v))
	assert.Equal(t, domain.KindObject, v.Kind())

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var round map[string]any
	require.NoError(t, json.Unmarshal(data, &round))
	assert.Equal(t, float64(8), round["score"])
	assert.Equal(t, true, round["ok"])
}

func TestDecisions_Merge(t *testing.T) {
	acc := domain.Decisions{
		"a": domain.Number(1),
		"b": domain.Number(2),
	}
	acc.Merge(domain.Decisions{"b": domain.Number(3)})

	assert.True(t, acc["a"].Equal(domain.Number(1)))
	assert.True(t, acc["b"].Equal(domain.Number(3)))
	assert.Len(t, acc, 2)
}

func TestDecisions_MergeCanonicalizesFlags(t *testing.T) {
	acc := domain.Decisions{}
	acc.Merge(domain.Decisions{"approved": domain.String("yes")})
	assert.True(t, acc["approved"].Equal(domain.Bool(true)))
}
