package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensemble/pkg/domain"
	"github.com/aretw0/ensemble/pkg/expr"
)

func vars(kv map[string]any) map[string]domain.Value {
	out := make(map[string]domain.Value, len(kv))
	for k, v := range kv {
		out[k] = domain.FromAny(v)
	}
	return out
}

func TestCompile_SyntaxErrors(t *testing.T) {
	cases := []string{
		"(a OR b",
		"a ORb OR",
		"a == ",
		"a = 3",
		"a ! b",
		"score >= ident",
		"a == (b)",
		"'unterminated",
		"a && b",
		"",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := expr.Compile(src)
			assert.Error(t, err, "expected syntax error for %q", src)
		})
	}
}

func TestCompile_Valid(t *testing.T) {
	cases := []string{
		"approved",
		"NOT approved",
		"a AND b OR c",
		"(a OR b) AND NOT (c AND d)",
		"score >= 8",
		"status == 'done'",
		`status != "done"`,
		"count < 3.5",
		"true",
		"false",
		"done == true",
		"not a and not b", // keywords are case-insensitive
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			e, err := expr.Compile(src)
			require.NoError(t, err)
			assert.Equal(t, src, e.Source())
		})
	}
}

func TestEval_BooleanLogic(t *testing.T) {
	e := expr.MustCompile("A AND NOT B")
	assert.True(t, e.Eval(vars(map[string]any{"A": true, "B": false})))
	assert.False(t, e.Eval(vars(map[string]any{"A": true, "B": true})))
}

func TestEval_ComparisonOrTruthiness(t *testing.T) {
	e := expr.MustCompile("score >= 8 OR approved")
	assert.True(t, e.Eval(vars(map[string]any{"score": 5, "approved": true})))
	assert.False(t, e.Eval(vars(map[string]any{"score": 5, "approved": false})))
	assert.True(t, e.Eval(vars(map[string]any{"score": 9})))
}

func TestEval_Precedence(t *testing.T) {
	ctx := vars(map[string]any{"A": true, "B": false, "C": false})

	assert.False(t, expr.MustCompile("(A OR B) AND C").Eval(ctx))
	assert.True(t, expr.MustCompile("A OR (B AND C)").Eval(ctx))
	// Without parentheses AND binds tighter, so this equals the second form.
	assert.True(t, expr.MustCompile("A OR B AND C").Eval(ctx))
}

func TestEval_MissingIdentifier(t *testing.T) {
	empty := map[string]domain.Value{}

	assert.False(t, expr.MustCompile("unknown_flag").Eval(empty))
	assert.True(t, expr.MustCompile("NOT unknown_flag").Eval(empty))

	// Missing behaves as null: unequal to every literal, unordered.
	assert.False(t, expr.MustCompile(`missing == "x"`).Eval(empty))
	assert.True(t, expr.MustCompile(`missing != "x"`).Eval(empty))
	assert.False(t, expr.MustCompile("missing > 0").Eval(empty))
	assert.False(t, expr.MustCompile("missing <= 0").Eval(empty))
}

func TestEval_TypeMismatch(t *testing.T) {
	ctx := vars(map[string]any{"name": "architect", "score": 7})

	// Mismatched kinds compare unequal, never error.
	assert.False(t, expr.MustCompile("name == 3").Eval(ctx))
	assert.True(t, expr.MustCompile("name != 3").Eval(ctx))
	// Ordering across kinds degrades to false.
	assert.False(t, expr.MustCompile(`score > "high"`).Eval(ctx))
	assert.False(t, expr.MustCompile(`name >= 1`).Eval(ctx))
}

func TestEval_Truthiness(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want bool
	}{
		{"true bool", true, true},
		{"false bool", false, false},
		{"nonzero", 3, true},
		{"zero", 0, false},
		{"string", "x", true},
		{"empty string", "", false},
		{"array", []any{1}, true},
		{"empty array", []any{}, false},
		{"nil", nil, false},
	}
	e := expr.MustCompile("flag")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Eval(vars(map[string]any{"flag": tc.val}))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEval_StringAndNumberOrdering(t *testing.T) {
	ctx := vars(map[string]any{"phase": "beta", "score": 8})

	assert.True(t, expr.MustCompile(`phase > "alpha"`).Eval(ctx))
	assert.True(t, expr.MustCompile("score >= 8").Eval(ctx))
	assert.False(t, expr.MustCompile("score > 8").Eval(ctx))
	assert.True(t, expr.MustCompile("score <= 8").Eval(ctx))
}

func TestEval_LiteralConditions(t *testing.T) {
	empty := map[string]domain.Value{}
	assert.True(t, expr.MustCompile("true").Eval(empty))
	assert.False(t, expr.MustCompile("false").Eval(empty))
}
