package expr

import "github.com/aretw0/ensemble/pkg/domain"

type node interface {
	eval(vars map[string]domain.Value) bool
}

type orNode struct{ left, right node }

func (n *orNode) eval(vars map[string]domain.Value) bool {
	return n.left.eval(vars) || n.right.eval(vars)
}

type andNode struct{ left, right node }

func (n *andNode) eval(vars map[string]domain.Value) bool {
	return n.left.eval(vars) && n.right.eval(vars)
}

type notNode struct{ child node }

func (n *notNode) eval(vars map[string]domain.Value) bool {
	return !n.child.eval(vars)
}

// identNode evaluates a bare identifier for truthiness. A missing key is
// null, which is falsy.
type identNode struct{ name string }

func (n *identNode) eval(vars map[string]domain.Value) bool {
	return vars[n.name].Truthy()
}

type litNode struct{ val domain.Value }

func (n *litNode) eval(map[string]domain.Value) bool {
	return n.val.Truthy()
}

// cmpNode compares an identifier against a literal. The comparison is
// total: equality across kinds is simply false (so != is true), and
// ordering against a missing or type-mismatched operand is false.
type cmpNode struct {
	ident string
	op    tokenKind
	lit   domain.Value
}

func (n *cmpNode) eval(vars map[string]domain.Value) bool {
	left := vars[n.ident]
	switch n.op {
	case tokEq:
		return left.Equal(n.lit)
	case tokNe:
		return !left.Equal(n.lit)
	}
	cmp, ok := left.Compare(n.lit)
	if !ok {
		return false
	}
	switch n.op {
	case tokGt:
		return cmp > 0
	case tokLt:
		return cmp < 0
	case tokGe:
		return cmp >= 0
	case tokLe:
		return cmp <= 0
	}
	return false
}
