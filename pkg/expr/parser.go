package expr

import (
	"fmt"
	"strconv"

	"github.com/aretw0/ensemble/pkg/domain"
)

// Expr is a compiled condition expression. It implements domain.Condition.
type Expr struct {
	src  string
	root node
}

// Compile parses src into an evaluable expression. This is the only place
// a condition can fail; a compiled Expr never errors at evaluation time.
func Compile(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		t := p.peek()
		return nil, fmt.Errorf("unexpected %s at position %d", t.kind, t.pos)
	}
	return &Expr{src: src, root: root}, nil
}

// MustCompile is like Compile but panics on error. For tests and constants.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the original expression text.
func (e *Expr) Source() string { return e.src }

// Eval evaluates the expression against a flat value context.
func (e *Expr) Eval(vars map[string]domain.Value) bool {
	return e.root.eval(vars)
}

var _ domain.Condition = (*Expr)(nil)

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// parseExpr := term (OR term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &orNode{left: left, right: right}
	}
	return left, nil
}

// parseTerm := factor (AND factor)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &andNode{left: left, right: right}
	}
	return left, nil
}

// parseFactor := NOT factor | '(' expr ')' | comparison | identifier | literal
func (p *parser) parseFactor() (node, error) {
	switch t := p.peek(); t.kind {
	case tokNot:
		p.next()
		child, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil

	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("unbalanced parentheses: expected ')' at position %d", p.peek().pos)
		}
		p.next()
		return inner, nil

	case tokIdent:
		p.next()
		if op := p.peek().kind; isCmpOp(op) {
			p.next()
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return &cmpNode{ident: t.text, op: op, lit: lit}, nil
		}
		return &identNode{name: t.text}, nil

	case tokTrue:
		p.next()
		return &litNode{val: domain.Bool(true)}, nil

	case tokFalse:
		p.next()
		return &litNode{val: domain.Bool(false)}, nil

	default:
		return nil, fmt.Errorf("expected identifier, NOT or '(' but found %s at position %d", t.kind, t.pos)
	}
}

func (p *parser) parseLiteral() (domain.Value, error) {
	switch t := p.next(); t.kind {
	case tokString:
		return domain.String(t.text), nil
	case tokNumber:
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return domain.Null(), fmt.Errorf("invalid number %q at position %d", t.text, t.pos)
		}
		return domain.Number(n), nil
	case tokTrue:
		return domain.Bool(true), nil
	case tokFalse:
		return domain.Bool(false), nil
	default:
		return domain.Null(), fmt.Errorf("expected literal after comparison operator, found %s at position %d", t.kind, t.pos)
	}
}

func isCmpOp(k tokenKind) bool {
	switch k {
	case tokEq, tokNe, tokGt, tokLt, tokGe, tokLe:
		return true
	}
	return false
}
