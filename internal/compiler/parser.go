package compiler

import (
	"fmt"
	"strconv"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Expr is a boolean clock constraint expression.
type Expr interface {
	isExpr()
}

// Bool is a literal true or false.
type Bool struct{ Value bool }

// And is a conjunction.
type And struct{ Left, Right Expr }

// Or is a disjunction.
type Or struct{ Left, Right Expr }

// Not negates its operand.
type Not struct{ Inner Expr }

// Compare relates two linear terms.
type Compare struct {
	Left, Right Term
	Op          string
}

func (Bool) isExpr() {}
func (And) isExpr() {}
func (Or) isExpr() {}
func (Not) isExpr() {}
func (Compare) isExpr() {}

// Term is a sum of signed names and a constant. Names are resolved against
// declarations at compile time, as clocks or as integer constants.
type Term struct {
	Names    []SignedName
	Constant int
}

// SignedName is a name occurring with coefficient +1 or -1.
type SignedName struct {
	Name     string
	Negative bool
}

// Assignment is a parsed clock update "name = value".
type Assignment struct {
	Clock string
	Value Term
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func newParser(src string) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{src: src, toks: toks}, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(op string) bool {
	if t := p.peek(); t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.peek()
	return fmt.Errorf("%w: %s at %d in %q", domain.ErrInvalidExpression, fmt.Sprintf(format, args...), t.pos, p.src)
}

// ParseExpr parses a guard or invariant. Blank input is true.
func ParseExpr(src string) (Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokEOF {
		return Bool{Value: true}, nil
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return e, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept("&&") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.accept("!") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}
	if p.accept("(") {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(")") {
			return nil, p.errorf("expected )")
		}
		return e, nil
	}
	if t := p.peek(); t.kind == tokIdent && (t.text == "true" || t.text == "false") {
		p.next()
		return Bool{Value: t.text == "true"}, nil
	}
	return p.parseCompare()
}

func (p *parser) parseCompare() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	t := p.next()
	switch {
	case t.kind != tokOp:
		return nil, p.errorf("expected comparison")
	case t.text == "=":
		t.text = "=="
	case t.text == "<", t.text == "<=", t.text == "==", t.text == ">=", t.text == ">", t.text == "!=":
	default:
		return nil, p.errorf("unexpected %q", t.text)
	}
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return Compare{Left: left, Right: right, Op: t.text}, nil
}

func (p *parser) parseTerm() (Term, error) {
	var term Term
	negative := false
	if p.accept("-") {
		negative = true
	} else {
		p.accept("+")
	}
	for {
		t := p.next()
		switch t.kind {
		case tokNumber:
			v, err := strconv.Atoi(t.text)
			if err != nil {
				return term, p.errorf("bad number %q", t.text)
			}
			if negative {
				v = -v
			}
			term.Constant += v
		case tokIdent:
			term.Names = append(term.Names, SignedName{Name: t.text, Negative: negative})
		default:
			return term, p.errorf("expected clock, constant or number")
		}
		switch {
		case p.accept("+"):
			negative = false
		case p.accept("-"):
			negative = true
		default:
			return term, nil
		}
	}
}

// ParseUpdates parses a comma separated list of clock assignments.
func ParseUpdates(src string) ([]Assignment, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	var out []Assignment
	for p.peek().kind != tokEOF {
		t := p.next()
		if t.kind != tokIdent {
			return nil, p.errorf("expected clock name")
		}
		if !p.accept("=") && !p.accept(":=") {
			return nil, p.errorf("expected =")
		}
		value, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Clock: t.text, Value: value})
		if !p.accept(",") && !p.accept(";") && p.peek().kind != tokEOF {
			return nil, p.errorf("expected ,")
		}
	}
	return out, nil
}
