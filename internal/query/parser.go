package query

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/aretw0/zonecheck/pkg/domain"
)

var kinds = map[string]domain.QueryKind{
	"refinement":   domain.QueryRefinement,
	"consistency":  domain.QueryConsistency,
	"determinism":  domain.QueryDeterminism,
	"reachability": domain.QueryReachability,
}

// Parse reads a single query.
func Parse(src string) (*Query, error) {
	head, body, ok := strings.Cut(src, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing kind in %q", domain.ErrInvalidQuery, src)
	}
	kind, ok := kinds[strings.ToLower(strings.TrimSpace(head))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidQuery, strings.TrimSpace(head))
	}

	q := &Query{Kind: kind}
	var err error
	switch kind {
	case domain.QueryRefinement:
		left, right, ok := strings.Cut(body, "<=")
		if !ok {
			return nil, fmt.Errorf("%w: refinement needs <= in %q", domain.ErrInvalidQuery, body)
		}
		if q.Left, err = ParseSystem(left); err != nil {
			return nil, err
		}
		if q.Right, err = ParseSystem(right); err != nil {
			return nil, err
		}
	case domain.QueryReachability:
		sys, states, ok := strings.Cut(body, "->")
		if !ok {
			return nil, fmt.Errorf("%w: reachability needs -> in %q", domain.ErrInvalidQuery, body)
		}
		if q.Left, err = ParseSystem(sys); err != nil {
			return nil, err
		}
		if q.Start, q.End, err = parseStates(states); err != nil {
			return nil, err
		}
	default:
		if q.Left, err = ParseSystem(body); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// ParseAll reads one query per line. Blank lines and lines starting with #
// are skipped.
func ParseAll(r io.Reader) ([]*Query, error) {
	var out []*Query
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		q, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, q)
	}
	return out, sc.Err()
}

// ParseSystem reads a system expression.
func ParseSystem(src string) (Expr, error) {
	toks, err := lexSystem(src)
	if err != nil {
		return nil, err
	}
	p := &systemParser{src: src, toks: toks}
	e, err := p.quotient()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != "" {
		return nil, fmt.Errorf("%w: unexpected %q in %q", domain.ErrInvalidQuery, t, src)
	}
	return e, nil
}

// lexSystem splits src into identifiers, operators and parentheses. The
// quotient is accepted as "\\", "\" or "//" and normalised to OpQuotient.
func lexSystem(src string) ([]string, error) {
	var toks []string
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(src) && (src[j] == '_' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case strings.HasPrefix(src[i:], `\\`), strings.HasPrefix(src[i:], "//"):
			toks = append(toks, string(OpQuotient))
			i += 2
		case c == '\\':
			toks = append(toks, string(OpQuotient))
			i++
		case strings.HasPrefix(src[i:], "||"), strings.HasPrefix(src[i:], "&&"):
			toks = append(toks, src[i:i+2])
			i += 2
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d in %q", domain.ErrInvalidQuery, c, i, src)
		}
	}
	return toks, nil
}

type systemParser struct {
	src  string
	toks []string
	pos  int
}

func (p *systemParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *systemParser) binary(op Op, operand func() (Expr, error)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.peek() == string(op) {
		p.pos++
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *systemParser) quotient() (Expr, error) {
	return p.binary(OpQuotient, p.conjunction)
}

func (p *systemParser) conjunction() (Expr, error) {
	return p.binary(OpConjunction, p.composition)
}

func (p *systemParser) composition() (Expr, error) {
	return p.binary(OpComposition, p.atom)
}

func (p *systemParser) atom() (Expr, error) {
	t := p.peek()
	switch {
	case t == "":
		return nil, fmt.Errorf("%w: unexpected end of %q", domain.ErrInvalidQuery, p.src)
	case t == "(":
		p.pos++
		e, err := p.quotient()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("%w: missing ) in %q", domain.ErrInvalidQuery, p.src)
		}
		p.pos++
		return e, nil
	case t == "_" || !isName(t):
		return nil, fmt.Errorf("%w: expected a component name, got %q", domain.ErrInvalidQuery, t)
	}
	p.pos++
	return &Ident{Name: t}, nil
}

func isName(s string) bool {
	r := rune(s[0])
	return r == '_' || unicode.IsLetter(r)
}

// parseStates reads "[names](constraint); [names](constraint)".
func parseStates(src string) (*StateSpec, *StateSpec, error) {
	rest := strings.TrimSpace(src)
	start, rest, err := parseState(rest)
	if err != nil {
		return nil, nil, err
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ";") {
		return nil, nil, fmt.Errorf("%w: expected ; between states in %q", domain.ErrInvalidQuery, src)
	}
	end, rest, err := parseState(strings.TrimSpace(rest[1:]))
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, nil, fmt.Errorf("%w: trailing %q", domain.ErrInvalidQuery, rest)
	}
	return start, end, nil
}

func parseState(src string) (*StateSpec, string, error) {
	if !strings.HasPrefix(src, "[") {
		return nil, "", fmt.Errorf("%w: expected [ in %q", domain.ErrInvalidQuery, src)
	}
	names, rest, ok := strings.Cut(src[1:], "]")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing ] in %q", domain.ErrInvalidQuery, src)
	}
	s := &StateSpec{}
	for _, n := range strings.Split(names, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, "", fmt.Errorf("%w: empty location name in %q", domain.ErrInvalidQuery, src)
		}
		s.Locations = append(s.Locations, n)
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") {
		return nil, "", fmt.Errorf("%w: expected ( after locations in %q", domain.ErrInvalidQuery, src)
	}
	depth := 0
	for i, c := range rest {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				s.Constraint = strings.TrimSpace(rest[1:i])
				return s, rest[i+1:], nil
			}
		}
	}
	return nil, "", fmt.Errorf("%w: unbalanced parentheses in %q", domain.ErrInvalidQuery, src)
}
