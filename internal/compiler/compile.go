package compiler

import (
	"fmt"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// Resolver looks up clocks and integer constants by name.
type Resolver interface {
	Clock(name string) (int, bool)
	Int(name string) (int, bool)
}

var _ Resolver = domain.Declarations{}

// Update resets a clock to a constant value.
type Update struct {
	Clock int
	Value int
}

// Compile turns an expression into a federation of dimension dim.
func Compile(e Expr, r Resolver, dim int) (zone.Federation, error) {
	switch e := e.(type) {
	case Bool:
		if e.Value {
			return zone.Universe(dim), nil
		}
		return zone.Empty(dim), nil
	case And:
		l, err := Compile(e.Left, r, dim)
		if err != nil {
			return l, err
		}
		rf, err := Compile(e.Right, r, dim)
		if err != nil {
			return rf, err
		}
		return l.Intersection(rf), nil
	case Or:
		l, err := Compile(e.Left, r, dim)
		if err != nil {
			return l, err
		}
		rf, err := Compile(e.Right, r, dim)
		if err != nil {
			return rf, err
		}
		return l.Union(rf), nil
	case Not:
		inner, err := Compile(e.Inner, r, dim)
		if err != nil {
			return inner, err
		}
		return inner.Inverse(), nil
	case Compare:
		return compileCompare(e, r, dim)
	default:
		return zone.Empty(dim), fmt.Errorf("%w: unsupported node %T", domain.ErrInvalidExpression, e)
	}
}

// CompileString parses and compiles src in one step.
func CompileString(src string, r Resolver, dim int) (zone.Federation, error) {
	e, err := ParseExpr(src)
	if err != nil {
		return zone.Empty(dim), err
	}
	return Compile(e, r, dim)
}

// linear is the normal form "plus - minus + constant" of lhs - rhs.
type linear struct {
	plus, minus int
	constant    int
}

func normalize(c Compare, r Resolver) (linear, error) {
	coef := make(map[int]int)
	var lin linear
	add := func(t Term, sign int) error {
		lin.constant += sign * t.Constant
		for _, n := range t.Names {
			s := sign
			if n.Negative {
				s = -s
			}
			if clock, ok := r.Clock(n.Name); ok {
				coef[clock] += s
				continue
			}
			if v, ok := r.Int(n.Name); ok {
				lin.constant += s * v
				continue
			}
			return fmt.Errorf("%w: %s", domain.ErrUnknownClock, n.Name)
		}
		return nil
	}
	if err := add(c.Left, 1); err != nil {
		return lin, err
	}
	if err := add(c.Right, -1); err != nil {
		return lin, err
	}
	for clock, k := range coef {
		switch {
		case k == 0:
		case k == 1 && lin.plus == 0:
			lin.plus = clock
		case k == -1 && lin.minus == 0:
			lin.minus = clock
		default:
			return lin, fmt.Errorf("%w: only x op c and x - y op c constraints are supported", domain.ErrInvalidExpression)
		}
	}
	return lin, nil
}

func compileCompare(c Compare, r Resolver, dim int) (zone.Federation, error) {
	lin, err := normalize(c, r)
	if err != nil {
		return zone.Empty(dim), err
	}
	if lin.plus >= dim || lin.minus >= dim {
		return zone.Empty(dim), fmt.Errorf("%w: clock index outside dimension %d", domain.ErrInvalidExpression, dim)
	}
	// plus - minus op -constant
	i, j, k := lin.plus, lin.minus, -lin.constant
	u := zone.Universe(dim)
	if i == 0 && j == 0 {
		if holds(c.Op, 0, k) {
			return u, nil
		}
		return zone.Empty(dim), nil
	}
	switch c.Op {
	case "<=":
		return u.Constrain(i, j, zone.LE(k)), nil
	case "<":
		return u.Constrain(i, j, zone.LT(k)), nil
	case ">=":
		return u.Constrain(j, i, zone.LE(-k)), nil
	case ">":
		return u.Constrain(j, i, zone.LT(-k)), nil
	case "==":
		return u.Constrain(i, j, zone.LE(k)).Constrain(j, i, zone.LE(-k)), nil
	case "!=":
		return u.Constrain(i, j, zone.LT(k)).Union(u.Constrain(j, i, zone.LT(-k))), nil
	}
	return zone.Empty(dim), fmt.Errorf("%w: operator %s", domain.ErrInvalidExpression, c.Op)
}

func holds(op string, a, b int) bool {
	switch op {
	case "<=":
		return a <= b
	case "<":
		return a < b
	case ">=":
		return a >= b
	case ">":
		return a > b
	case "==":
		return a == b
	case "!=":
		return a != b
	}
	return false
}

// CompileUpdates resolves parsed assignments into clock resets.
func CompileUpdates(src string, r Resolver) ([]Update, error) {
	assignments, err := ParseUpdates(src)
	if err != nil {
		return nil, err
	}
	out := make([]Update, 0, len(assignments))
	for _, a := range assignments {
		clock, ok := r.Clock(a.Clock)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownClock, a.Clock)
		}
		v := a.Value.Constant
		for _, n := range a.Value.Names {
			c, ok := r.Int(n.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %s is not an integer constant", domain.ErrUnknownClock, n.Name)
			}
			if n.Negative {
				c = -c
			}
			v += c
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: clock %s reset to negative value %d", domain.ErrInvalidExpression, a.Clock, v)
		}
		out = append(out, Update{Clock: clock, Value: v})
	}
	return out, nil
}

// CollectBounds raises bounds with every clock constant compared in e.
// Constants in x - y comparisons count for both clocks.
func CollectBounds(e Expr, r Resolver, bounds zone.Bounds) {
	switch e := e.(type) {
	case And:
		CollectBounds(e.Left, r, bounds)
		CollectBounds(e.Right, r, bounds)
	case Or:
		CollectBounds(e.Left, r, bounds)
		CollectBounds(e.Right, r, bounds)
	case Not:
		CollectBounds(e.Inner, r, bounds)
	case Compare:
		lin, err := normalize(e, r)
		if err != nil {
			return
		}
		for _, clock := range []int{lin.plus, lin.minus} {
			if clock > 0 && clock < len(bounds) {
				bounds.AddUpper(clock, lin.constant)
			}
		}
	}
}
