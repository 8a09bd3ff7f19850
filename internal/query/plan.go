package query

import (
	"fmt"

	"github.com/aretw0/zonecheck/internal/compiler"
	"github.com/aretw0/zonecheck/pkg/check"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/ports"
	"github.com/aretw0/zonecheck/pkg/system"
)

// Lookup resolves a component by name.
type Lookup func(name string) (*domain.Component, error)

// FromLoader decodes and validates the components served by loader.
func FromLoader(loader ports.ComponentLoader) Lookup {
	return func(name string) (*domain.Component, error) {
		data, err := loader.GetComponent(name)
		if err != nil {
			return nil, err
		}
		c, err := domain.DecodeComponent(data)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		if c.Name == "" {
			c.Name = name
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Plan is a query with its systems compiled over one clock dimension.
type Plan struct {
	Query *Query
	// System is the checked system, or the implementation of a refinement.
	System system.TransitionSystem
	// Spec is the specification of a refinement.
	Spec  system.TransitionSystem
	Start check.Target
	End   check.Target
}

// Build compiles the systems of q. Each occurrence of a component gets its
// own clocks; quotients share one extra clock.
func Build(q *Query, lookup Lookup) (*Plan, error) {
	alloc := system.NewClockAllocator()
	left, err := recipe(q.Left, lookup, alloc)
	if err != nil {
		return nil, err
	}
	var right system.SystemRecipe
	if q.Right != nil {
		if right, err = recipe(q.Right, lookup, alloc); err != nil {
			return nil, err
		}
	}

	dim := alloc.Dim()
	p := &Plan{Query: q}
	if p.System, err = left.Compile(dim); err != nil {
		return nil, err
	}
	if right != nil {
		if p.Spec, err = right.Compile(dim); err != nil {
			return nil, err
		}
	}
	if q.Kind == domain.QueryReachability {
		if p.Start, err = target(p.System, q.Start); err != nil {
			return nil, err
		}
		if p.End, err = target(p.System, q.End); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func recipe(e Expr, lookup Lookup, alloc *system.ClockAllocator) (system.SystemRecipe, error) {
	switch e := e.(type) {
	case *Ident:
		c, err := lookup(e.Name)
		if err != nil {
			return nil, err
		}
		return system.NewComponentRecipe(c, alloc), nil
	case *Binary:
		l, err := recipe(e.Left, lookup, alloc)
		if err != nil {
			return nil, err
		}
		r, err := recipe(e.Right, lookup, alloc)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case OpComposition:
			return &system.CompositionRecipe{Left: l, Right: r}, nil
		case OpConjunction:
			return &system.ConjunctionRecipe{Left: l, Right: r}, nil
		case OpQuotient:
			return system.NewQuotientRecipe(l, r, alloc), nil
		}
		return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidQuery, e.Op)
	}
	return nil, fmt.Errorf("%w: unsupported expression %T", domain.ErrInvalidQuery, e)
}

func target(sys system.TransitionSystem, s *StateSpec) (check.Target, error) {
	loc, err := system.BuildLocation(sys, s.Locations)
	if err != nil {
		return check.Target{}, err
	}
	t := check.Target{Location: loc}
	if s.Constraint == "" {
		return t, nil
	}
	f, err := compiler.CompileString(s.Constraint, system.NewResolver(sys), sys.Dim())
	if err != nil {
		return check.Target{}, fmt.Errorf("constraint %q: %w", s.Constraint, err)
	}
	t.Constraint = &f
	return t, nil
}
