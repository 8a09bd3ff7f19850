package system

import (
	"fmt"

	"github.com/aretw0/zonecheck/internal/compiler"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/zone"
)

type edgeEntry struct {
	action     string
	transition *Transition
}

// CompiledComponent is the leaf transition system of one component.
type CompiledComponent struct {
	name      string
	dim       int
	decls     domain.Declarations
	inputs    ActionSet
	outputs   ActionSet
	actions   ActionSet
	locations map[string]*LocationTuple
	order     []*LocationTuple
	edges     map[string][]edgeEntry
	initial   *LocationTuple
	bounds    zone.Bounds
}

var _ TransitionSystem = (*CompiledComponent)(nil)

// CompileComponent compiles c with clocks relocated by decls into a system
// of dimension dim. Inputs are enabled everywhere: a self-loop covers the
// valuations of each location invariant that no edge on the input accepts.
func CompileComponent(c *domain.Component, decls domain.Declarations, dim int) (*CompiledComponent, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	inputs := NewActionSet(c.InputActions()...)
	outputs := NewActionSet(c.OutputActions()...)
	if overlap := inputs.Intersection(outputs); len(overlap) > 0 {
		return nil, &StructuralFailure{Err: domain.ErrActionsNotDisjoint, System: c.Name, Actions: overlap}
	}
	for name, clock := range decls.Clocks {
		if clock < 1 || clock >= dim {
			return nil, fmt.Errorf("component %s: clock %s has index %d outside dimension %d", c.Name, name, clock, dim)
		}
	}

	cc := &CompiledComponent{
		name:      c.Name,
		dim:       dim,
		decls:     decls,
		inputs:    inputs,
		outputs:   outputs,
		actions:   inputs.Union(outputs),
		locations: make(map[string]*LocationTuple, len(c.Locations)),
		edges:     make(map[string][]edgeEntry),
		bounds:    zone.NewBounds(dim),
	}

	for _, l := range c.Locations {
		expr, err := compiler.ParseExpr(l.Invariant)
		if err != nil {
			return nil, fmt.Errorf("component %s location %s: %w", c.Name, l.ID, err)
		}
		var inv *zone.Federation
		if l.Invariant != "" {
			f, err := compiler.Compile(expr, decls, dim)
			if err != nil {
				return nil, fmt.Errorf("component %s location %s: %w", c.Name, l.ID, err)
			}
			inv = &f
			compiler.CollectBounds(expr, decls, cc.bounds)
		}
		tuple := SimpleLocation(SimpleLocationID(l.ID, c.Name), locationType(l.Type), inv)
		cc.locations[l.ID] = tuple
		cc.order = append(cc.order, tuple)
		if tuple.IsInitial() {
			cc.initial = tuple
		}
	}

	for i, e := range c.Edges {
		expr, err := compiler.ParseExpr(e.Guard)
		if err != nil {
			return nil, fmt.Errorf("component %s edge %s: %w", c.Name, c.EdgeID(i), err)
		}
		guard, err := compiler.Compile(expr, decls, dim)
		if err != nil {
			return nil, fmt.Errorf("component %s edge %s: %w", c.Name, c.EdgeID(i), err)
		}
		compiler.CollectBounds(expr, decls, cc.bounds)
		updates, err := compiler.CompileUpdates(e.Update, decls)
		if err != nil {
			return nil, fmt.Errorf("component %s edge %s: %w", c.Name, c.EdgeID(i), err)
		}
		for _, u := range updates {
			cc.bounds.AddUpper(u.Clock, u.Value)
		}
		t := NewTransition(SimpleTransitionID(c.EdgeID(i)), guard, cc.locations[e.Target], updates)
		cc.edges[e.Source] = append(cc.edges[e.Source], edgeEntry{action: e.Sync, transition: t})
	}

	cc.enableInputs()
	return cc, nil
}

func locationType(t domain.LocationType) LocationType {
	switch t {
	case domain.LocationInitial:
		return LocationInitial
	case domain.LocationUniversal:
		return LocationUniversal
	case domain.LocationInconsistent:
		return LocationInconsistent
	}
	return LocationNormal
}

func (c *CompiledComponent) enableInputs() {
	for _, loc := range c.order {
		if loc.IsUniversal() || loc.IsInconsistent() {
			continue
		}
		name := loc.ID().Location()
		for _, action := range c.inputs {
			var existing []*Transition
			for _, e := range c.edges[name] {
				if e.action == action {
					existing = append(existing, e.transition)
				}
			}
			missing := loc.ApplyInvariants(zone.Universe(c.dim)).Subtraction(unionAllowed(existing, c.dim))
			if missing.IsEmpty() {
				continue
			}
			id := SimpleTransitionID(fmt.Sprintf("%s.%s?", name, action))
			c.edges[name] = append(c.edges[name], edgeEntry{action: action, transition: NewTransition(id, missing, loc, nil)})
		}
	}
}

func (c *CompiledComponent) Name() string { return c.name }
func (c *CompiledComponent) Dim() int { return c.dim }
func (c *CompiledComponent) InputActions() ActionSet { return c.inputs }
func (c *CompiledComponent) OutputActions() ActionSet { return c.outputs }
func (c *CompiledComponent) Actions() ActionSet { return c.actions }
func (c *CompiledComponent) Kind() Kind { return KindComponent }
func (c *CompiledComponent) String() string { return c.name }

// Declarations returns the relocated declarations of the component.
func (c *CompiledComponent) Declarations() domain.Declarations { return c.decls }

// Locations returns every location in declaration order.
func (c *CompiledComponent) Locations() []*LocationTuple { return c.order }

// Location looks up a location by its name.
func (c *CompiledComponent) Location(name string) (*LocationTuple, bool) {
	l, ok := c.locations[name]
	return l, ok
}

func (c *CompiledComponent) InitialLocation() *LocationTuple { return c.initial }

func (c *CompiledComponent) InitialState() *State {
	return initialState(c.initial, c.dim)
}

func (c *CompiledComponent) LocalMaxBounds(*LocationTuple) zone.Bounds { return c.bounds }

func (c *CompiledComponent) Children() (TransitionSystem, TransitionSystem) {
	panic("compiled component " + c.name + " has no children")
}

func (c *CompiledComponent) NextTransitions(loc *LocationTuple, action string) []*Transition {
	mustContain(c, action)
	return c.NextTransitionsIfAvailable(loc, action)
}

func (c *CompiledComponent) NextTransitionsIfAvailable(loc *LocationTuple, action string) []*Transition {
	if !c.actions.Contains(action) {
		return nil
	}
	if ts, ok := specialTransitions(loc, action, c.inputs, c.dim); ok {
		return ts
	}
	if loc.ID().Kind() != IDSimple {
		panic(fmt.Sprintf("component %s asked for composite location %s", c.name, loc))
	}
	var out []*Transition
	for _, e := range c.edges[loc.ID().Location()] {
		if e.action == action {
			out = append(out, e.transition)
		}
	}
	return out
}
