package system

import (
	"fmt"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// product is the lazy synchronous product shared by composition and
// conjunction: on a shared action both sides move, otherwise the side that
// does not know the action stays put.
type product struct {
	left, right TransitionSystem
	kind        IDKind
	dim         int
	inputs      ActionSet
	outputs     ActionSet
	actions     ActionSet
}

func (p *product) Dim() int { return p.dim }
func (p *product) InputActions() ActionSet { return p.inputs }
func (p *product) OutputActions() ActionSet { return p.outputs }
func (p *product) Actions() ActionSet { return p.actions }

func (p *product) Children() (TransitionSystem, TransitionSystem) {
	return p.left, p.right
}

func (p *product) InitialLocation() *LocationTuple {
	l, r := p.left.InitialLocation(), p.right.InitialLocation()
	if l == nil || r == nil {
		return nil
	}
	return Compose(l, r, p.kind)
}

func (p *product) InitialState() *State {
	return initialState(p.InitialLocation(), p.dim)
}

func (p *product) LocalMaxBounds(loc *LocationTuple) zone.Bounds {
	return p.left.LocalMaxBounds(loc.Left()).Merge(p.right.LocalMaxBounds(loc.Right()))
}

func (p *product) NextTransitionsIfAvailable(loc *LocationTuple, action string) []*Transition {
	if !p.actions.Contains(action) {
		return nil
	}
	if loc.IsLeaf() {
		ts, _ := specialTransitions(loc, action, p.inputs, p.dim)
		return ts
	}
	lts := p.side(p.left, loc.Left(), action)
	rts := p.side(p.right, loc.Right(), action)
	out := make([]*Transition, 0, len(lts)*len(rts))
	for _, lt := range lts {
		for _, rt := range rts {
			out = append(out, Combine(lt, rt, p.kind))
		}
	}
	return out
}

func (p *product) side(sys TransitionSystem, loc *LocationTuple, action string) []*Transition {
	if !sys.Actions().Contains(action) {
		return []*Transition{IdentityTransition(loc, p.dim)}
	}
	return sys.NextTransitionsIfAvailable(loc, action)
}

func (p *product) describe() string {
	return fmt.Sprintf("(%s %s %s)", p.left, p.kind.operator(), p.right)
}

// Composition runs two systems in parallel, synchronising shared actions.
type Composition struct {
	product
}

var _ TransitionSystem = (*Composition)(nil)

// NewComposition fails when both sides output the same action.
func NewComposition(left, right TransitionSystem, dim int) (*Composition, error) {
	if shared := left.OutputActions().Intersection(right.OutputActions()); len(shared) > 0 {
		return nil, &StructuralFailure{
			Err:     domain.ErrOutputsNotDisjoint,
			System:  fmt.Sprintf("(%s || %s)", left, right),
			Actions: shared,
		}
	}
	outputs := left.OutputActions().Union(right.OutputActions())
	inputs := left.InputActions().Union(right.InputActions()).Difference(outputs)
	return &Composition{product{
		left:    left,
		right:   right,
		kind:    IDComposition,
		dim:     dim,
		inputs:  inputs,
		outputs: outputs,
		actions: inputs.Union(outputs),
	}}, nil
}

func (c *Composition) Kind() Kind { return KindComposition }
func (c *Composition) String() string { return c.describe() }

func (c *Composition) NextTransitions(loc *LocationTuple, action string) []*Transition {
	mustContain(c, action)
	return c.NextTransitionsIfAvailable(loc, action)
}

// Conjunction constrains two specifications to hold at once.
type Conjunction struct {
	product
}

var _ TransitionSystem = (*Conjunction)(nil)

// NewConjunction fails when an action is an input on one side and an output
// on the other.
func NewConjunction(left, right TransitionSystem, dim int) (*Conjunction, error) {
	clash := left.InputActions().Intersection(right.OutputActions()).
		Union(left.OutputActions().Intersection(right.InputActions()))
	if len(clash) > 0 {
		return nil, &StructuralFailure{
			Err:     domain.ErrConjunctionIncompatible,
			System:  fmt.Sprintf("(%s && %s)", left, right),
			Actions: clash,
		}
	}
	inputs := left.InputActions().Union(right.InputActions())
	outputs := left.OutputActions().Union(right.OutputActions())
	return &Conjunction{product{
		left:    left,
		right:   right,
		kind:    IDConjunction,
		dim:     dim,
		inputs:  inputs,
		outputs: outputs,
		actions: inputs.Union(outputs),
	}}, nil
}

func (c *Conjunction) Kind() Kind { return KindConjunction }
func (c *Conjunction) String() string { return c.describe() }

func (c *Conjunction) NextTransitions(loc *LocationTuple, action string) []*Transition {
	mustContain(c, action)
	return c.NextTransitionsIfAvailable(loc, action)
}
