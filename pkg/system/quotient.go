package system

import (
	"fmt"

	"github.com/aretw0/zonecheck/internal/compiler"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// Quotient is the loosest system Q such that S || Q refines T, for T \\ S.
// Besides the pairs (lT, lS) it has a universal location, reached when S
// cannot be where the quotient is, and an inconsistent location, reached
// when S could emit an output T forbids.
type Quotient struct {
	t, s         TransitionSystem
	clock        int
	dim          int
	inputs       ActionSet
	outputs      ActionSet
	actions      ActionSet
	universal    *LocationTuple
	inconsistent *LocationTuple
}

var _ TransitionSystem = (*Quotient)(nil)

// NewQuotient builds T \\ S. clock is the fresh clock reset on entering the
// inconsistent location.
func NewQuotient(t, s TransitionSystem, clock, dim int) (*Quotient, error) {
	if clash := s.OutputActions().Intersection(t.InputActions()); len(clash) > 0 {
		return nil, &StructuralFailure{
			Err:     domain.ErrQuotientIncompatible,
			System:  fmt.Sprintf(`(%s \\ %s)`, t, s),
			Actions: clash,
		}
	}
	if clock <= 0 || clock >= dim {
		return nil, fmt.Errorf("quotient clock %d outside dimension %d", clock, dim)
	}
	inputs := t.InputActions().Union(s.OutputActions())
	outputs := t.OutputActions().Difference(s.OutputActions()).
		Union(s.InputActions().Difference(t.Actions()))
	return &Quotient{
		t:            t,
		s:            s,
		clock:        clock,
		dim:          dim,
		inputs:       inputs,
		outputs:      outputs,
		actions:      inputs.Union(outputs),
		universal:    UniversalLocation(),
		inconsistent: InconsistentLocation(dim, clock),
	}, nil
}

func (q *Quotient) Dim() int { return q.dim }
func (q *Quotient) InputActions() ActionSet { return q.inputs }
func (q *Quotient) OutputActions() ActionSet { return q.outputs }
func (q *Quotient) Actions() ActionSet { return q.actions }
func (q *Quotient) Kind() Kind { return KindQuotient }
func (q *Quotient) String() string { return fmt.Sprintf(`(%s \\ %s)`, q.t, q.s) }

// Clock returns the fresh clock of the quotient.
func (q *Quotient) Clock() int { return q.clock }

func (q *Quotient) Children() (TransitionSystem, TransitionSystem) {
	return q.t, q.s
}

func (q *Quotient) InitialLocation() *LocationTuple {
	t, s := q.t.InitialLocation(), q.s.InitialLocation()
	if t == nil || s == nil {
		return nil
	}
	return MergeAsQuotient(t, s)
}

func (q *Quotient) InitialState() *State {
	return initialState(q.InitialLocation(), q.dim)
}

func (q *Quotient) LocalMaxBounds(loc *LocationTuple) zone.Bounds {
	return q.t.LocalMaxBounds(loc.Left()).Merge(q.s.LocalMaxBounds(loc.Right()))
}

func (q *Quotient) NextTransitions(loc *LocationTuple, action string) []*Transition {
	mustContain(q, action)
	return q.NextTransitionsIfAvailable(loc, action)
}

func (q *Quotient) NextTransitionsIfAvailable(loc *LocationTuple, action string) []*Transition {
	if !q.actions.Contains(action) {
		return nil
	}
	if loc.IsLeaf() {
		ts, _ := specialTransitions(loc, action, q.inputs, q.dim)
		return ts
	}
	lt, ls := loc.Left(), loc.Right()
	invS := ls.ApplyInvariants(zone.Universe(q.dim))
	inT, inS := q.t.Actions().Contains(action), q.s.Actions().Contains(action)

	var tts, sts []*Transition
	if inT {
		tts = q.t.NextTransitionsIfAvailable(lt, action)
	}
	if inS {
		sts = q.s.NextTransitionsIfAvailable(ls, action)
	}

	var out []*Transition
	add := func(id *TransitionID, guard zone.Federation, target *LocationTuple, updates []compiler.Update) {
		if !guard.IsEmpty() {
			out = append(out, NewTransition(id, guard, target, updates))
		}
	}
	none := NoTransitionID()

	switch {
	case inT && inS:
		for _, t := range tts {
			for _, s := range sts {
				guard := t.AllowedFederation().Intersection(invS).Intersection(s.AllowedFederation())
				updates := append(append([]compiler.Update{}, t.Updates...), s.Updates...)
				add(ComposedTransitionID(IDQuotient, t.ID, s.ID), guard, MergeAsQuotient(t.Target, s.Target), updates)
			}
		}
	case inS:
		for _, s := range sts {
			guard := s.AllowedFederation().Intersection(invS)
			add(ComposedTransitionID(IDQuotient, none, s.ID), guard, MergeAsQuotient(lt, s.Target), s.Updates)
		}
	case inT:
		for _, t := range tts {
			guard := t.AllowedFederation().Intersection(invS)
			add(ComposedTransitionID(IDQuotient, t.ID, none), guard, MergeAsQuotient(t.Target, ls), t.Updates)
		}
	}

	if q.s.OutputActions().Contains(action) {
		gS := unionAllowed(sts, q.dim)
		if inT {
			gT := unionAllowed(tts, q.dim)
			reset := []compiler.Update{{Clock: q.clock, Value: 0}}
			add(none, gS.Subtraction(gT).Intersection(invS), q.inconsistent, reset)
		}
		add(none, invS.Subtraction(gS), q.universal, nil)
	}

	add(none, invS.Inverse(), q.universal, nil)
	return out
}
