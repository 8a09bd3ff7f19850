package system

import (
	"fmt"

	"github.com/aretw0/zonecheck/internal/compiler"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// Transition is an enabled move: a guard, clock resets and a target.
type Transition struct {
	ID      *TransitionID
	Guard   zone.Federation
	Target  *LocationTuple
	Updates []compiler.Update
}

// NewTransition builds a transition.
func NewTransition(id *TransitionID, guard zone.Federation, target *LocationTuple, updates []compiler.Update) *Transition {
	return &Transition{ID: id, Guard: guard, Target: target, Updates: updates}
}

// IdentityTransition keeps loc unchanged without constraining clocks.
func IdentityTransition(loc *LocationTuple, dim int) *Transition {
	return NewTransition(NoTransitionID(), zone.Universe(dim), loc, nil)
}

// Combine synchronises two transitions of composed systems.
func Combine(left, right *Transition, kind IDKind) *Transition {
	updates := make([]compiler.Update, 0, len(left.Updates)+len(right.Updates))
	updates = append(updates, left.Updates...)
	updates = append(updates, right.Updates...)
	return &Transition{
		ID:      ComposedTransitionID(kind, left.ID, right.ID),
		Guard:   left.Guard.Intersection(right.Guard),
		Target:  Compose(left.Target, right.Target, kind),
		Updates: updates,
	}
}

// ApplyUpdates performs the clock resets on f.
func (t *Transition) ApplyUpdates(f zone.Federation) zone.Federation {
	for _, u := range t.Updates {
		f = f.Reset(u.Clock, u.Value)
	}
	return f
}

// InverseUpdates returns the valuations that the resets map into f.
func (t *Transition) InverseUpdates(f zone.Federation) zone.Federation {
	for i := len(t.Updates) - 1; i >= 0; i-- {
		u := t.Updates[i]
		f = f.Constrain(u.Clock, 0, zone.LE(u.Value)).
			Constrain(0, u.Clock, zone.LE(-u.Value)).
			Free(u.Clock)
	}
	return f
}

// AllowedFederation is the part of the guard from which the target
// invariant holds right after the resets.
func (t *Transition) AllowedFederation() zone.Federation {
	target := t.Target.ApplyInvariants(zone.Universe(t.Guard.Dim()))
	return t.InverseUpdates(target).Intersection(t.Guard)
}

// Use takes the transition from s: guard, resets, target invariant, delay
// and target invariant again. It reports false when nothing remains.
func (t *Transition) Use(s *State) (*State, bool) {
	z := s.Zone().Intersection(t.Guard)
	if z.IsEmpty() {
		return nil, false
	}
	z = t.Target.ApplyInvariants(t.ApplyUpdates(z))
	if z.IsEmpty() {
		return nil, false
	}
	z = t.Target.ApplyInvariants(z.Up())
	return NewState(t.Target, z), true
}

func (t *Transition) String() string {
	return fmt.Sprintf("%s -> %s [%s]", t.ID, t.Target, t.Guard)
}

// unionAllowed is the union of the allowed federations of ts.
func unionAllowed(ts []*Transition, dim int) zone.Federation {
	f := zone.Empty(dim)
	for _, t := range ts {
		f = f.Union(t.AllowedFederation())
	}
	return f
}
