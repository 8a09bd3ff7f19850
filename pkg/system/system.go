package system

import (
	"fmt"
	"strings"

	"github.com/aretw0/zonecheck/pkg/zone"
)

// Kind identifies the concrete system behind a TransitionSystem.
type Kind uint8

const (
	KindComponent Kind = iota
	KindComposition
	KindConjunction
	KindQuotient
)

func (k Kind) String() string {
	switch k {
	case KindComposition:
		return "composition"
	case KindConjunction:
		return "conjunction"
	case KindQuotient:
		return "quotient"
	}
	return "component"
}

// TransitionSystem is the uniform view over compiled components and their
// lazy combinations. Implementations are immutable once built and safe for
// concurrent use.
type TransitionSystem interface {
	// Dim is the clock dimension, reference clock included.
	Dim() int
	// NextTransitions panics when action is not in Actions.
	NextTransitions(loc *LocationTuple, action string) []*Transition
	NextTransitionsIfAvailable(loc *LocationTuple, action string) []*Transition
	InputActions() ActionSet
	OutputActions() ActionSet
	Actions() ActionSet
	// InitialLocation is nil when no location is initial.
	InitialLocation() *LocationTuple
	// InitialState is nil without initial location or when its invariant
	// excludes the all-zero valuation.
	InitialState() *State
	LocalMaxBounds(loc *LocationTuple) zone.Bounds
	// Children panics on components.
	Children() (TransitionSystem, TransitionSystem)
	Kind() Kind
	String() string
}

// StructuralFailure rejects a model before exploration starts.
type StructuralFailure struct {
	Err     error
	System  string
	Actions []string
}

func (f *StructuralFailure) Error() string {
	msg := fmt.Sprintf("%s: %v", f.System, f.Err)
	if len(f.Actions) > 0 {
		msg += ": " + strings.Join(f.Actions, ", ")
	}
	return msg
}

func (f *StructuralFailure) Unwrap() error { return f.Err }

func mustContain(sys TransitionSystem, action string) {
	if !sys.Actions().Contains(action) {
		panic(fmt.Sprintf("system %s has no action %q", sys, action))
	}
}

// specialTransitions handles universal and inconsistent leaf tuples: a
// self-loop on every action, or on inputs only.
func specialTransitions(loc *LocationTuple, action string, inputs ActionSet, dim int) ([]*Transition, bool) {
	switch {
	case loc.IsUniversal():
		return []*Transition{IdentityTransition(loc, dim)}, true
	case loc.IsInconsistent():
		if inputs.Contains(action) {
			return []*Transition{IdentityTransition(loc, dim)}, true
		}
		return nil, true
	}
	return nil, false
}
