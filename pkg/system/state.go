package system

import (
	"fmt"

	"github.com/aretw0/zonecheck/pkg/zone"
)

// State is a symbolic configuration: a location and a federation of clock
// valuations. States are immutable; WithZone returns a modified copy.
type State struct {
	loc  *LocationTuple
	zone zone.Federation
}

// NewState pairs a location with a federation.
func NewState(loc *LocationTuple, z zone.Federation) *State {
	return &State{loc: loc, zone: z}
}

func (s *State) Location() *LocationTuple { return s.loc }
func (s *State) Zone() zone.Federation { return s.zone }

// WithZone returns a state at the same location holding z.
func (s *State) WithZone(z zone.Federation) *State {
	return &State{loc: s.loc, zone: z}
}

// IsSubsetOf reports whether s is covered by o: same location and a zone
// included in o's zone.
func (s *State) IsSubsetOf(o *State) bool {
	return s.loc.id.Equal(o.loc.id) && s.zone.SubsetEq(o.zone)
}

// Extrapolate coarsens the zone with the given bounds.
func (s *State) Extrapolate(bounds zone.Bounds) *State {
	return s.WithZone(s.zone.Extrapolate(bounds))
}

func (s *State) String() string {
	return fmt.Sprintf("%s %s", s.loc, s.zone)
}

// initialState delays the all-zero valuation inside the invariant of loc.
func initialState(loc *LocationTuple, dim int) *State {
	if loc == nil {
		return nil
	}
	z := loc.ApplyInvariants(zone.Init(dim))
	z = loc.ApplyInvariants(z.Up())
	if z.IsEmpty() {
		return nil
	}
	return NewState(loc, z)
}
