package system

import (
	"github.com/aretw0/zonecheck/pkg/zone"
)

// LocationType tags a LocationTuple.
type LocationType uint8

const (
	LocationNormal LocationType = iota
	LocationInitial
	LocationUniversal
	LocationInconsistent
	LocationAny
)

func (t LocationType) String() string {
	switch t {
	case LocationInitial:
		return "initial"
	case LocationUniversal:
		return "universal"
	case LocationInconsistent:
		return "inconsistent"
	case LocationAny:
		return "any"
	}
	return "normal"
}

// LocationTuple is a decorated, possibly composite location. Composite tuples
// carry both sub-tuples; leaves carry neither.
type LocationTuple struct {
	id        *LocationID
	typ       LocationType
	invariant *zone.Federation
	left      *LocationTuple
	right     *LocationTuple
}

// SimpleLocation builds a leaf tuple. invariant may be nil.
func SimpleLocation(id *LocationID, typ LocationType, invariant *zone.Federation) *LocationTuple {
	return &LocationTuple{id: id, typ: typ, invariant: invariant}
}

// UniversalLocation accepts every action and never blocks time.
func UniversalLocation() *LocationTuple {
	return SimpleLocation(SimpleLocationID("Universal", ""), LocationUniversal, nil)
}

// InconsistentLocation is entered with clock reset and forbids delay.
func InconsistentLocation(dim, clock int) *LocationTuple {
	inv := zone.Universe(dim).Constrain(clock, 0, zone.LE(0))
	return SimpleLocation(SimpleLocationID("Inconsistent", ""), LocationInconsistent, &inv)
}

// AnyLocation is the wildcard of partial locations.
func AnyLocation() *LocationTuple {
	return SimpleLocation(AnyLocationID(), LocationAny, nil)
}

// Compose combines two tuples under composition or conjunction.
func Compose(left, right *LocationTuple, kind IDKind) *LocationTuple {
	return &LocationTuple{
		id:        ComposedLocationID(kind, left.id, right.id),
		typ:       composeType(left.typ, right.typ, kind),
		invariant: intersectInvariants(left.invariant, right.invariant),
		left:      left,
		right:     right,
	}
}

func composeType(l, r LocationType, kind IDKind) LocationType {
	switch {
	case l == LocationInconsistent || r == LocationInconsistent:
		return LocationInconsistent
	case l == LocationAny || r == LocationAny:
		return LocationAny
	case l == LocationUniversal && r == LocationUniversal:
		return LocationUniversal
	case kind == IDConjunction && l == LocationUniversal:
		return r
	case kind == IDConjunction && r == LocationUniversal:
		return l
	case l == LocationInitial && r == LocationInitial:
		return LocationInitial
	}
	return LocationNormal
}

func intersectInvariants(a, b *zone.Federation) *zone.Federation {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	f := a.Intersection(*b)
	return &f
}

// MergeAsQuotient combines the tuples of a quotient T \\ S. The sub-tuples
// keep their own invariants; the quotient itself may stay in (lT, lS) while
// Inv(lT) holds or Inv(lS) is violated.
func MergeAsQuotient(t, s *LocationTuple) *LocationTuple {
	typ := LocationNormal
	switch {
	case t.typ == LocationAny || s.typ == LocationAny:
		typ = LocationAny
	case t.typ == LocationInitial && s.typ == LocationInitial:
		typ = LocationInitial
	}
	var inv *zone.Federation
	if t.invariant != nil {
		f := *t.invariant
		if s.invariant != nil {
			f = f.Union(s.invariant.Inverse())
		}
		if !f.IsUniverse() {
			inv = &f
		}
	}
	return &LocationTuple{
		id:        ComposedLocationID(IDQuotient, t.id, s.id),
		typ:       typ,
		invariant: inv,
		left:      t,
		right:     s,
	}
}

func (l *LocationTuple) ID() *LocationID { return l.id }
func (l *LocationTuple) Type() LocationType { return l.typ }
func (l *LocationTuple) Key() string { return l.id.key }
func (l *LocationTuple) String() string { return l.id.String() }
func (l *LocationTuple) IsLeaf() bool { return l.left == nil }
func (l *LocationTuple) IsInitial() bool { return l.typ == LocationInitial }
func (l *LocationTuple) IsUniversal() bool { return l.typ == LocationUniversal }
func (l *LocationTuple) IsInconsistent() bool { return l.typ == LocationInconsistent }

// Invariant returns the invariant federation, if the location has one.
func (l *LocationTuple) Invariant() (zone.Federation, bool) {
	if l.invariant == nil {
		return zone.Federation{}, false
	}
	return *l.invariant, true
}

// Left returns the left sub-tuple. Leaves return themselves, so that
// universal and inconsistent tuples short-circuit structural recursion.
func (l *LocationTuple) Left() *LocationTuple {
	if l.left == nil {
		return l
	}
	return l.left
}

// Right returns the right sub-tuple, or l itself for leaves.
func (l *LocationTuple) Right() *LocationTuple {
	if l.right == nil {
		return l
	}
	return l.right
}

// ApplyInvariants intersects f with the invariant, if any.
func (l *LocationTuple) ApplyInvariants(f zone.Federation) zone.Federation {
	if l.invariant == nil {
		return f
	}
	return f.Intersection(*l.invariant)
}

// ComparePartialLocations reports whether a and b denote the same location,
// treating wildcards as matching anything and a universal operand of a
// conjunction as neutral.
func ComparePartialLocations(a, b *LocationTuple) bool {
	a, b = dropUniversalConjunct(a), dropUniversalConjunct(b)
	switch {
	case a.typ == LocationAny && a.IsLeaf(), b.typ == LocationAny && b.IsLeaf():
		return true
	case a.IsLeaf() || b.IsLeaf():
		return a.id.MatchesPartial(b.id)
	case a.id.kind != b.id.kind:
		return false
	}
	return ComparePartialLocations(a.left, b.left) && ComparePartialLocations(a.right, b.right)
}

func dropUniversalConjunct(l *LocationTuple) *LocationTuple {
	for !l.IsLeaf() && l.id.kind == IDConjunction {
		switch {
		case l.left.IsLeaf() && l.left.IsUniversal():
			l = l.right
		case l.right.IsLeaf() && l.right.IsUniversal():
			l = l.left
		default:
			return l
		}
	}
	return l
}
