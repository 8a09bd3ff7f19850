package system

import (
	"slices"
	"sort"
)

// ActionSet is a sorted, duplicate-free set of action names.
type ActionSet []string

// NewActionSet builds a set from names in any order.
func NewActionSet(names ...string) ActionSet {
	out := slices.Clone(names)
	sort.Strings(out)
	return ActionSet(slices.Compact(out))
}

// Contains reports membership.
func (s ActionSet) Contains(action string) bool {
	_, ok := slices.BinarySearch(s, action)
	return ok
}

// Union returns s ∪ o.
func (s ActionSet) Union(o ActionSet) ActionSet {
	return NewActionSet(append(slices.Clone(s), o...)...)
}

// Intersection returns s ∩ o.
func (s ActionSet) Intersection(o ActionSet) ActionSet {
	var out ActionSet
	for _, a := range s {
		if o.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// Difference returns s \ o.
func (s ActionSet) Difference(o ActionSet) ActionSet {
	var out ActionSet
	for _, a := range s {
		if !o.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// IsDisjoint reports whether s and o share no action.
func (s ActionSet) IsDisjoint(o ActionSet) bool {
	return len(s.Intersection(o)) == 0
}

// IsSubset reports whether s ⊆ o.
func (s ActionSet) IsSubset(o ActionSet) bool {
	return len(s.Difference(o)) == 0
}
