package system

import (
	"fmt"
	"strings"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Components returns the compiled components of sys from left to right.
func Components(sys TransitionSystem) []*CompiledComponent {
	if c, ok := sys.(*CompiledComponent); ok {
		return []*CompiledComponent{c}
	}
	l, r := sys.Children()
	return append(Components(l), Components(r)...)
}

// BuildLocation assembles the location of sys whose component locations
// are named, left to right. "_" stands for any location.
func BuildLocation(sys TransitionSystem, names []string) (*LocationTuple, error) {
	comps := Components(sys)
	if len(names) != len(comps) {
		return nil, fmt.Errorf("%w: %d names for %d components", domain.ErrUnknownLocation, len(names), len(comps))
	}
	loc, rest, err := buildLocation(sys, names)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: trailing names %v", domain.ErrUnknownLocation, rest)
	}
	return loc, nil
}

func buildLocation(sys TransitionSystem, names []string) (*LocationTuple, []string, error) {
	switch s := sys.(type) {
	case *CompiledComponent:
		name := strings.TrimSpace(names[0])
		if name == "_" {
			return AnyLocation(), names[1:], nil
		}
		loc, ok := s.Location(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s in %s", domain.ErrUnknownLocation, name, s.Name())
		}
		return loc, names[1:], nil
	}
	l, r := sys.Children()
	left, rest, err := buildLocation(l, names)
	if err != nil {
		return nil, nil, err
	}
	right, rest, err := buildLocation(r, rest)
	if err != nil {
		return nil, nil, err
	}
	switch sys.Kind() {
	case KindQuotient:
		return MergeAsQuotient(left, right), rest, nil
	case KindConjunction:
		return Compose(left, right, IDConjunction), rest, nil
	}
	return Compose(left, right, IDComposition), rest, nil
}

// SplitPath distributes the edges of a path over the components of sys.
func SplitPath(sys TransitionSystem, path []*TransitionID) [][]string {
	comps := Components(sys)
	out := make([][]string, len(comps))
	for _, id := range path {
		splitStep(sys, id, out, 0)
	}
	return out
}

func splitStep(sys TransitionSystem, id *TransitionID, out [][]string, offset int) int {
	if _, ok := sys.(*CompiledComponent); ok {
		if id != nil && id.Kind() == IDSimple {
			out[offset] = append(out[offset], id.Edge())
		}
		return offset + 1
	}
	l, r := sys.Children()
	if id == nil || id.left == nil {
		return offset + len(Components(l)) + len(Components(r))
	}
	offset = splitStep(l, id.Left(), out, offset)
	return splitStep(r, id.Right(), out, offset)
}

// ClockNames maps clock names to indices. Every clock is reachable as
// "Component.clock"; unambiguous clocks also by their bare name.
func ClockNames(sys TransitionSystem) map[string]int {
	out := make(map[string]int)
	count := make(map[string]int)
	for _, c := range Components(sys) {
		for name, idx := range c.Declarations().Clocks {
			out[c.Name()+"."+name] = idx
			count[name]++
			out[name] = idx
		}
	}
	for name, n := range count {
		if n > 1 {
			delete(out, name)
		}
	}
	return out
}

// ClockLabel returns a function naming clock indices of sys, for rendering
// federations.
func ClockLabel(sys TransitionSystem) func(int) string {
	labels := make(map[int]string)
	for _, c := range Components(sys) {
		for name, idx := range c.Declarations().Clocks {
			labels[idx] = c.Name() + "." + name
		}
	}
	return func(i int) string {
		if l, ok := labels[i]; ok {
			return l
		}
		return fmt.Sprintf("x%d", i)
	}
}

// Resolver resolves clock names of sys for expressions over the whole system.
type Resolver struct {
	clocks map[string]int
	ints   map[string]int
}

// NewResolver collects clocks and integer constants of every component.
func NewResolver(sys TransitionSystem) Resolver {
	r := Resolver{clocks: ClockNames(sys), ints: make(map[string]int)}
	for _, c := range Components(sys) {
		for name, v := range c.Declarations().Ints {
			r.ints[c.Name()+"."+name] = v
			r.ints[name] = v
		}
	}
	return r
}

func (r Resolver) Clock(name string) (int, bool) {
	i, ok := r.clocks[name]
	return i, ok
}

func (r Resolver) Int(name string) (int, bool) {
	v, ok := r.ints[name]
	return v, ok
}
