package check

import (
	"context"
	"fmt"

	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// Target is a location with optional clock constraints. A nil Constraint
// means no constraint beyond the location invariant.
type Target struct {
	Location   *system.LocationTuple
	Constraint *zone.Federation
}

// ReachabilityResult is the verdict of Reachability. Path lists the
// transitions from start to the first matching state and Split the same
// path as edge ids per component.
type ReachabilityResult struct {
	Reachable bool
	Path      []*system.TransitionID
	Split     [][]string
	End       *system.State
	States    int
}

type reachNode struct {
	state  *system.State
	via    *system.TransitionID
	parent *reachNode
}

// Reachability searches breadth first for a state matching end from start.
// The start location must be concrete; the end location may contain
// wildcards. Without a start constraint every clock starts at zero.
func Reachability(ctx context.Context, sys system.TransitionSystem, start, end Target, opts ...Option) (*ReachabilityResult, error) {
	o := newOptions(opts)
	if start.Location == nil || end.Location == nil {
		return nil, fmt.Errorf("reachability needs a start and an end location")
	}
	if start.Location.Type() == system.LocationAny {
		return nil, fmt.Errorf("start location %s must not contain wildcards", start.Location)
	}

	dim := sys.Dim()
	z := zone.Init(dim)
	if start.Constraint != nil {
		z = *start.Constraint
	}
	z = start.Location.ApplyInvariants(z)
	z = start.Location.ApplyInvariants(z.Up())
	result := &ReachabilityResult{}
	if z.IsEmpty() {
		return result, nil
	}

	bounds := func(loc *system.LocationTuple) zone.Bounds {
		b := sys.LocalMaxBounds(loc)
		if end.Constraint != nil {
			b = b.Merge(constraintBounds(*end.Constraint))
		}
		return b
	}

	passed := newPassedList()
	first := system.NewState(start.Location, z)
	first = first.Extrapolate(bounds(first.Location()))
	passed.add(first)
	queue := []*reachNode{{state: first}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := queue[0]
		queue[0] = nil
		queue = queue[1:]

		if hit, ok := matches(n.state, end); ok {
			result.Reachable = true
			result.End = hit
			result.Path = n.path()
			result.Split = system.SplitPath(sys, result.Path)
			result.States = passed.size
			o.logger.Debug("target reached", "system", sys.String(), "states", passed.size, "steps", len(result.Path))
			return result, nil
		}

		for _, action := range sys.Actions() {
			for _, t := range sys.NextTransitions(n.state.Location(), action) {
				next, ok := t.Use(n.state)
				if !ok {
					continue
				}
				next = next.Extrapolate(bounds(next.Location()))
				if passed.addIfNew(next) {
					queue = append(queue, &reachNode{state: next, via: t.ID, parent: n})
				}
			}
		}
	}

	result.States = passed.size
	return result, nil
}

func matches(s *system.State, end Target) (*system.State, bool) {
	if !system.ComparePartialLocations(end.Location, s.Location()) {
		return nil, false
	}
	if end.Constraint == nil {
		return s, true
	}
	z := s.Zone().Intersection(*end.Constraint)
	if z.IsEmpty() {
		return nil, false
	}
	return s.WithZone(z), true
}

func (n *reachNode) path() []*system.TransitionID {
	var out []*system.TransitionID
	for ; n.parent != nil; n = n.parent {
		out = append(out, n.via)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// constraintBounds collects the constants of a target constraint so that
// extrapolation never merges valuations the constraint distinguishes.
func constraintBounds(f zone.Federation) zone.Bounds {
	b := zone.NewBounds(f.Dim())
	for _, conj := range f.MinimalConstraints() {
		for _, c := range conj {
			if c.Bound == zone.Infinity {
				continue
			}
			b.AddUpper(c.I, c.Bound.Constant())
			b.AddUpper(c.J, c.Bound.Constant())
		}
	}
	return b
}
