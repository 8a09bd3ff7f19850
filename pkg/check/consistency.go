package check

import (
	"context"
	"fmt"

	"github.com/aretw0/zonecheck/pkg/system"
)

// ConsistencyFailureKind classifies why a system is not locally consistent.
type ConsistencyFailureKind uint8

const (
	NoInitialLocation ConsistencyFailureKind = iota + 1
	EmptyInitialState
	NotConsistentFrom
)

func (k ConsistencyFailureKind) String() string {
	switch k {
	case NoInitialLocation:
		return "NoInitialLocation"
	case EmptyInitialState:
		return "EmptyInitialState"
	case NotConsistentFrom:
		return "NotConsistentFrom"
	}
	return "Unknown"
}

// ConsistencyFailure pinpoints an inconsistent state. Action is the last
// action explored from Location, empty when no action was tried.
type ConsistencyFailure struct {
	Kind     ConsistencyFailureKind
	System   string
	Location *system.LocationID
	Action   string
}

func (f *ConsistencyFailure) Error() string {
	switch f.Kind {
	case NoInitialLocation:
		return fmt.Sprintf("%s has no initial location", f.System)
	case EmptyInitialState:
		return fmt.Sprintf("%s has an empty initial state", f.System)
	}
	if f.Action == "" {
		return fmt.Sprintf("%s is not consistent from %s", f.System, f.Location)
	}
	return fmt.Sprintf("%s is not consistent from %s after %s", f.System, f.Location, f.Action)
}

// ConsistencyResult is the verdict of Consistency. Failure is nil when the
// system is consistent.
type ConsistencyResult struct {
	Failure *ConsistencyFailure
	States  int
}

// Consistent reports whether the check succeeded.
func (r *ConsistencyResult) Consistent() bool { return r.Failure == nil }

type consistency struct {
	ctx      context.Context
	sys      system.TransitionSystem
	passed   *passedList
	explored int
	opts     *options
}

// Consistency decides whether every reachable state of sys has a consistent
// future: all usable inputs lead to consistent states, and the state can
// delay indefinitely or take an output to a consistent state.
func Consistency(ctx context.Context, sys system.TransitionSystem, opts ...Option) (*ConsistencyResult, error) {
	o := newOptions(opts)
	if sys.InitialLocation() == nil {
		return &ConsistencyResult{Failure: &ConsistencyFailure{Kind: NoInitialLocation, System: sys.String()}}, nil
	}
	init := sys.InitialState()
	if init == nil {
		return &ConsistencyResult{Failure: &ConsistencyFailure{
			Kind:     EmptyInitialState,
			System:   sys.String(),
			Location: sys.InitialLocation().ID(),
		}}, nil
	}

	c := &consistency{ctx: ctx, sys: sys, passed: newPassedList(), opts: o}
	init = init.Extrapolate(sys.LocalMaxBounds(init.Location()))
	failure, err := c.consistentFrom(init, "")
	if err != nil {
		return nil, err
	}
	o.logger.Debug("consistency checked", "system", sys.String(), "states", c.explored, "consistent", failure == nil)
	return &ConsistencyResult{Failure: failure, States: c.explored}, nil
}

func (c *consistency) fail(s *system.State, action string) *ConsistencyFailure {
	return &ConsistencyFailure{
		Kind:     NotConsistentFrom,
		System:   c.sys.String(),
		Location: s.Location().ID(),
		Action:   action,
	}
}

// consistentFrom returns nil when s is consistent. States on the current
// search path count as consistent, which makes the search compute the
// greatest fixed point. When s fails, it is dropped from the passed list
// along with every state stored below it, whose verdicts may rest on s.
func (c *consistency) consistentFrom(s *system.State, via string) (*ConsistencyFailure, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	loc := s.Location()
	switch {
	case c.passed.covers(s), loc.IsUniversal():
		return nil, nil
	case loc.IsInconsistent():
		return c.fail(s, via), nil
	}
	mark := c.passed.mark()
	c.passed.add(s)
	c.explored++

	failure, err := c.explore(s, via)
	if failure != nil {
		c.passed.rollback(mark)
	}
	return failure, err
}

func (c *consistency) explore(s *system.State, via string) (*ConsistencyFailure, error) {
	loc := s.Location()
	last := via
	for _, input := range c.sys.InputActions() {
		for _, t := range c.sys.NextTransitions(loc, input) {
			next, ok := successor(c.sys, s, t)
			if !ok {
				continue
			}
			last = input
			failure, err := c.consistentFrom(next, input)
			if failure != nil || err != nil {
				return failure, err
			}
		}
	}

	if s.Zone().CanDelayIndefinitely() {
		return nil, nil
	}

	for _, output := range c.sys.OutputActions() {
		for _, t := range c.sys.NextTransitions(loc, output) {
			next, ok := successor(c.sys, s, t)
			if !ok {
				continue
			}
			failure, err := c.consistentFrom(next, output)
			if err != nil {
				return nil, err
			}
			if failure == nil {
				return nil, nil
			}
		}
	}

	c.opts.logger.Debug("no saving output", "location", loc.String(), "zone", s.Zone().String())
	return c.fail(s, last), nil
}
