package check

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/aretw0/zonecheck/pkg/zone"
	"golang.org/x/sync/errgroup"
)

// DeterminismFailureKind classifies why a system is not deterministic.
type DeterminismFailureKind uint8

const (
	DeterminismNoInitialState DeterminismFailureKind = iota + 1
	NotDeterministicFrom
)

func (k DeterminismFailureKind) String() string {
	switch k {
	case DeterminismNoInitialState:
		return "NoInitialState"
	case NotDeterministicFrom:
		return "NotDeterministicFrom"
	}
	return "Unknown"
}

// DeterminismFailure names a state with two overlapping transitions on Action.
type DeterminismFailure struct {
	Kind     DeterminismFailureKind
	System   string
	Location *system.LocationID
	Action   string
}

func (f *DeterminismFailure) Error() string {
	if f.Kind == DeterminismNoInitialState {
		return fmt.Sprintf("%s has no initial state", f.System)
	}
	return fmt.Sprintf("%s is not deterministic from %s on %s", f.System, f.Location, f.Action)
}

// DeterminismResult is the verdict of Determinism. Failure is nil when the
// system is deterministic.
type DeterminismResult struct {
	Failure *DeterminismFailure
	States  int
}

// Deterministic reports whether the check succeeded.
func (r *DeterminismResult) Deterministic() bool { return r.Failure == nil }

type determinism struct {
	sys       system.TransitionSystem
	queue     *workQueue
	passed    *syncPassedList
	cancelled atomic.Bool
	once      sync.Once
	failure   *DeterminismFailure
	opts      *options
}

// Determinism explores the reachable states of sys on a pool of workers and
// fails on the first state where two transitions on one action are enabled
// for a common valuation.
func Determinism(ctx context.Context, sys system.TransitionSystem, opts ...Option) (*DeterminismResult, error) {
	o := newOptions(opts)
	init := sys.InitialState()
	if init == nil {
		return &DeterminismResult{Failure: &DeterminismFailure{Kind: DeterminismNoInitialState, System: sys.String()}}, nil
	}

	d := &determinism{
		sys:    sys,
		queue:  newWorkQueue(),
		passed: &syncPassedList{list: newPassedList()},
		opts:   o,
	}
	init = init.Extrapolate(sys.LocalMaxBounds(init.Location()))
	d.passed.addIfNew(init)
	d.queue.push(init)

	stop := context.AfterFunc(ctx, d.cancel)
	defer stop()

	var g errgroup.Group
	for range o.workers {
		g.Go(d.work)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if d.failure == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	states := d.passed.size()
	o.logger.Debug("determinism checked", "system", sys.String(), "states", states, "workers", o.workers, "deterministic", d.failure == nil)
	return &DeterminismResult{Failure: d.failure, States: states}, nil
}

func (d *determinism) cancel() {
	d.cancelled.Store(true)
	d.queue.close()
}

func (d *determinism) work() error {
	for {
		s, ok := d.queue.pop()
		if !ok {
			return nil
		}
		if !d.cancelled.Load() {
			d.visit(s)
		}
		d.queue.done()
	}
}

func (d *determinism) visit(s *system.State) {
	loc := s.Location()
	for _, action := range d.sys.Actions() {
		if d.cancelled.Load() {
			return
		}
		ts := d.sys.NextTransitions(loc, action)
		seen := zone.Empty(d.sys.Dim())
		for _, t := range ts {
			allowed := t.AllowedFederation().Intersection(s.Zone())
			if seen.HasIntersection(allowed) {
				d.fail(&DeterminismFailure{
					Kind:     NotDeterministicFrom,
					System:   d.sys.String(),
					Location: loc.ID(),
					Action:   action,
				})
				return
			}
			seen = seen.Union(allowed)
		}
		for _, t := range ts {
			if next, ok := successor(d.sys, s, t); ok && d.passed.addIfNew(next) {
				d.queue.push(next)
			}
		}
	}
}

func (d *determinism) fail(f *DeterminismFailure) {
	d.once.Do(func() {
		d.failure = f
		d.cancel()
	})
}
