package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// RefinementFailureKind is the closed set of reasons a refinement fails.
type RefinementFailureKind uint8

const (
	EmptyImplementation RefinementFailureKind = iota + 1
	EmptySpecification
	NotDisjoint
	NotSubset
	NotDisjointAndNotSubset
	CutsDelaySolutions
	EmptyTransition2s
	NotEmptyResult
	ConsistencyViolation
	DeterminismViolation
)

var refinementFailureNames = map[RefinementFailureKind]string{
	EmptyImplementation:     "EmptyImplementation",
	EmptySpecification:      "EmptySpecification",
	NotDisjoint:             "NotDisjoint",
	NotSubset:               "NotSubset",
	NotDisjointAndNotSubset: "NotDisjointAndNotSubset",
	CutsDelaySolutions:      "CutsDelaySolutions",
	EmptyTransition2s:       "EmptyTransition2s",
	NotEmptyResult:          "NotEmptyResult",
	ConsistencyViolation:    "ConsistencyFailure",
	DeterminismViolation:    "DeterminismFailure",
}

func (k RefinementFailureKind) String() string {
	if name, ok := refinementFailureNames[k]; ok {
		return name
	}
	return "Unknown"
}

// StatePair is a configuration of the refinement search: one location per
// system and a zone over the clocks of both.
type StatePair struct {
	Impl *system.LocationTuple
	Spec *system.LocationTuple
	Zone zone.Federation
}

func (p *StatePair) String() string {
	return fmt.Sprintf("(%s, %s) %s", p.Impl, p.Spec, p.Zone)
}

func (p *StatePair) key() string {
	return p.Impl.Key() + "|" + p.Spec.Key()
}

// RefinementFailure explains a failed refinement. Pair and Action are set for
// failures found during exploration; Actions for precondition failures;
// Consistency or Determinism when a pre-check failed, with Side naming the
// system that failed it.
type RefinementFailure struct {
	Kind        RefinementFailureKind
	Pair        *StatePair
	Action      string
	Actions     []string
	Side        string
	Consistency *ConsistencyFailure
	Determinism *DeterminismFailure
}

func (f *RefinementFailure) Error() string {
	switch f.Kind {
	case NotDisjoint, NotSubset, NotDisjointAndNotSubset:
		return fmt.Sprintf("%s: %s", f.Kind, strings.Join(f.Actions, ", "))
	case ConsistencyViolation:
		return fmt.Sprintf("%s is not consistent: %v", f.Side, f.Consistency)
	case DeterminismViolation:
		return fmt.Sprintf("%s is not deterministic: %v", f.Side, f.Determinism)
	case EmptyImplementation, EmptySpecification:
		return f.Kind.String()
	}
	if f.Action == "" {
		return fmt.Sprintf("%s at %s", f.Kind, f.Pair)
	}
	return fmt.Sprintf("%s at %s on %s", f.Kind, f.Pair, f.Action)
}

// Unwrap exposes the nested pre-check failure, if any.
func (f *RefinementFailure) Unwrap() error {
	switch {
	case f.Consistency != nil:
		return f.Consistency
	case f.Determinism != nil:
		return f.Determinism
	}
	return nil
}

// RefinementResult is the verdict of Refinement. Failure is nil when the
// implementation refines the specification.
type RefinementResult struct {
	Failure *RefinementFailure
	States  int
}

// Refines reports whether the check succeeded.
func (r *RefinementResult) Refines() bool { return r.Failure == nil }

type refinement struct {
	impl, spec system.TransitionSystem
	dim        int
	waiting    []*StatePair
	// seen holds every pair ever queued, explored or still waiting.
	seen *passedList
	opts *options
}

// Refinement decides whether impl refines spec: every output of impl must be
// allowed by spec and every input of spec must be accepted by impl, from
// every reachable pair of states. Both systems must share one dimension.
func Refinement(ctx context.Context, impl, spec system.TransitionSystem, opts ...Option) (*RefinementResult, error) {
	o := newOptions(opts)
	if impl.Dim() != spec.Dim() {
		return nil, fmt.Errorf("refinement of systems with dimensions %d and %d", impl.Dim(), spec.Dim())
	}
	if f := checkPreconditions(impl, spec); f != nil {
		return &RefinementResult{Failure: f}, nil
	}
	switch {
	case impl.InitialState() == nil:
		return &RefinementResult{Failure: &RefinementFailure{Kind: EmptyImplementation}}, nil
	case spec.InitialState() == nil:
		return &RefinementResult{Failure: &RefinementFailure{Kind: EmptySpecification}}, nil
	}
	for _, side := range []struct {
		name string
		sys  system.TransitionSystem
	}{{"implementation", impl}, {"specification", spec}} {
		f, err := precheck(ctx, side.name, side.sys, opts)
		if err != nil {
			return nil, err
		}
		if f != nil {
			return &RefinementResult{Failure: f}, nil
		}
	}

	r := &refinement{
		impl: impl,
		spec: spec,
		dim:  impl.Dim(),
		seen: newPassedList(),
		opts: o,
	}
	failure, err := r.run(ctx)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("refinement checked", "impl", impl.String(), "spec", spec.String(), "pairs", r.seen.size, "refines", failure == nil)
	return &RefinementResult{Failure: failure, States: r.seen.size}, nil
}

func checkPreconditions(impl, spec system.TransitionSystem) *RefinementFailure {
	notDisjoint := impl.InputActions().Intersection(spec.OutputActions()).
		Union(spec.InputActions().Intersection(impl.OutputActions()))
	notSubset := impl.InputActions().Difference(spec.InputActions()).
		Union(spec.OutputActions().Difference(impl.OutputActions()))
	switch {
	case len(notDisjoint) > 0 && len(notSubset) > 0:
		return &RefinementFailure{Kind: NotDisjointAndNotSubset, Actions: notDisjoint.Union(notSubset)}
	case len(notDisjoint) > 0:
		return &RefinementFailure{Kind: NotDisjoint, Actions: notDisjoint}
	case len(notSubset) > 0:
		return &RefinementFailure{Kind: NotSubset, Actions: notSubset}
	}
	return nil
}

func precheck(ctx context.Context, side string, sys system.TransitionSystem, opts []Option) (*RefinementFailure, error) {
	c, err := Consistency(ctx, sys, opts...)
	if err != nil {
		return nil, err
	}
	if !c.Consistent() {
		return &RefinementFailure{Kind: ConsistencyViolation, Side: side, Consistency: c.Failure}, nil
	}
	d, err := Determinism(ctx, sys, opts...)
	if err != nil {
		return nil, err
	}
	if !d.Deterministic() {
		return &RefinementFailure{Kind: DeterminismViolation, Side: side, Determinism: d.Failure}, nil
	}
	return nil, nil
}

func (r *refinement) bounds(p *StatePair) zone.Bounds {
	return r.impl.LocalMaxBounds(p.Impl).Merge(r.spec.LocalMaxBounds(p.Spec))
}

func (r *refinement) initialPair() (*StatePair, *RefinementFailure) {
	il, sl := r.impl.InitialLocation(), r.spec.InitialLocation()
	z := il.ApplyInvariants(zone.Init(r.dim))
	z = il.ApplyInvariants(z.Up())
	p := &StatePair{Impl: il, Spec: sl, Zone: z}
	if !sl.ApplyInvariants(z).Equal(z) {
		return nil, &RefinementFailure{Kind: CutsDelaySolutions, Pair: p}
	}
	p.Zone = z.Extrapolate(r.bounds(p))
	return p, nil
}

func (r *refinement) run(ctx context.Context) (*RefinementFailure, error) {
	init, f := r.initialPair()
	if f != nil {
		return f, nil
	}
	r.push(init)

	for len(r.waiting) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.waiting[0]
		r.waiting[0] = nil
		r.waiting = r.waiting[1:]

		for _, output := range r.impl.OutputActions() {
			implTs := r.impl.NextTransitions(p.Impl, output)
			specTs := r.spec.NextTransitionsIfAvailable(p.Spec, output)
			if f := r.step(p, output, implTs, specTs, true); f != nil {
				return f, nil
			}
		}
		for _, input := range r.spec.InputActions() {
			specTs := r.spec.NextTransitions(p.Spec, input)
			implTs := r.implInputs(p.Impl, input)
			if f := r.step(p, input, specTs, implTs, false); f != nil {
				return f, nil
			}
		}
	}
	return nil, nil
}

// implInputs lets the implementation ignore specification inputs outside
// its alphabet.
func (r *refinement) implInputs(loc *system.LocationTuple, input string) []*system.Transition {
	if !r.impl.Actions().Contains(input) {
		return []*system.Transition{system.IdentityTransition(loc, r.dim)}
	}
	return r.impl.NextTransitions(loc, input)
}

// step checks that every move of the acting side on action is matched by
// the other side, then queues the successor pairs. implActs tells which side
// acts.
func (r *refinement) step(p *StatePair, action string, acting, other []*system.Transition, implActs bool) *RefinementFailure {
	fed1 := allowedWithin(acting, p.Zone)
	if fed1.IsEmpty() {
		return nil
	}
	fed2 := allowedWithin(other, p.Zone)
	if fed2.IsEmpty() {
		return &RefinementFailure{Kind: EmptyTransition2s, Pair: p, Action: action}
	}
	if !fed1.Subtraction(fed2).IsEmpty() {
		r.opts.logger.Debug("unmatched move", "pair", p.String(), "action", action, "left", fed1.Subtraction(fed2).String())
		return &RefinementFailure{Kind: NotEmptyResult, Pair: p, Action: action}
	}

	for _, t1 := range acting {
		for _, t2 := range other {
			it, st := t1, t2
			if !implActs {
				it, st = t2, t1
			}
			if f := r.successor(p, action, it, st); f != nil {
				return f
			}
		}
	}
	return nil
}

func allowedWithin(ts []*system.Transition, z zone.Federation) zone.Federation {
	out := zone.Empty(z.Dim())
	for _, t := range ts {
		out = out.Union(t.AllowedFederation().Intersection(z))
	}
	return out
}

func (r *refinement) successor(p *StatePair, action string, it, st *system.Transition) *RefinementFailure {
	z := p.Zone.Intersection(it.Guard).Intersection(st.Guard)
	if z.IsEmpty() {
		return nil
	}
	z = st.ApplyUpdates(it.ApplyUpdates(z))
	z = it.Target.ApplyInvariants(z)
	if z.IsEmpty() {
		return nil
	}
	z = it.Target.ApplyInvariants(z.Up())
	next := &StatePair{Impl: it.Target, Spec: st.Target, Zone: z}
	if !st.Target.ApplyInvariants(z).Equal(z) {
		return &RefinementFailure{Kind: CutsDelaySolutions, Pair: next, Action: action}
	}
	next.Zone = z.Extrapolate(r.bounds(next))

	if r.seen.coversZone(next.key(), next.Zone) {
		return nil
	}
	r.push(next)
	return nil
}

func (r *refinement) push(p *StatePair) {
	r.waiting = append(r.waiting, p)
	r.seen.addZone(p.key(), p.Zone)
}
