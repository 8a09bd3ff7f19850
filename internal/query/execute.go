package query

import (
	"context"
	"fmt"

	"github.com/aretw0/zonecheck/pkg/check"
	"github.com/aretw0/zonecheck/pkg/domain"
)

// Execute runs the check planned by p. The verdict carries the outcome and
// its explanation; identity and timing are left to the caller.
func Execute(ctx context.Context, p *Plan, opts ...check.Option) (*domain.Verdict, error) {
	v := &domain.Verdict{Query: p.Query.String(), Kind: p.Query.Kind}

	switch p.Query.Kind {
	case domain.QueryConsistency:
		res, err := check.Consistency(ctx, p.System, opts...)
		if err != nil {
			return nil, err
		}
		v.Satisfied, v.States = res.Consistent(), res.States
		if f := res.Failure; f != nil {
			v.Failure, v.Reason, v.Action = f.Error(), f.Kind.String(), f.Action
			if f.Location != nil {
				v.Location = f.Location.String()
			}
		}

	case domain.QueryDeterminism:
		res, err := check.Determinism(ctx, p.System, opts...)
		if err != nil {
			return nil, err
		}
		v.Satisfied, v.States = res.Deterministic(), res.States
		if f := res.Failure; f != nil {
			v.Failure, v.Reason, v.Action = f.Error(), f.Kind.String(), f.Action
			if f.Location != nil {
				v.Location = f.Location.String()
			}
		}

	case domain.QueryRefinement:
		res, err := check.Refinement(ctx, p.System, p.Spec, opts...)
		if err != nil {
			return nil, err
		}
		v.Satisfied, v.States = res.Refines(), res.States
		if f := res.Failure; f != nil {
			v.Failure, v.Reason, v.Action = f.Error(), f.Kind.String(), f.Action
			if f.Pair != nil {
				v.Location = fmt.Sprintf("(%s, %s)", f.Pair.Impl, f.Pair.Spec)
			}
		}

	case domain.QueryReachability:
		res, err := check.Reachability(ctx, p.System, p.Start, p.End, opts...)
		if err != nil {
			return nil, err
		}
		v.Satisfied, v.States, v.Path = res.Reachable, res.States, res.Split
		if res.Reachable {
			v.Location = res.End.Location().String()
		} else {
			v.Failure = fmt.Sprintf("%s is not reachable from %s", p.Query.End, p.Query.Start)
		}

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidQuery, p.Query.Kind)
	}
	return v, nil
}
