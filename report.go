package zonecheck

import (
	"context"
	"fmt"

	"github.com/aretw0/zonecheck/internal/query"
	"github.com/aretw0/zonecheck/internal/validator"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/system"
)

// ComponentReport is the validation outcome of one component.
type ComponentReport struct {
	Name string
	// Err is set when the component cannot be decoded or compiled.
	Err         error
	Warnings    []string
	Consistency *domain.Verdict
	Determinism *domain.Verdict
}

// OK reports whether the component compiles and is consistent and deterministic.
func (r *ComponentReport) OK() bool {
	return r.Err == nil &&
		r.Consistency != nil && r.Consistency.Satisfied &&
		r.Determinism != nil && r.Determinism.Satisfied
}

// Validate compiles every available component and checks that it is
// consistent and deterministic. The error is only set when the components
// cannot be listed.
func (e *Engine) Validate(ctx context.Context) ([]ComponentReport, error) {
	names, err := e.loader.ListComponents()
	if err != nil {
		return nil, err
	}
	reports := make([]ComponentReport, 0, len(names))
	for _, name := range names {
		r := ComponentReport{Name: name}
		c, err := e.Component(name)
		if err != nil {
			r.Err = err
			reports = append(reports, r)
			continue
		}
		r.Warnings = validator.Lint(c)
		if r.Consistency, err = e.Check(ctx, fmt.Sprintf("consistency: %s", name)); err == nil {
			r.Determinism, err = e.Check(ctx, fmt.Sprintf("determinism: %s", name))
		}
		if err != nil {
			if ctx.Err() != nil {
				return reports, ctx.Err()
			}
			r.Err = err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Compile builds the transition system of a system expression such as
// "(Spec \\ Researcher) \\ Machine".
func (e *Engine) Compile(src string) (system.TransitionSystem, error) {
	expr, err := query.ParseSystem(src)
	if err != nil {
		return nil, err
	}
	plan, err := query.Build(&query.Query{Kind: domain.QueryConsistency, Left: expr}, query.FromLoader(e.loader))
	if err != nil {
		return nil, err
	}
	return plan.System, nil
}
