package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Op is a system operator.
type Op string

const (
	OpComposition Op = "||"
	OpConjunction Op = "&&"
	OpQuotient    Op = `\\`
)

// Expr is a system expression.
type Expr interface {
	String() string
	// Components lists component names from left to right, repeats included.
	Components() []string
}

// Ident names a component.
type Ident struct{ Name string }

func (i *Ident) String() string       { return i.Name }
func (i *Ident) Components() []string { return []string{i.Name} }

// Binary combines two systems.
type Binary struct {
	Op          Op
	Left, Right Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

func (b *Binary) Components() []string {
	return append(b.Left.Components(), b.Right.Components()...)
}

// StateSpec is a location given by one name per component, "_" for any,
// and an optional clock constraint.
type StateSpec struct {
	Locations  []string
	Constraint string
}

func (s *StateSpec) String() string {
	return fmt.Sprintf("[%s](%s)", strings.Join(s.Locations, ", "), s.Constraint)
}

// Query is a parsed query. Right is set for refinements, Start and End for
// reachability.
type Query struct {
	Kind  domain.QueryKind
	Left  Expr
	Right Expr
	Start *StateSpec
	End   *StateSpec
}

// String returns the canonical text of q, with every operator
// parenthesised.
func (q *Query) String() string {
	switch q.Kind {
	case domain.QueryRefinement:
		return fmt.Sprintf("%s: %s <= %s", q.Kind, q.Left, q.Right)
	case domain.QueryReachability:
		return fmt.Sprintf("%s: %s -> %s; %s", q.Kind, q.Left, q.Start, q.End)
	}
	return fmt.Sprintf("%s: %s", q.Kind, q.Left)
}

// Components lists every component name the query refers to, sorted and
// without repeats.
func (q *Query) Components() []string {
	names := q.Left.Components()
	if q.Right != nil {
		names = append(names, q.Right.Components()...)
	}
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
