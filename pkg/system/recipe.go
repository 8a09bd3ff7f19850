package system

import (
	"fmt"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// ClockAllocator hands out disjoint clock ranges while a recipe is built,
// plus one quotient clock shared by every quotient of the query.
type ClockAllocator struct {
	next     int
	quotient int
}

// NewClockAllocator starts after the reference clock.
func NewClockAllocator() *ClockAllocator {
	return &ClockAllocator{next: 1}
}

// Allocate reserves n clocks and returns the first index.
func (a *ClockAllocator) Allocate(n int) int {
	first := a.next
	a.next += n
	return first
}

// QuotientClock returns the shared quotient clock, allocating it on first use.
func (a *ClockAllocator) QuotientClock() int {
	if a.quotient == 0 {
		a.quotient = a.Allocate(1)
	}
	return a.quotient
}

// Dim is the dimension needed for everything allocated so far.
func (a *ClockAllocator) Dim() int { return a.next }

// SystemRecipe is an uncompiled system tree.
type SystemRecipe interface {
	Compile(dim int) (TransitionSystem, error)
	String() string
}

// ComponentRecipe is a leaf recipe.
type ComponentRecipe struct {
	Component    *domain.Component
	Declarations domain.Declarations
}

// NewComponentRecipe relocates the clocks of c into a fresh range.
func NewComponentRecipe(c *domain.Component, alloc *ClockAllocator) *ComponentRecipe {
	first := alloc.Allocate(c.Declarations.ClockCount())
	return &ComponentRecipe{Component: c, Declarations: c.Declarations.Relocate(first)}
}

func (r *ComponentRecipe) Compile(dim int) (TransitionSystem, error) {
	return CompileComponent(r.Component, r.Declarations, dim)
}

func (r *ComponentRecipe) String() string { return r.Component.Name }

// CompositionRecipe is left || right.
type CompositionRecipe struct{ Left, Right SystemRecipe }

func (r *CompositionRecipe) Compile(dim int) (TransitionSystem, error) {
	l, rs, err := compilePair(r.Left, r.Right, dim)
	if err != nil {
		return nil, err
	}
	return NewComposition(l, rs, dim)
}

func (r *CompositionRecipe) String() string { return fmt.Sprintf("(%s || %s)", r.Left, r.Right) }

// ConjunctionRecipe is left && right.
type ConjunctionRecipe struct{ Left, Right SystemRecipe }

func (r *ConjunctionRecipe) Compile(dim int) (TransitionSystem, error) {
	l, rs, err := compilePair(r.Left, r.Right, dim)
	if err != nil {
		return nil, err
	}
	return NewConjunction(l, rs, dim)
}

func (r *ConjunctionRecipe) String() string { return fmt.Sprintf("(%s && %s)", r.Left, r.Right) }

// QuotientRecipe is left \\ right.
type QuotientRecipe struct {
	Left, Right SystemRecipe
	Clock       int
}

// NewQuotientRecipe takes the shared quotient clock from alloc.
func NewQuotientRecipe(left, right SystemRecipe, alloc *ClockAllocator) *QuotientRecipe {
	return &QuotientRecipe{Left: left, Right: right, Clock: alloc.QuotientClock()}
}

func (r *QuotientRecipe) Compile(dim int) (TransitionSystem, error) {
	l, rs, err := compilePair(r.Left, r.Right, dim)
	if err != nil {
		return nil, err
	}
	return NewQuotient(l, rs, r.Clock, dim)
}

func (r *QuotientRecipe) String() string { return fmt.Sprintf(`(%s \\ %s)`, r.Left, r.Right) }

func compilePair(left, right SystemRecipe, dim int) (TransitionSystem, TransitionSystem, error) {
	l, err := left.Compile(dim)
	if err != nil {
		return nil, nil, err
	}
	r, err := right.Compile(dim)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
