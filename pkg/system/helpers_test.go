package system_test

import (
	"testing"

	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/stretchr/testify/require"
)

// recipeFor builds a recipe over the university components. build receives
// a leaf constructor bound to one shared allocator.
func recipeFor(t *testing.T, build func(leaf func(name string) system.SystemRecipe, alloc *system.ClockAllocator) system.SystemRecipe) system.TransitionSystem {
	t.Helper()
	comps := testutils.UniversityComponents()
	alloc := system.NewClockAllocator()
	leaf := func(name string) system.SystemRecipe {
		c, ok := comps[name]
		require.True(t, ok, "unknown fixture %s", name)
		return system.NewComponentRecipe(&c, alloc)
	}
	r := build(leaf, alloc)
	sys, err := r.Compile(alloc.Dim())
	require.NoError(t, err)
	return sys
}

func compileOne(t *testing.T, name string) *system.CompiledComponent {
	t.Helper()
	sys := recipeFor(t, func(leaf func(string) system.SystemRecipe, _ *system.ClockAllocator) system.SystemRecipe {
		return leaf(name)
	})
	return sys.(*system.CompiledComponent)
}

func location(t *testing.T, sys system.TransitionSystem, names ...string) *system.LocationTuple {
	t.Helper()
	loc, err := system.BuildLocation(sys, names)
	require.NoError(t, err)
	return loc
}
