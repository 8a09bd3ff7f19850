package system_test

import (
	"testing"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func universityProduct(t *testing.T) system.TransitionSystem {
	return recipeFor(t, func(leaf leafFn, _ *system.ClockAllocator) system.SystemRecipe {
		return &system.CompositionRecipe{Left: leaf("Machine"), Right: leaf("Researcher")}
	})
}

func TestBuildLocation(t *testing.T) {
	sys := universityProduct(t)

	loc := location(t, sys, "L4", "L9")
	assert.Equal(t, "(L4 || L9)", loc.String())
	inv, ok := loc.Invariant()
	require.True(t, ok)
	assert.False(t, inv.IsUniverse())

	partial := location(t, sys, "_", "L9")
	assert.Equal(t, system.LocationAny, partial.Type())
	assert.True(t, system.ComparePartialLocations(partial, loc))

	_, err := system.BuildLocation(sys, []string{"L4"})
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
	_, err = system.BuildLocation(sys, []string{"L4", "U0"})
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
}

func TestSplitPath(t *testing.T) {
	sys := universityProduct(t)
	init := sys.InitialLocation()

	coin := sys.NextTransitions(init, "coin")[0]
	var tea *system.Transition
	for _, tr := range sys.NextTransitions(coin.Target, "tea") {
		if tr.Target.String() == "(L5 || L9)" {
			tea = tr
		}
	}
	require.NotNil(t, tea)

	split := system.SplitPath(sys, []*system.TransitionID{coin.ID, tea.ID})
	require.Len(t, split, 2)
	assert.Equal(t, []string{"E0", "E3"}, split[0])
	assert.Equal(t, []string{"E2"}, split[1])
}

func TestClockNames(t *testing.T) {
	sys := recipeFor(t, func(leaf leafFn, _ *system.ClockAllocator) system.SystemRecipe {
		return &system.ConjunctionRecipe{Left: leaf("Administration"), Right: leaf("Adm2")}
	})

	names := system.ClockNames(sys)
	assert.Equal(t, 1, names["Administration.z"])
	assert.Equal(t, 2, names["Adm2.z"])
	_, ambiguous := names["z"]
	assert.False(t, ambiguous)

	label := system.ClockLabel(sys)
	assert.Equal(t, "Adm2.z", label(2))
	assert.Equal(t, "x7", label(7))

	r := system.NewResolver(sys)
	i, ok := r.Clock("Administration.z")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	assert.Len(t, system.Components(sys), 2)
}
