package system_test

import (
	"testing"

	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/aretw0/zonecheck/pkg/zone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompiledComponent_MachineTransitions(t *testing.T) {
	m := compileOne(t, "Machine")
	l5 := location(t, m, "L5")

	coin := m.NextTransitions(l5, "coin")
	require.Len(t, coin, 1)
	assert.Equal(t, "L4", coin[0].Target.ID().Location())
	assert.True(t, coin[0].Guard.IsUniverse())

	tea := m.NextTransitions(l5, "tea")
	require.Len(t, tea, 1)
	assert.Equal(t, "L5", tea[0].Target.ID().Location())
	// y >= 2
	want := zone.Universe(m.Dim()).Constrain(0, 1, zone.LE(-2))
	assert.True(t, tea[0].Guard.Equal(want), "got %s", tea[0].Guard)

	assert.Empty(t, m.NextTransitionsIfAvailable(l5, "cof"))
	assert.Empty(t, m.NextTransitionsIfAvailable(l5, "grant"))
	assert.Panics(t, func() { m.NextTransitions(l5, "grant") })
}

func TestCompiledComponent_InputEnabling(t *testing.T) {
	m := compileOne(t, "Machine")
	l4 := location(t, m, "L4")

	coin := m.NextTransitions(l4, "coin")
	require.Len(t, coin, 1)
	assert.Equal(t, "L4.coin?", coin[0].ID.String())
	assert.Same(t, l4, coin[0].Target)
	// the self-loop only covers the invariant y <= 6
	inv := zone.Universe(m.Dim()).Constrain(1, 0, zone.LE(6))
	assert.True(t, coin[0].Guard.Equal(inv))

	// Researcher accepts tea in L6 on both sides of 15, so nothing is added
	r := compileOne(t, "Researcher")
	assert.Len(t, r.NextTransitions(location(t, r, "L6"), "tea"), 2)
}

func TestCompiledComponent_Actions(t *testing.T) {
	m := compileOne(t, "Machine")
	assert.Equal(t, system.ActionSet{"coin"}, m.InputActions())
	assert.Equal(t, system.ActionSet{"cof", "tea"}, m.OutputActions())
	assert.Equal(t, system.ActionSet{"cof", "coin", "tea"}, m.Actions())
	assert.Equal(t, "L5", m.InitialLocation().ID().Location())
	assert.Len(t, m.Locations(), 2)

	bounds := m.LocalMaxBounds(m.InitialLocation())
	assert.Equal(t, 6, bounds[1])
}

func TestCompiledComponent_InitialState(t *testing.T) {
	m := compileOne(t, "Machine")
	s := m.InitialState()
	require.NotNil(t, s)
	assert.True(t, s.Zone().CanDelayIndefinitely())

	c := domain.Component{
		Name:         "Stuck",
		Declarations: domain.NewDeclarations("x"),
		Locations:    []domain.Location{{ID: "A", Type: domain.LocationInitial, Invariant: "x>=1"}},
	}
	stuck, err := system.CompileComponent(&c, c.Declarations.Relocate(1), 2)
	require.NoError(t, err)
	assert.Nil(t, stuck.InitialState())
}

func TestCompileComponent_ActionsNotDisjoint(t *testing.T) {
	c := domain.Component{
		Name:         "Echo",
		Declarations: domain.NewDeclarations(),
		Locations:    []domain.Location{{ID: "A", Type: domain.LocationInitial}},
		Edges: []domain.Edge{
			{Source: "A", Target: "A", Sync: "ping", Type: domain.SyncInput},
			{Source: "A", Target: "A", Sync: "ping", Type: domain.SyncOutput},
		},
	}
	_, err := system.CompileComponent(&c, c.Declarations, 1)
	require.ErrorIs(t, err, domain.ErrActionsNotDisjoint)

	var sf *system.StructuralFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "Echo", sf.System)
	assert.Equal(t, []string{"ping"}, sf.Actions)
}

func TestCompileComponent_Errors(t *testing.T) {
	comps := testutils.UniversityComponents()
	m := comps["Machine"]

	// clocks must be relocated past the reference clock
	_, err := system.CompileComponent(&m, m.Declarations, 2)
	assert.Error(t, err)

	bad := m
	bad.Edges = append([]domain.Edge(nil), m.Edges...)
	bad.Edges[0].Guard = "w > 1"
	_, err = system.CompileComponent(&bad, bad.Declarations.Relocate(1), 2)
	assert.ErrorIs(t, err, domain.ErrUnknownClock)

	bad.Edges[0].Guard = "y >"
	_, err = system.CompileComponent(&bad, bad.Declarations.Relocate(1), 2)
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)
}

func TestCompiledComponent_SpecialLocations(t *testing.T) {
	c := domain.Component{
		Name:         "Special",
		Declarations: domain.NewDeclarations("x"),
		Locations: []domain.Location{
			{ID: "A", Type: domain.LocationInitial},
			{ID: "U", Type: domain.LocationUniversal},
			{ID: "I", Type: domain.LocationInconsistent},
		},
		Edges: []domain.Edge{
			{Source: "A", Target: "U", Sync: "in", Type: domain.SyncInput},
			{Source: "A", Target: "I", Sync: "out", Type: domain.SyncOutput},
		},
	}
	sys, err := system.CompileComponent(&c, c.Declarations.Relocate(1), 2)
	require.NoError(t, err)

	u := location(t, sys, "U")
	assert.Len(t, sys.NextTransitions(u, "in"), 1)
	assert.Len(t, sys.NextTransitions(u, "out"), 1)

	i := location(t, sys, "I")
	assert.Len(t, sys.NextTransitions(i, "in"), 1)
	assert.Empty(t, sys.NextTransitions(i, "out"))
}
