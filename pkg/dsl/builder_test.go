package dsl

import (
	"testing"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Machine(t *testing.T) {
	b := New()

	m := b.Component("Machine").Clocks("y")
	m.Location("L5").Initial().
		Input("coin", "L4").Update("y=0")
	m.Location("L5").
		Output("tea", "L5").Guard("y>=2")
	m.Location("L4").Invariant("y<=6").
		Output("cof", "L5").Guard("y>=4").ID("brew")

	loader, err := b.Build()
	require.NoError(t, err)

	raw, err := loader.GetComponent("Machine")
	require.NoError(t, err)
	c, err := domain.DecodeComponent(raw)
	require.NoError(t, err)

	assert.Equal(t, "Machine", c.Name)
	assert.Equal(t, map[string]int{"y": 0}, c.Declarations.Clocks)
	require.Len(t, c.Locations, 2)
	assert.Equal(t, domain.LocationInitial, c.Locations[0].Type)
	assert.Equal(t, "y<=6", c.Locations[1].Invariant)
	require.Len(t, c.Edges, 3)
	assert.Equal(t, domain.Edge{Source: "L5", Target: "L4", Sync: "coin", Type: domain.SyncInput, Update: "y=0"}, c.Edges[0])
	assert.Equal(t, "brew", c.EdgeID(2))
	assert.NoError(t, c.Validate())
}

func TestBuilder_ReusesComponents(t *testing.T) {
	b := New()
	b.Component("A").Clocks("x").Const("k", 3)
	b.Component("A").Location("L0").Universal()
	b.Component("B").Location("L0").Inconsistent().Initial()

	comps := b.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, "A", comps[0].Name)
	assert.Equal(t, 3, comps[0].Declarations.Ints["k"])
	assert.Equal(t, domain.LocationUniversal, comps[0].Locations[0].Type)
	assert.Equal(t, domain.LocationInitial, comps[1].Locations[0].Type)

	names, err := func() ([]string, error) {
		l, err := b.Build()
		if err != nil {
			return nil, err
		}
		return l.ListComponents()
	}()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}
