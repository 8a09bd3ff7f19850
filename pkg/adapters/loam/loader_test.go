package loam

import (
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const machineMD = `---
declarations: "clock y;"
locations:
  - id: L5
    initial: true
  - id: L4
    invariant: y <= 6
edges:
  - {from: L5, to: L4, input: coin, update: y = 0}
  - {from: L5, to: L5, output: tea, guard: y >= 2}
  - {from: L4, to: L5, output: cof, guard: y >= 4}
  - {from: L4, to: L5, output: tea}
---
The coffee machine.`

const specJSON = `{
  "name": "Spec",
  "declarations": "clock u;",
  "locations": [
    {"id": "L10", "type": "INITIAL"},
    {"id": "L11"}
  ],
  "edges": [
    {"source": "L10", "target": "L11", "sync": "grant", "type": "INPUT", "update": "u = 0"},
    {"source": "L11", "target": "L10", "sync": "patent", "type": "OUTPUT"}
  ]
}`

func seed(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	_, repo := testutils.SetupTestRepo(t, files)
	return New(loam.NewTypedRepository[ComponentMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := seed(t, map[string]string{
		"Machine.md": machineMD,
		"Spec.json":  specJSON,
	})

	comps := testutils.UniversityComponents()
	tests.ComponentLoaderContractTest(t, loader, map[string]domain.Component{
		"Machine": comps["Machine"],
		"Spec":    comps["Spec"],
	})
}

func TestLoader_GetComponent_Shorthand(t *testing.T) {
	loader := seed(t, map[string]string{"Machine.md": machineMD})

	data, err := loader.GetComponent("Machine")
	require.NoError(t, err)
	c, err := domain.DecodeComponent(data)
	require.NoError(t, err)

	assert.Equal(t, "Machine", c.Name)
	assert.Equal(t, "The coffee machine.", c.Description)
	assert.Equal(t, domain.LocationInitial, c.Locations[0].Type)
	assert.Equal(t, domain.LocationNormal, c.Locations[1].Type)
	assert.Equal(t, []string{"coin"}, c.InputActions())
	assert.Equal(t, []string{"cof", "tea"}, c.OutputActions())
	assert.Equal(t, "L4", c.Edges[0].Target)
	clock, ok := c.Declarations.Clock("y")
	require.True(t, ok)
	assert.Equal(t, 0, clock)
	require.NoError(t, c.Validate())
}

func TestLoader_GetComponent_Errors(t *testing.T) {
	loader := seed(t, map[string]string{
		"Renamed.json": `{"name": "Other", "locations": [{"id": "L0", "initial": true}]}`,
		"BadDecl.json": `{"declarations": "clock;", "locations": [{"id": "L0"}]}`,
		"NoID.json":    `{"locations": [{"invariant": "x <= 1"}]}`,
		"BadType.json": `{"locations": [{"id": "L0", "type": "COMMITTED"}]}`,
		"TwoWay.json":  `{"locations": [{"id": "L0"}], "edges": [{"from": "L0", "to": "L0", "input": "a", "output": "b"}]}`,
		"NoSync.json":  `{"locations": [{"id": "L0"}], "edges": [{"from": "L0", "to": "L0"}]}`,
	})

	_, err := loader.GetComponent("Renamed")
	assert.ErrorIs(t, err, domain.ErrInvalidComponent)

	_, err = loader.GetComponent("BadDecl")
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)

	for _, name := range []string{"NoID", "BadType", "TwoWay", "NoSync"} {
		_, err = loader.GetComponent(name)
		assert.ErrorIs(t, err, domain.ErrInvalidComponent, name)
	}
}

func TestLoader_ListComponents_Patterns(t *testing.T) {
	files := map[string]string{
		"Machine.md":        machineMD,
		"Spec.json":         specJSON,
		"DraftSpec.json": `{"locations": [{"id": "L0", "initial": true}]}`,
	}

	all, err := seed(t, files).ListComponents()
	require.NoError(t, err)
	assert.Equal(t, []string{"DraftSpec", "Machine", "Spec"}, all)

	loader := seed(t, files)
	WithExclude("Draft*")(loader)
	names, err := loader.ListComponents()
	require.NoError(t, err)
	assert.Equal(t, []string{"Machine", "Spec"}, names)

	loader = seed(t, files)
	WithInclude("Spec*")(loader)
	names, err = loader.ListComponents()
	require.NoError(t, err)
	assert.Equal(t, []string{"Spec"}, names)
}

func TestLoader_ListComponents_DetectsCollisions(t *testing.T) {
	loader := seed(t, map[string]string{
		"Spec.json": specJSON,
		"Spec.md":   "---\nname: Spec\n---\n",
	})

	_, err := loader.ListComponents()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}
