package memory_test

import (
	"testing"

	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/domain"
	contract "github.com/aretw0/zonecheck/pkg/ports/tests"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	spec := domain.Component{
		Name:         "Spec",
		Declarations: domain.NewDeclarations("u"),
		Locations:    []domain.Location{{ID: "L10", Type: domain.LocationInitial}, {ID: "L11"}},
		Edges: []domain.Edge{
			{Source: "L10", Target: "L11", Sync: "grant", Type: domain.SyncInput, Update: "u=0"},
			{Source: "L11", Target: "L10", Sync: "patent", Type: domain.SyncOutput},
		},
	}
	empty := domain.Component{Name: "Empty", Declarations: domain.NewDeclarations()}

	loader, err := memory.NewFromComponents(spec, empty)
	require.NoError(t, err)

	contract.ComponentLoaderContractTest(t, loader, map[string]domain.Component{
		"Spec":  spec,
		"Empty": empty,
	})
}

func TestInMemoryLoader_Raw(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"Tiny": "name: Tiny\nlocations:\n  - id: A\n    type: INITIAL\n",
	})

	contract.ComponentLoaderContractTest(t, loader, map[string]domain.Component{
		"Tiny": {Name: "Tiny", Locations: []domain.Location{{ID: "A"}}},
	})
}

func TestNewFromComponents_MissingName(t *testing.T) {
	_, err := memory.NewFromComponents(domain.Component{})
	require.Error(t, err)
}
