package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/ports"
)

// ComponentLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ComponentLoader.
// setupData maps component names to the component each definition must decode to.
func ComponentLoaderContractTest(t *testing.T, loader ports.ComponentLoader, setupData map[string]domain.Component) {
	t.Helper()

	t.Run("GetComponent_Success", func(t *testing.T) {
		for name, want := range setupData {
			raw, err := loader.GetComponent(name)
			if err != nil {
				t.Fatalf("unexpected error getting component %s: %v", name, err)
			}
			got, err := domain.DecodeComponent(raw)
			if err != nil {
				t.Fatalf("component %s does not decode: %v", name, err)
			}
			if got.Name != want.Name {
				t.Errorf("name mismatch for %s. got %q, want %q", name, got.Name, want.Name)
			}
			if len(got.Locations) != len(want.Locations) || len(got.Edges) != len(want.Edges) {
				t.Errorf("shape mismatch for %s. got %d locations/%d edges, want %d/%d",
					name, len(got.Locations), len(got.Edges), len(want.Locations), len(want.Edges))
			}
		}
	})

	t.Run("GetComponent_NotFound", func(t *testing.T) {
		_, err := loader.GetComponent("non-existent-component")
		if !errors.Is(err, domain.ErrComponentNotFound) {
			t.Errorf("expected ErrComponentNotFound, got %v", err)
		}
	})

	t.Run("ListComponents", func(t *testing.T) {
		names, err := loader.ListComponents()
		if err != nil {
			t.Fatalf("unexpected error listing components: %v", err)
		}

		if len(names) != len(setupData) {
			t.Errorf("expected %d components, got %d", len(setupData), len(names))
		}

		lookup := make(map[string]bool)
		for _, n := range names {
			lookup[n] = true
		}

		for n := range setupData {
			if !lookup[n] {
				t.Errorf("component %s missing from list", n)
			}
		}
	})
}
