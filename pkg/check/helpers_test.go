package check_test

import (
	"testing"

	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/dsl"
	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/stretchr/testify/require"
)

type leafFn = func(string) system.SystemRecipe

// compileAll builds recipes over the components of b with one shared clock
// allocator and compiles them with the final dimension.
func compileAll(t *testing.T, b *dsl.Builder, build func(leaf leafFn, alloc *system.ClockAllocator) []system.SystemRecipe) []system.TransitionSystem {
	t.Helper()
	comps := make(map[string]domain.Component)
	for _, c := range b.Components() {
		comps[c.Name] = c
	}
	alloc := system.NewClockAllocator()
	leaf := func(name string) system.SystemRecipe {
		c, ok := comps[name]
		require.True(t, ok, "unknown fixture %s", name)
		return system.NewComponentRecipe(&c, alloc)
	}
	recipes := build(leaf, alloc)
	out := make([]system.TransitionSystem, 0, len(recipes))
	for _, r := range recipes {
		sys, err := r.Compile(alloc.Dim())
		require.NoError(t, err)
		out = append(out, sys)
	}
	return out
}

func compileUniversity(t *testing.T, build func(leaf leafFn, alloc *system.ClockAllocator) []system.SystemRecipe) []system.TransitionSystem {
	t.Helper()
	return compileAll(t, testutils.University(), build)
}

// researcherQuotient is the part of Spec left to implement once Researcher
// and Machine are given.
func researcherQuotient(leaf leafFn, alloc *system.ClockAllocator) system.SystemRecipe {
	inner := system.NewQuotientRecipe(leaf("Spec"), leaf("Researcher"), alloc)
	return system.NewQuotientRecipe(inner, leaf("Machine"), alloc)
}

// toys declares small components over the actions a (input) and b (output).
func toys() *dsl.Builder {
	b := dsl.New()

	ok := b.Component("Plain")
	ok.Location("L0").Initial().Input("a", "L0")
	ok.Location("L0").Output("b", "L0")

	allIn := b.Component("AllInputs")
	allIn.Location("L0").Initial().Input("a", "L0")
	allIn.Location("L0").Input("b", "L0")

	onlyOut := b.Component("OnlyOutputs")
	onlyOut.Location("L0").Initial().Output("b", "L0")

	empty := b.Component("Late").Clocks("x")
	empty.Location("L0").Initial().Invariant("x>=1").Input("a", "L0")
	empty.Location("L0").Output("b", "L0")

	stuck := b.Component("Stuck").Clocks("x")
	stuck.Location("L0").Initial().Invariant("x<=5").Input("a", "L0")
	stuck.Location("L0").Output("b", "L1").Guard("x>10")
	stuck.Location("L1")

	choice := b.Component("Choice")
	choice.Location("L0").Initial().Input("a", "L0")
	choice.Location("L0").Output("b", "L0")
	choice.Location("L0").Output("b", "L1")
	choice.Location("L1")

	lazy := b.Component("Lazy").Clocks("x")
	lazy.Location("L0").Initial().Output("b", "L0").Guard("x>=1")

	deadline := b.Component("Deadline").Clocks("x")
	deadline.Location("L0").Initial().Invariant("x<=5").Output("b", "L0").Guard("x>=1")

	slow := b.Component("Slow").Clocks("x")
	slow.Location("L0").Initial().Output("b", "L0").Guard("x>=3")

	noInit := b.Component("NoInitial")
	noInit.Location("L0").Input("a", "L0")
	noInit.Location("L0").Output("b", "L0")

	return b
}

func compileToys(t *testing.T, names ...string) []system.TransitionSystem {
	t.Helper()
	return compileAll(t, toys(), func(leaf leafFn, _ *system.ClockAllocator) []system.SystemRecipe {
		out := make([]system.SystemRecipe, len(names))
		for i, n := range names {
			out[i] = leaf(n)
		}
		return out
	})
}
