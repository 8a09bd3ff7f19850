package testutils

import (
	"testing"

	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/dsl"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/require"
)

// University builds the coffee machine, researcher, administration and
// specification components of the university example. Adm2 is a faulty
// administration that may file a patent without a grant.
func University() *dsl.Builder {
	b := dsl.New()

	m := b.Component("Machine").Clocks("y")
	m.Location("L5").Initial().Input("coin", "L4").Update("y=0")
	m.Location("L5").Output("tea", "L5").Guard("y>=2")
	m.Location("L4").Invariant("y<=6").Output("cof", "L5").Guard("y>=4")
	m.Location("L4").Output("tea", "L5")

	r := b.Component("Researcher").Clocks("x")
	r.Location("L6").Initial().Input("cof", "L7").Update("x=0")
	r.Location("L6").Input("tea", "L8").Guard("x>15").Update("x=0")
	r.Location("L6").Input("tea", "L9").Guard("x<=15")
	r.Location("L7").Invariant("x<=4").Output("pub", "L6").Guard("x>=2").Update("x=0")
	r.Location("L8").Invariant("x<=8").Output("pub", "L6").Guard("x>=4").Update("x=0")
	r.Location("L9")

	administration(b, "Administration", false)
	administration(b, "Adm2", true)

	s := b.Component("Spec").Clocks("u")
	s.Location("L10").Initial().Input("grant", "L11").Update("u=0")
	s.Location("L11").Output("patent", "L10")

	return b
}

func administration(b *dsl.Builder, name string, faulty bool) {
	a := b.Component(name).Clocks("z")
	a.Location("L0").Initial().Input("grant", "L1").Update("z=0")
	a.Location("L1").Invariant("z<=2").Output("coin", "L2")
	a.Location("L2").Input("pub", "L3").Update("z=0")
	a.Location("L3").Invariant("z<=2").Output("patent", "L0")
	if faulty {
		a.Location("L0").Input("pub", "L3").Update("z=0")
	}
}

// UniversityComponents returns the university components by name.
func UniversityComponents() map[string]domain.Component {
	out := make(map[string]domain.Component)
	for _, c := range University().Components() {
		out[c.Name] = c
	}
	return out
}

// UniversityLoader returns the university components behind a memory loader.
func UniversityLoader(t *testing.T) *memory.Loader {
	t.Helper()
	loader, err := University().Build()
	require.NoError(t, err)
	return loader
}
