package query_test

import (
	"strings"
	"testing"

	"github.com/aretw0/zonecheck/internal/query"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSystem_Precedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Machine", "Machine"},
		{"A || B && C", "((A || B) && C)"},
		{`A && B \\ C || D`, `((A && B) \\ (C || D))`},
		{"Spec // Researcher // Machine", `((Spec \\ Researcher) \\ Machine)`},
		{`Spec \ (Researcher || Machine)`, `(Spec \\ (Researcher || Machine))`},
		{"  ( ( A ) )  ", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := query.ParseSystem(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParseSystem_Errors(t *testing.T) {
	for _, src := range []string{"", "A ||", "(A || B", "A B", "A | B", "_", "A || )"} {
		t.Run(src, func(t *testing.T) {
			_, err := query.ParseSystem(src)
			assert.ErrorIs(t, err, domain.ErrInvalidQuery)
		})
	}
}

func TestParse(t *testing.T) {
	q, err := query.Parse(`refinement: Administration <= (Spec \\ Researcher) \\ Machine`)
	require.NoError(t, err)
	assert.Equal(t, domain.QueryRefinement, q.Kind)
	assert.Equal(t, "Administration", q.Left.String())
	assert.Equal(t, []string{"Administration", "Machine", "Researcher", "Spec"}, q.Components())

	q, err = query.Parse("Consistency: Machine || Machine")
	require.NoError(t, err)
	assert.Equal(t, domain.QueryConsistency, q.Kind)
	assert.Equal(t, []string{"Machine"}, q.Components())
	assert.Equal(t, "consistency: (Machine || Machine)", q.String())

	q, err = query.Parse("reachability: Machine || Researcher -> [L5, L6](); [L4, _](Machine.y <= 3 && (x > 1))")
	require.NoError(t, err)
	assert.Equal(t, []string{"L5", "L6"}, q.Start.Locations)
	assert.Empty(t, q.Start.Constraint)
	assert.Equal(t, []string{"L4", "_"}, q.End.Locations)
	assert.Equal(t, "Machine.y <= 3 && (x > 1)", q.End.Constraint)

	again, err := query.Parse(q.String())
	require.NoError(t, err)
	assert.Equal(t, q.String(), again.String())
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{
		"Machine",
		"liveness: Machine",
		"refinement: Machine",
		"refinement: Machine <= ",
		"reachability: Machine [L5](); [L4]()",
		"reachability: Machine -> [L5](); [L4]",
		"reachability: Machine -> [L5]() [L4]()",
		"reachability: Machine -> [L5](); [L4](); [L5]()",
		"reachability: Machine -> [L5, ](); [L4]()",
		"reachability: Machine -> [L5]((y > 1); [L4]()",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := query.Parse(src)
			assert.ErrorIs(t, err, domain.ErrInvalidQuery)
		})
	}
}

func TestParseAll(t *testing.T) {
	src := `
# university
refinement: Administration <= Spec \\ Researcher \\ Machine

consistency: Machine
`
	qs, err := query.ParseAll(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, domain.QueryConsistency, qs[1].Kind)

	_, err = query.ParseAll(strings.NewReader("consistency: Machine\nbogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
