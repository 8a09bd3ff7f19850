package query_test

import (
	"context"
	"testing"

	"github.com/aretw0/zonecheck/internal/query"
	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/check"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (*domain.Verdict, error) {
	t.Helper()
	q, err := query.Parse(src)
	require.NoError(t, err)
	plan, err := query.Build(q, query.FromLoader(testutils.UniversityLoader(t)))
	if err != nil {
		return nil, err
	}
	return query.Execute(context.Background(), plan, check.WithWorkers(2))
}

func TestExecute_University(t *testing.T) {
	tests := []struct {
		src       string
		satisfied bool
		reason    string
	}{
		{`refinement: Administration <= (Spec \\ Researcher) \\ Machine`, true, ""},
		{`refinement: Adm2 <= (Spec \\ Researcher) \\ Machine`, false, "EmptyTransition2s"},
		{`refinement: Machine <= Researcher`, false, "NotDisjointAndNotSubset"},
		{"consistency: Machine || Researcher || Administration", true, ""},
		{"determinism: Spec // Researcher // Machine", true, ""},
		{"reachability: Machine || Researcher -> [L5, L6](); [L4, L9]()", true, ""},
		{"reachability: Researcher -> [L6](); [L7](x > 5)", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := run(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.satisfied, v.Satisfied, v.Failure)
			assert.Equal(t, tt.reason, v.Reason)
			if !tt.satisfied {
				assert.NotEmpty(t, v.Failure)
			}
		})
	}
}

func TestExecute_ReachabilityPath(t *testing.T) {
	v, err := run(t, "reachability: Machine || Researcher -> [L5, L6](); [L4, L9]()")
	require.NoError(t, err)
	require.True(t, v.Satisfied)
	assert.Equal(t, "(L4 || L9)", v.Location)
	require.Len(t, v.Path, 2)
}

func TestExecute_RefinementFailureLocation(t *testing.T) {
	v, err := run(t, `refinement: Adm2 <= (Spec \\ Researcher) \\ Machine`)
	require.NoError(t, err)
	assert.Equal(t, "patent", v.Action)
	assert.Contains(t, v.Location, "L3")
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"consistency: Ghost", domain.ErrComponentNotFound},
		{"reachability: Researcher -> [U0](); [L7]()", domain.ErrUnknownLocation},
		{"reachability: Researcher -> [L6, L7](); [L7]()", domain.ErrUnknownLocation},
		{"reachability: Researcher -> [L6](); [L7](w > 1)", domain.ErrUnknownClock},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := run(t, tt.src)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromLoader_InvalidComponent(t *testing.T) {
	loader := memory.NewLoader(map[string]string{"Broken": "name: Broken\nlocations: [{id: L0}]\nedges: [{source: L0, target: L1, sync: a, type: INPUT}]"})
	_, err := query.FromLoader(loader)("Broken")
	assert.ErrorIs(t, err, domain.ErrInvalidComponent)
}
