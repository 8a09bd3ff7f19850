package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/zonecheck/internal/presentation/graph"
	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	comps := testutils.UniversityComponents()
	machine := comps["Machine"]

	tests := []struct {
		name      string
		component domain.Component
		overlay   *graph.Overlay
		contains  []string
	}{
		{
			name:      "Location Shapes",
			component: machine,
			contains: []string{
				`L5(("L5"))`,
				`L4("L4<br/>y&lt;=6")`,
			},
		},
		{
			name: "Special Locations",
			component: domain.Component{Name: "Q", Locations: []domain.Location{
				{ID: "univ", Type: domain.LocationUniversal},
				{ID: "inc", Type: domain.LocationInconsistent},
			}},
			contains: []string{
				`univ[["univ"]]`,
				`inc{{"inc"}}`,
			},
		},
		{
			name:      "Edge Labels",
			component: machine,
			contains: []string{
				`L5 -- "coin? / y=0" --> L4`,
				`L4 -. "cof! y&gt;=4" .-> L5`,
				`L4 -. "tea!" .-> L5`,
			},
		},
		{
			name: "ID Sanitization",
			component: domain.Component{Name: "S", Locations: []domain.Location{
				{ID: "idle-state", Type: domain.LocationInitial},
			}},
			contains: []string{`idle_state(("idle-state"))`},
		},
		{
			name:      "Overlay",
			component: machine,
			overlay:   &graph.Overlay{Visited: []string{"L5", "L5"}, Current: "L4"},
			contains: []string{
				"class L5 visited;",
				"class L4 current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(&tt.component, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			if tt.overlay != nil && strings.Count(got, "visited;") != 1 {
				t.Errorf("visited locations should be styled once:\n%v", got)
			}
		})
	}
}
