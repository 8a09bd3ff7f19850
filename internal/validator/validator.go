package validator

import (
	"fmt"
	"sort"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Lint reports problems of c that compile accepts but that usually point
// at a modelling mistake. It assumes c.Validate() passed.
func Lint(c *domain.Component) []string {
	var warnings []string

	initial, ok := c.InitialLocation()
	if !ok {
		return []string{fmt.Sprintf("%s has no initial location", c.Name)}
	}

	// Crawl the edge graph from the initial location.
	next := make(map[string][]string)
	for _, e := range c.Edges {
		next[e.Source] = append(next[e.Source], e.Target)
	}
	visited := map[string]bool{}
	queue := []string{initial.ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, target := range next[current] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	var unreachable []string
	for _, l := range c.Locations {
		if !visited[l.ID] {
			unreachable = append(unreachable, l.ID)
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		warnings = append(warnings, fmt.Sprintf("location %s is unreachable from %s", id, initial.ID))
	}

	if len(c.Edges) > 0 && len(c.InputActions()) == 0 {
		warnings = append(warnings, fmt.Sprintf("%s has no inputs", c.Name))
	}
	return warnings
}
