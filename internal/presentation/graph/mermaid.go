package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Overlay marks locations to highlight on the graph, e.g. a witness path.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a component automaton.
// It applies semantic styling:
// - Initial: ((Circle))
// - Universal: [[Subroutine]]
// - Inconsistent: {{Hexagon}}
// - Default: (Rounded)
// Inputs are solid arrows labelled "action?", outputs dotted arrows
// labelled "action!". Guards and updates follow the action.
func GenerateMermaid(c *domain.Component, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	for _, l := range c.Locations {
		safeID := sanitizeMermaidID(l.ID)

		opener, closer := "(", ")"
		switch l.Type {
		case domain.LocationInitial:
			opener, closer = "((", "))"
		case domain.LocationUniversal:
			opener, closer = "[[", "]]"
		case domain.LocationInconsistent:
			opener, closer = "{{", "}}"
		}

		text := l.ID
		if l.Invariant != "" {
			text = fmt.Sprintf("%s<br/>%s", l.ID, escape(l.Invariant))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, text, closer)
	}

	for _, e := range c.Edges {
		label := e.Sync + "?"
		if e.Type == domain.SyncOutput {
			label = e.Sync + "!"
		}
		if e.Guard != "" {
			label += " " + escape(e.Guard)
		}
		if e.Update != "" {
			label += " / " + escape(e.Update)
		}

		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if e.Type == domain.SyncOutput {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

// escape keeps expressions from closing Mermaid labels or opening tags.
func escape(expr string) string {
	r := strings.NewReplacer(`"`, "'", "<", "&lt;", ">", "&gt;")
	return r.Replace(expr)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
