package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/pkg/domain"
)

// VerdictMarkdown describes a verdict as a markdown section.
func VerdictMarkdown(v *domain.Verdict) string {
	var sb strings.Builder

	outcome := "satisfied"
	if !v.Satisfied {
		outcome = "**violated**"
	}
	if v.Kind == domain.QueryReachability {
		outcome = "reachable"
		if !v.Satisfied {
			outcome = "**not reachable**"
		}
	}

	fmt.Fprintf(&sb, "## `%s`\n\n", v.Query)
	fmt.Fprintf(&sb, "- Outcome: %s\n", outcome)
	if v.Reason != "" {
		fmt.Fprintf(&sb, "- Reason: `%s`\n", v.Reason)
	}
	if v.Location != "" {
		fmt.Fprintf(&sb, "- Location: `%s`\n", v.Location)
	}
	if v.Action != "" {
		fmt.Fprintf(&sb, "- Action: `%s`\n", v.Action)
	}
	fmt.Fprintf(&sb, "- States explored: %d\n", v.States)
	cached := ""
	if v.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(&sb, "- Time: %s%s\n", v.Duration.Round(time.Microsecond), cached)

	if len(v.Path) > 0 {
		sb.WriteString("\n| Step | Edges |\n|---|---|\n")
		for i, step := range v.Path {
			fmt.Fprintf(&sb, "| %d | %s |\n", i+1, strings.Join(step, ", "))
		}
	}
	if v.Failure != "" && v.Kind != domain.QueryReachability {
		fmt.Fprintf(&sb, "\n> %s\n", v.Failure)
	}
	sb.WriteString("\n")
	return sb.String()
}

// ValidationMarkdown summarizes component reports as a table.
func ValidationMarkdown(reports []zonecheck.ComponentReport) string {
	var sb strings.Builder
	sb.WriteString("| Component | Consistent | Deterministic | Notes |\n|---|---|---|---|\n")
	for _, r := range reports {
		notes := append([]string(nil), r.Warnings...)
		if r.Err != nil {
			notes = append([]string{r.Err.Error()}, notes...)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			r.Name, mark(r.Consistency), mark(r.Determinism), strings.ReplaceAll(strings.Join(notes, "; "), "|", `\|`))
	}
	return sb.String()
}

func mark(v *domain.Verdict) string {
	switch {
	case v == nil:
		return "-"
	case v.Satisfied:
		return "yes"
	}
	return "no (" + v.Reason + ")"
}
