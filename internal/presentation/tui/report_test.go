package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestVerdictMarkdown(t *testing.T) {
	v := &domain.Verdict{
		Query:    "refinement: Adm2 <= ((Spec \\\\ Researcher) \\\\ Machine)",
		Kind:     domain.QueryRefinement,
		Failure:  "no transition matches output patent",
		Reason:   "EmptyTransition2s",
		Location: "(L3, L11)",
		Action:   "patent",
		States:   7,
		Duration: 1500 * time.Microsecond,
		Cached:   true,
	}
	md := VerdictMarkdown(v)
	assert.Contains(t, md, "**violated**")
	assert.Contains(t, md, "`EmptyTransition2s`")
	assert.Contains(t, md, "`(L3, L11)`")
	assert.Contains(t, md, "1.5ms (cached)")
	assert.Contains(t, md, "> no transition matches output patent")
}

func TestVerdictMarkdown_Reachability(t *testing.T) {
	v := &domain.Verdict{
		Query:     "reachability: (Machine || Researcher) -> [L5, L6](); [L4, L9]()",
		Kind:      domain.QueryReachability,
		Satisfied: true,
		Path:      [][]string{{"E0", "E0"}, {"E1", "E2"}},
	}
	md := VerdictMarkdown(v)
	assert.Contains(t, md, "reachable")
	assert.Contains(t, md, "| 2 | E1, E2 |")
}

func TestValidationMarkdown(t *testing.T) {
	md := ValidationMarkdown([]zonecheck.ComponentReport{
		{Name: "Broken", Err: errors.New("invalid component: edge E0 | bad")},
		{
			Name:        "Lamp",
			Warnings:    []string{"location Attic is unreachable from Off"},
			Consistency: &domain.Verdict{Satisfied: true},
			Determinism: &domain.Verdict{Reason: "NotDeterministicFrom"},
		},
	})
	assert.Contains(t, md, `| Broken | - | - | invalid component: edge E0 \| bad |`)
	assert.Contains(t, md, "| Lamp | yes | no (NotDeterministicFrom) | location Attic is unreachable from Off |")
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	assert.False(t, p.Styled())

	assert.NoError(t, p.Markdown("# Report\n"))
	p.Status(false, "1 of 2 queries violated")
	assert.Equal(t, "# Report\n✗ 1 of 2 queries violated\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}
