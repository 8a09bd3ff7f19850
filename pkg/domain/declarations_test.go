package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDeclarations(t *testing.T) {
	d, err := domain.ParseDeclarations("clock x, y;\nint limit = 20; // deadline\nconst int k = 3;")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"x": 0, "y": 1}, d.Clocks)
	assert.Equal(t, map[string]int{"limit": 20, "k": 3}, d.Ints)
	assert.Equal(t, []string{"x", "y"}, d.ClockNames())

	_, err = domain.ParseDeclarations("clock x, x;")
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)
	_, err = domain.ParseDeclarations("bool b;")
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)
	_, err = domain.ParseDeclarations("int n = abc;")
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)
}

func TestDeclarations_Relocate(t *testing.T) {
	d := domain.NewDeclarations("x", "y")
	d.Ints["k"] = 4

	moved := d.Relocate(3)
	assert.Equal(t, map[string]int{"x": 3, "y": 4}, moved.Clocks)
	assert.Equal(t, 4, moved.Ints["k"])
	// the source is left untouched
	assert.Equal(t, 0, d.Clocks["x"])

	again := moved.Relocate(1)
	assert.Equal(t, map[string]int{"x": 1, "y": 2}, again.Clocks)
}

func TestDeclarations_TextRoundTrip(t *testing.T) {
	d := domain.NewDeclarations("y", "x")
	d.Ints["limit"] = 7
	assert.Equal(t, "clock y, x; int limit = 7;", d.String())

	c := domain.Component{Name: "M", Declarations: d}
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"declarations":"clock y, x; int limit = 7;"`)

	var back domain.Component
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d.Clocks, back.Declarations.Clocks)

	var fromYAML domain.Component
	require.NoError(t, yaml.Unmarshal([]byte("name: M\ndeclarations: \"clock a;\"\n"), &fromYAML))
	assert.Equal(t, map[string]int{"a": 0}, fromYAML.Declarations.Clocks)
}
