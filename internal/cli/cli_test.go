package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/zonecheck/internal/config"
	"github.com/aretw0/zonecheck/internal/logging"
	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specJSON = `{
  "declarations": "clock u;",
  "locations": [{"id": "L10", "initial": true}, {"id": "L11"}],
  "edges": [
    {"from": "L10", "to": "L11", "input": "grant", "update": "u = 0"},
    {"from": "L11", "to": "L10", "output": "patent"}
  ]
}`

func project(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := testutils.ComponentDir(t, map[string]string{"Spec.json": specJSON})

	cfg := config.Default()
	cfg.Components.Dir = dir
	cfg.Cache.Backend = backend
	cfg.Cache.SQLite.Path = filepath.Join(t.TempDir(), "verdicts.db")
	return cfg
}

func check(t *testing.T, stack *Stack, query string) *domain.Verdict {
	t.Helper()
	v, err := stack.Engine.Check(context.Background(), query)
	require.NoError(t, err)
	return v
}

func TestNewStack_Memory(t *testing.T) {
	stack, err := NewStack(project(t, "memory"), logging.NewNop())
	require.NoError(t, err)
	defer stack.Close()

	assert.True(t, check(t, stack, "determinism: Spec").Satisfied)
	assert.True(t, check(t, stack, "determinism: Spec").Cached)
}

func TestNewStack_SQLite(t *testing.T) {
	cfg := project(t, "sqlite")

	stack, err := NewStack(cfg, logging.NewNop())
	require.NoError(t, err)
	first := check(t, stack, "consistency: Spec")
	require.NoError(t, stack.Close())

	// A second process finds the archived verdict.
	stack, err = NewStack(cfg, logging.NewNop())
	require.NoError(t, err)
	defer stack.Close()
	again := check(t, stack, "consistency: Spec")
	assert.True(t, again.Cached)
	assert.Equal(t, first.ID, again.ID)
}

func TestNewStack_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := project(t, "redis")
	cfg.Cache.Redis.Address = mr.Addr()
	cfg.Cache.Redis.Lock = true

	stack, err := NewStack(cfg, logging.NewNop())
	require.NoError(t, err)
	defer stack.Close()

	check(t, stack, "consistency: Spec")
	assert.NotEmpty(t, mr.Keys())
}

func TestNewStack_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := project(t, "redis")
	cfg.Cache.Redis.Address = mr.Addr()
	mr.Close()

	_, err := NewStack(cfg, logging.NewNop())
	assert.ErrorContains(t, err, "redis unavailable")
}

func TestRunQueries(t *testing.T) {
	stack, err := NewStack(project(t, "memory"), logging.NewNop())
	require.NoError(t, err)
	defer stack.Close()

	queries := "# spec checks\nconsistency: Spec\nrefinement: Spec <= Spec\n"

	var text bytes.Buffer
	violated, err := RunQueries(context.Background(), stack.Engine, strings.NewReader(queries), RunOptions{Out: &text})
	require.NoError(t, err)
	assert.Zero(t, violated)
	assert.Contains(t, text.String(), "## `consistency: Spec`")
	assert.Contains(t, text.String(), "2 of 2 queries satisfied")

	var out bytes.Buffer
	_, err = RunQueries(context.Background(), stack.Engine, strings.NewReader(queries), RunOptions{Format: "json", Out: &out})
	require.NoError(t, err)
	var verdicts []domain.Verdict
	require.NoError(t, json.Unmarshal(out.Bytes(), &verdicts))
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[1].Cached)

	_, err = RunQueries(context.Background(), stack.Engine, strings.NewReader(queries), RunOptions{Format: "xml", Out: &out})
	assert.Error(t, err)

	_, err = RunQueries(context.Background(), stack.Engine, strings.NewReader("consistency Spec"), RunOptions{Out: &out})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}
