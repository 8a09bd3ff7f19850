package zonecheck_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/internal/testutils"
	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/adapters/redis"
	"github.com/aretw0/zonecheck/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quotientQuery = `refinement: Administration <= (Spec \\ Researcher) \\ Machine`

func university(t *testing.T, opts ...zonecheck.Option) *zonecheck.Engine {
	t.Helper()
	opts = append([]zonecheck.Option{zonecheck.WithLoader(testutils.UniversityLoader(t))}, opts...)
	eng, err := zonecheck.New("", opts...)
	require.NoError(t, err)
	return eng
}

func TestNew_RequiresPathOrLoader(t *testing.T) {
	_, err := zonecheck.New("")
	assert.Error(t, err)
}

func TestEngine_Check(t *testing.T) {
	eng := university(t)
	ctx := context.Background()

	v, err := eng.Check(ctx, quotientQuery)
	require.NoError(t, err)
	assert.True(t, v.Satisfied, v.Failure)
	assert.Equal(t, domain.QueryRefinement, v.Kind)
	assert.NotEmpty(t, v.ID)
	assert.False(t, v.CreatedAt.IsZero())
	assert.False(t, v.Cached)

	v, err = eng.Check(ctx, `refinement: Adm2 <= (Spec \\ Researcher) \\ Machine`)
	require.NoError(t, err)
	assert.False(t, v.Satisfied)
	assert.Equal(t, "EmptyTransition2s", v.Reason)
	assert.Equal(t, "patent", v.Action)
}

func TestEngine_Check_Errors(t *testing.T) {
	eng := university(t)
	ctx := context.Background()

	_, err := eng.Check(ctx, "consistency Machine")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = eng.Check(ctx, "consistency: Machine || Ghost")
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)

	// Both operands output tea.
	_, err = eng.Check(ctx, "consistency: Machine || Machine")
	assert.ErrorIs(t, err, domain.ErrOutputsNotDisjoint)
}

func TestEngine_Check_Cached(t *testing.T) {
	var starts, hits atomic.Int32
	eng := university(t, zonecheck.WithLifecycleHooks(domain.LifecycleHooks{
		OnCheckStart: func(context.Context, *domain.CheckEvent) { starts.Add(1) },
		OnCacheHit:   func(context.Context, *domain.CheckEvent) { hits.Add(1) },
	}))
	ctx := context.Background()

	first, err := eng.Check(ctx, "consistency: Machine || Researcher")
	require.NoError(t, err)

	// Whitespace does not change the canonical query.
	second, err := eng.Check(ctx, "consistency:   Machine||Researcher")
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int32(1), starts.Load())
	assert.Equal(t, int32(1), hits.Load())

	keys, err := eng.Store().List(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestEngine_Check_ComponentChangeInvalidates(t *testing.T) {
	comps := testutils.UniversityComponents()
	loader, err := memory.NewFromComponents(comps["Machine"])
	require.NoError(t, err)
	store := memory.NewStore()

	eng, err := zonecheck.New("", zonecheck.WithLoader(loader), zonecheck.WithStore(store))
	require.NoError(t, err)
	_, err = eng.Check(context.Background(), "determinism: Machine")
	require.NoError(t, err)

	changed := comps["Machine"]
	changed.Description = "A slower machine."
	loader, err = memory.NewFromComponents(changed)
	require.NoError(t, err)

	eng, err = zonecheck.New("", zonecheck.WithLoader(loader), zonecheck.WithStore(store))
	require.NoError(t, err)
	v, err := eng.Check(context.Background(), "determinism: Machine")
	require.NoError(t, err)
	assert.False(t, v.Cached)
}

func TestEngine_CheckAll(t *testing.T) {
	eng := university(t)
	src := strings.Join([]string{
		"# university",
		quotientQuery,
		"",
		"determinism: Machine",
		"reachability: Machine || Researcher -> [L5, L6](); [L4, L9]()",
	}, "\n")

	verdicts, err := eng.CheckAll(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, verdicts, 3)
	for _, v := range verdicts {
		assert.True(t, v.Satisfied, v.Query)
	}
	assert.Equal(t, domain.QueryReachability, verdicts[2].Kind)
	assert.Len(t, verdicts[2].Path, 2)
}

func TestEngine_SharedRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var starts atomic.Int32
	hooks := domain.LifecycleHooks{
		OnCheckStart: func(context.Context, *domain.CheckEvent) { starts.Add(1) },
	}
	replica := func() *zonecheck.Engine {
		return university(t,
			zonecheck.WithStore(redis.NewFromClient(client)),
			zonecheck.WithLocker(redis.NewLocker(client, "zonecheck:"), 10*time.Second),
			zonecheck.WithLifecycleHooks(hooks),
		)
	}
	engines := []*zonecheck.Engine{replica(), replica(), replica()}

	var wg sync.WaitGroup
	ids := make([]string, len(engines))
	for i, eng := range engines {
		wg.Add(1)
		go func(i int, eng *zonecheck.Engine) {
			defer wg.Done()
			v, err := eng.Check(context.Background(), quotientQuery)
			if assert.NoError(t, err) {
				ids[i] = v.ID
			}
		}(i, eng)
	}
	wg.Wait()

	assert.Equal(t, int32(1), starts.Load())
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, ids[0], ids[2])
}

const machineMD = `---
declarations: "clock y;"
locations:
  - {id: L5, initial: true}
  - {id: L4, invariant: y <= 6}
edges:
  - {from: L5, to: L4, input: coin, update: y = 0}
  - {from: L5, to: L5, output: tea, guard: y >= 2}
  - {from: L4, to: L5, output: cof, guard: y >= 4}
  - {from: L4, to: L5, output: tea}
---
The coffee machine.`

func TestEngine_Loam(t *testing.T) {
	dir := testutils.ComponentDir(t, map[string]string{
		"Machine.md":  machineMD,
		"Broken.json": `{"name": "Broken", "locations": [{"id": "A"}], "edges": [{"source": "A", "target": "Z", "sync": "a", "type": "INPUT"}]}`,
	})

	eng, err := zonecheck.New(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), eng.Name)

	names, err := eng.Components()
	require.NoError(t, err)
	assert.Equal(t, []string{"Broken", "Machine"}, names)

	c, err := eng.Component("Machine")
	require.NoError(t, err)
	assert.Equal(t, "The coffee machine.", c.Description)

	reports, err := eng.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "Broken", reports[0].Name)
	assert.ErrorIs(t, reports[0].Err, domain.ErrInvalidComponent)
	assert.False(t, reports[0].OK())
	assert.True(t, reports[1].OK(), reports[1].Err)

	v, err := eng.Check(context.Background(), "consistency: Machine")
	require.NoError(t, err)
	assert.True(t, v.Satisfied)

	eng, err = zonecheck.New(dir, zonecheck.WithExclude("Broken*"))
	require.NoError(t, err)
	reports, err = eng.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Machine", reports[0].Name)
}

func TestEngine_Validate_University(t *testing.T) {
	eng := university(t)
	reports, err := eng.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 5)
	for _, r := range reports {
		assert.True(t, r.OK(), "%s: %v", r.Name, r.Err)
		assert.Empty(t, r.Warnings, r.Name)
	}
}

func TestEngine_Compile(t *testing.T) {
	eng := university(t)

	sys, err := eng.Compile(`(Spec \\ Researcher) \\ Machine`)
	require.NoError(t, err)
	assert.Contains(t, sys.OutputActions(), "patent")

	_, err = eng.Compile("Machine ||")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = eng.Compile("Machine || Machine")
	assert.ErrorIs(t, err, domain.ErrOutputsNotDisjoint)
}
