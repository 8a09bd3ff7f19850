package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractVerdict(id string) *domain.Verdict {
	return &domain.Verdict{
		ID:        id,
		Query:     "refinement: Administration <= Spec",
		Kind:      domain.QueryRefinement,
		Satisfied: false,
		Failure:   "no transition in Spec matches output patent",
		Reason:    "EmptyTransition2s",
		Path:      [][]string{{"E0", "E3"}},
		States:    12,
		Duration:  1500 * time.Microsecond,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RunVerdictStoreContract runs a suite of tests to verify that a VerdictStore implementation
// adheres to the defined interface contract.
func RunVerdictStoreContract(t *testing.T, store VerdictStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		v := contractVerdict("v-1")

		err := store.Save(ctx, key, v)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, v.ID, loaded.ID)
		assert.Equal(t, v.Query, loaded.Query)
		assert.Equal(t, v.Kind, loaded.Kind)
		assert.Equal(t, v.Satisfied, loaded.Satisfied)
		assert.Equal(t, v.Reason, loaded.Reason)
		assert.Equal(t, v.Path, loaded.Path)
		assert.Equal(t, v.States, loaded.States)
		assert.True(t, v.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded.Satisfied = true
		loaded.Path[0][0] = "mutated"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, again.Satisfied)
		assert.Equal(t, "E0", again.Path[0][0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrVerdictNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrVerdictNotFound, "Load after Delete should return ErrVerdictNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		_ = store.Save(ctx, k1, contractVerdict("v-2"))
		_ = store.Save(ctx, k2, contractVerdict("v-3"))

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
