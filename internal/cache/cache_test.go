package cache_test

import (
	"testing"
	"time"

	"github.com/aretw0/zonecheck/internal/cache"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	comps := map[string][]byte{"Machine": []byte("m"), "Spec": []byte("s")}
	k := cache.Key("consistency: Machine", comps)
	assert.Len(t, k, 64)

	same := cache.Key("consistency: Machine", map[string][]byte{"Spec": []byte("s"), "Machine": []byte("m")})
	assert.Equal(t, k, same)

	assert.NotEqual(t, k, cache.Key("determinism: Machine", comps))
	assert.NotEqual(t, k, cache.Key("consistency: Machine", map[string][]byte{"Machine": []byte("m2"), "Spec": []byte("s")}))
	// Field boundaries are part of the key.
	assert.NotEqual(t,
		cache.Key("q", map[string][]byte{"ab": []byte("c")}),
		cache.Key("q", map[string][]byte{"a": []byte("bc")}))
}

func TestDigest(t *testing.T) {
	assert.Equal(t, cache.Digest([]byte("x")), cache.Digest([]byte("x")))
	assert.NotEqual(t, cache.Digest([]byte("x")), cache.Digest([]byte("y")))
}

func TestCodec(t *testing.T) {
	v := &domain.Verdict{
		ID:        "id-1",
		Query:     "reachability: (Machine || Researcher) -> [L5, L6](); [L4, L9]()",
		Kind:      domain.QueryReachability,
		Satisfied: true,
		Path:      [][]string{{"E0", "E3"}, {"E2"}},
		States:    12,
		Duration:  3 * time.Millisecond,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	payload, err := cache.Encode(v)
	require.NoError(t, err)
	got, err := cache.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = cache.Decode([]byte("not zstd"))
	assert.Error(t, err)
}
