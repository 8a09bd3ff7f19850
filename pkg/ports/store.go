package ports

import (
	"context"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// VerdictStore defines the interface for caching verdicts by content key.
// Keys are derived from the query text and the digests of the components it
// names, so a stored verdict never goes stale.
type VerdictStore interface {
	// Save persists the verdict under key.
	Save(ctx context.Context, key string, verdict *domain.Verdict) error

	// Load retrieves the verdict stored under key.
	// Returns domain.ErrVerdictNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.Verdict, error)

	// Delete removes the verdict stored under key.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}
