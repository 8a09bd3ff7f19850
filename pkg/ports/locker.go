package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes work on a verdict key across engine replicas
// that share a VerdictStore, so a query is only checked by one of them.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx ends. The lock lapses after ttl
	// if its holder dies before calling the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
