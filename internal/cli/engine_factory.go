package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/internal/config"
	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/adapters/redis"
	"github.com/aretw0/zonecheck/pkg/adapters/sqlite"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/observability"
	"github.com/aretw0/zonecheck/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Stack is an engine together with the resources it was built on.
type Stack struct {
	Engine  *zonecheck.Engine
	Metrics *observability.Metrics
	closers []func() error
}

// Close releases the verdict store.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewStack initializes an engine with the settings of cfg.
func NewStack(cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	s := &Stack{Metrics: observability.NewMetrics(prometheus.NewRegistry())}

	opts := []zonecheck.Option{
		zonecheck.WithLogger(logger),
		zonecheck.WithLifecycleHooks(observability.Merge(s.Metrics.Hooks(), createDebugHooks(logger))),
		zonecheck.WithInclude(cfg.Components.Include...),
		zonecheck.WithExclude(cfg.Components.Exclude...),
	}
	if cfg.Checks.Workers > 0 {
		opts = append(opts, zonecheck.WithWorkers(cfg.Checks.Workers))
	}

	store, locker, err := s.createStore(cfg.Cache)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	opts = append(opts, zonecheck.WithStore(store))
	if locker != nil {
		opts = append(opts, zonecheck.WithLocker(locker, zonecheck.DefaultLockTTL))
	}

	eng, err := zonecheck.New(cfg.Components.Dir, opts...)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	s.Engine = eng
	return s, nil
}

func (s *Stack) createStore(cfg config.CacheConfig) (ports.VerdictStore, ports.DistributedLocker, error) {
	switch cfg.Backend {
	case "redis":
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, opts...)
		s.closers = append(s.closers, store.Close)
		if err := store.Client().Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Address, err)
		}
		if !cfg.Redis.Lock {
			return store, nil, nil
		}
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		return store, redis.NewLocker(store.Client(), prefix), nil

	case "sqlite":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, store.Close)
		return store, nil, nil
	}
	return memory.NewStore(), nil, nil
}

// createDebugHooks logs each check at debug level.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCheckStart: func(ctx context.Context, e *domain.CheckEvent) {
			logger.Debug("Check Start", "query", e.Query, "verdict_id", e.VerdictID)
		},
		OnCheckFinish: func(ctx context.Context, e *domain.CheckEvent) {
			if e.Err != nil {
				logger.Debug("Check Failed", "query", e.Query, "err", e.Err)
				return
			}
			logger.Debug("Check Finish", "query", e.Query, "satisfied", e.Verdict.Satisfied, "duration", e.Duration)
		},
		OnCacheHit: func(ctx context.Context, e *domain.CheckEvent) {
			logger.Debug("Cache Hit", "query", e.Query, "verdict_id", e.VerdictID)
		},
	}
}
