package zonecheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/zonecheck/internal/cache"
	"github.com/aretw0/zonecheck/internal/query"
	loamAdapter "github.com/aretw0/zonecheck/pkg/adapters/loam"
	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/check"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/aretw0/zonecheck/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a replica may hold the lock of a query.
const DefaultLockTTL = 2 * time.Minute

// Engine is the high-level entry point for the zonecheck library.
// It resolves components, caches verdicts and runs the checkers.
type Engine struct {
	loader     ports.ComponentLoader
	store      ports.VerdictStore
	locker     ports.DistributedLocker
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	workers    int
	lockTTL    time.Duration
	loaderOpts []loamAdapter.Option
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom ComponentLoader, bypassing the default Loam initialization.
func WithLoader(l ports.ComponentLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore sets where verdicts are cached. Defaults to an in-memory store.
func WithStore(s ports.VerdictStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes checks of the same query across replicas.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers sets the worker count of the determinism checker.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithInclude restricts the default loader to files matching the patterns.
func WithInclude(patterns ...string) Option {
	return func(e *Engine) {
		e.loaderOpts = append(e.loaderOpts, loamAdapter.WithInclude(patterns...))
	}
}

// WithExclude hides files matching the patterns from the default loader.
func WithExclude(patterns ...string) Option {
	return func(e *Engine) {
		e.loaderOpts = append(e.loaderOpts, loamAdapter.WithExclude(patterns...))
	}
}

// New initializes a new Engine.
// By default, it reads components from a Loam repository at the given path.
// If WithLoader option is provided, repoPath can be empty and Loam is skipped.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{workers: check.DefaultWorkers(), lockTTL: DefaultLockTTL}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		// Strict keeps numbers as json.Number across adapters. ReadOnly stops
		// Loam from sandboxing: the engine never writes components.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		typedRepo := loam.NewTypedRepository[loamAdapter.ComponentMetadata](repo)
		eng.loader = loamAdapter.New(typedRepo, eng.loaderOpts...)
	} else if repoPath != "" {
		eng.Name = filepath.Base(repoPath)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("repo", eng.Name)
	}
	return eng, nil
}

// Check parses and answers a single query.
func (e *Engine) Check(ctx context.Context, src string) (*domain.Verdict, error) {
	q, err := query.Parse(src)
	if err != nil {
		return nil, err
	}
	return e.CheckQuery(ctx, q)
}

// CheckAll answers every query of a query file, in order. It stops at the
// first query that cannot be answered.
func (e *Engine) CheckAll(ctx context.Context, r io.Reader) ([]*domain.Verdict, error) {
	qs, err := query.ParseAll(r)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Verdict, 0, len(qs))
	for _, q := range qs {
		v, err := e.CheckQuery(ctx, q)
		if err != nil {
			return out, fmt.Errorf("%s: %w", q, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// CheckQuery answers a parsed query, serving it from the store when the
// query and the components it names are unchanged.
func (e *Engine) CheckQuery(ctx context.Context, q *query.Query) (*domain.Verdict, error) {
	snap, err := e.snapshot(q.Components())
	if err != nil {
		return nil, err
	}
	key := cache.Key(q.String(), snap)
	logger := e.logger.With("query", q.String(), "key", key[:12])

	if v, ok := e.cached(ctx, key, logger); ok {
		return v, nil
	}

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, key, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock query: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release query lock", "err", err)
			}
		}()
		// Another replica may have answered while we waited.
		if v, ok := e.cached(ctx, key, logger); ok {
			return v, nil
		}
	}

	event := &domain.CheckEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCheckStart, VerdictID: uuid.NewString()},
		Query:     q.String(),
		Kind:      q.Kind,
	}
	if e.hooks.OnCheckStart != nil {
		e.hooks.OnCheckStart(ctx, event)
	}

	start := time.Now()
	v, err := e.run(ctx, q, snap)
	event.Type, event.Timestamp = domain.EventCheckFinish, time.Now()
	event.Duration, event.Verdict, event.Err = time.Since(start), v, err
	if e.hooks.OnCheckFinish != nil {
		e.hooks.OnCheckFinish(ctx, event)
	}
	if err != nil {
		logger.Error("check failed", "err", err)
		return nil, err
	}

	v.ID, v.CreatedAt, v.Duration = event.VerdictID, start.UTC(), event.Duration
	logger.Info("check finished", "satisfied", v.Satisfied, "states", v.States, "duration", v.Duration)

	if err := e.store.Save(ctx, key, v); err != nil {
		logger.Warn("failed to cache verdict", "err", err)
	}
	return v, nil
}

func (e *Engine) run(ctx context.Context, q *query.Query, snap map[string][]byte) (*domain.Verdict, error) {
	plan, err := query.Build(q, query.FromLoader(snapshot(snap)))
	if err != nil {
		return nil, err
	}
	return query.Execute(ctx, plan,
		check.WithLogger(e.logger),
		check.WithWorkers(e.workers),
	)
}

func (e *Engine) cached(ctx context.Context, key string, logger *slog.Logger) (*domain.Verdict, bool) {
	v, err := e.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrVerdictNotFound) {
			logger.Warn("failed to read cached verdict", "err", err)
		}
		return nil, false
	}
	v.Cached = true
	logger.Debug("verdict served from cache", "id", v.ID)
	if e.hooks.OnCacheHit != nil {
		e.hooks.OnCacheHit(ctx, &domain.CheckEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCacheHit, VerdictID: v.ID},
			Query:     v.Query,
			Kind:      v.Kind,
			Verdict:   v,
		})
	}
	return v, true
}

// snapshot reads every named component once, so the cache key and the
// compiled systems see the same bytes.
func (e *Engine) snapshot(names []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := e.loader.GetComponent(name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}

type snapshot map[string][]byte

func (s snapshot) GetComponent(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, name)
	}
	return data, nil
}

func (s snapshot) ListComponents() ([]string, error) {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	return out, nil
}

// Components lists the names of the available components.
func (e *Engine) Components() ([]string, error) {
	return e.loader.ListComponents()
}

// Component decodes and validates one component.
func (e *Engine) Component(name string) (*domain.Component, error) {
	return query.FromLoader(e.loader)(name)
}

// Watch returns a channel that signals when the underlying components change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying ComponentLoader used by the engine.
func (e *Engine) Loader() ports.ComponentLoader {
	return e.loader
}

// Store returns the verdict store used by the engine.
func (e *Engine) Store() ports.VerdictStore {
	return e.store
}
