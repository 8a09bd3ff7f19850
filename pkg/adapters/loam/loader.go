package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/bmatcuk/doublestar/v4"
)

// Loader adapts the Loam library to the zonecheck ComponentLoader interface.
type Loader struct {
	Repo    *loam.TypedRepository[ComponentMetadata]
	include []string
	exclude []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithInclude restricts listing to documents matching one of the glob
// patterns (doublestar syntax, relative to the repository root).
func WithInclude(patterns ...string) Option {
	return func(l *Loader) {
		l.include = append(l.include, patterns...)
	}
}

// WithExclude hides documents matching one of the glob patterns.
func WithExclude(patterns ...string) Option {
	return func(l *Loader) {
		l.exclude = append(l.exclude, patterns...)
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ComponentMetadata], opts ...Option) *Loader {
	l := &Loader{Repo: repo}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetComponent retrieves a component and returns it as JSON.
// Loam resolves "Machine" to Machine.json, Machine.yaml or Machine.md.
func (l *Loader) GetComponent(name string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrComponentNotFound, name, err)
	}

	comp, err := l.buildComponent(trimExtension(doc.ID), doc.Data, doc.Content)
	if err != nil {
		return nil, err
	}

	bytes, err := json.Marshal(comp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal component %s: %w", name, err)
	}
	return bytes, nil
}

func (l *Loader) buildComponent(id string, meta ComponentMetadata, content string) (*domain.Component, error) {
	name := meta.Name
	if name == "" {
		name = id
	}
	if name != id {
		return nil, fmt.Errorf("%w: document %s declares name %s", domain.ErrInvalidComponent, id, name)
	}

	if err := validate.Struct(meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidComponent, name, err)
	}

	decls, err := domain.ParseDeclarations(meta.Declarations)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", name, err)
	}

	comp := &domain.Component{
		Name:         name,
		Declarations: decls,
		Description:  meta.Description,
		Locations:    make([]domain.Location, 0, len(meta.Locations)),
		Edges:        make([]domain.Edge, 0, len(meta.Edges)),
	}
	if comp.Description == "" {
		comp.Description = strings.TrimSpace(content)
	}
	for _, loc := range meta.Locations {
		comp.Locations = append(comp.Locations, loc.toDomain())
	}
	for _, e := range meta.Edges {
		comp.Edges = append(comp.Edges, e.toDomain())
	}
	return comp, nil
}

// ListComponents lists all components in the repository, sorted.
func (l *Loader) ListComponents() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		path := filepath.ToSlash(doc.ID)
		if !l.selected(path) {
			continue
		}
		name := trimExtension(doc.ID)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: component '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) selected(path string) bool {
	for _, p := range l.exclude {
		if ok, _ := doublestar.Match(p, path); ok {
			return false
		}
	}
	if len(l.include) == 0 {
		return true
	}
	for _, p := range l.include {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}
