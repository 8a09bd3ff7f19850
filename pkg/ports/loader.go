package ports

import "context"

// ComponentLoader defines how the engine retrieves component definitions.
// This allows the storage layer (Loam, Memory) to be decoupled.
type ComponentLoader interface {
	// GetComponent retrieves the raw definition of a component by name.
	// It returns the raw bytes (JSON or YAML) or an error wrapping
	// domain.ErrComponentNotFound.
	GetComponent(name string) ([]byte, error)

	// ListComponents returns the names of all available components.
	// This is used for introspection (e.g. 'zonecheck validate').
	ListComponents() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// The engine uses it to drop compiled components and cached verdicts.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying components change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
