package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/zonecheck/pkg/domain"
)

// Loader implements ports.ComponentLoader using an in-memory map.
type Loader struct {
	components map[string][]byte
}

// NewLoader creates a new Loader with the provided raw data (JSON or YAML strings).
func NewLoader(data map[string]string) *Loader {
	components := make(map[string][]byte)
	for k, v := range data {
		components[k] = []byte(v)
	}
	return &Loader{
		components: components,
	}
}

// NewFromComponents creates a new Loader from domain objects.
// This handles serialization automatically, improving DX for tests.
func NewFromComponents(components ...domain.Component) (*Loader, error) {
	data := make(map[string][]byte)
	for _, c := range components {
		if c.Name == "" {
			return nil, fmt.Errorf("component missing name")
		}
		bytes, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal component %s: %w", c.Name, err)
		}
		data[c.Name] = bytes
	}
	return &Loader{components: data}, nil
}

// GetComponent retrieves the raw definition of a component by name.
func (l *Loader) GetComponent(name string) ([]byte, error) {
	content, ok := l.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, name)
	}
	return content, nil
}

// ListComponents returns all available component names.
func (l *Loader) ListComponents() ([]string, error) {
	keys := make([]string, 0, len(l.components))
	for k := range l.components {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
