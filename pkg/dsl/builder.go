package dsl

import (
	"fmt"

	"github.com/aretw0/zonecheck/pkg/adapters/memory"
	"github.com/aretw0/zonecheck/pkg/domain"
)

// Builder manages the construction of a set of components.
type Builder struct {
	components map[string]*ComponentBuilder
	order      []string
}

// New creates a new component set builder.
func New() *Builder {
	return &Builder{
		components: make(map[string]*ComponentBuilder),
	}
}

// Component starts a new component.
// If the component already exists, it returns the existing builder.
func (b *Builder) Component(name string) *ComponentBuilder {
	if cb, ok := b.components[name]; ok {
		return cb
	}
	cb := &ComponentBuilder{
		comp: domain.Component{
			Name:         name,
			Declarations: domain.NewDeclarations(),
		},
		locations: make(map[string]int),
	}
	b.components[name] = cb
	b.order = append(b.order, name)
	return cb
}

// Components returns the built components in creation order.
func (b *Builder) Components() []domain.Component {
	out := make([]domain.Component, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.components[name].Build())
	}
	return out
}

// Build compiles the component set into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewFromComponents(b.Components()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}

	return loader, nil
}
