package dsl

import "github.com/aretw0/zonecheck/pkg/domain"

// ComponentBuilder provides a fluent API for configuring a component.
type ComponentBuilder struct {
	comp      domain.Component
	locations map[string]int
}

// Clocks declares clocks in order.
func (c *ComponentBuilder) Clocks(names ...string) *ComponentBuilder {
	for _, n := range names {
		if _, ok := c.comp.Declarations.Clocks[n]; !ok {
			c.comp.Declarations.Clocks[n] = len(c.comp.Declarations.Clocks)
		}
	}
	return c
}

// Const declares an integer constant usable in guards and invariants.
func (c *ComponentBuilder) Const(name string, value int) *ComponentBuilder {
	c.comp.Declarations.Ints[name] = value
	return c
}

// Describe sets the free-form description of the component.
func (c *ComponentBuilder) Describe(text string) *ComponentBuilder {
	c.comp.Description = text
	return c
}

// Location returns the builder of the named location, declaring it on first
// use.
func (c *ComponentBuilder) Location(id string) *LocationBuilder {
	idx, ok := c.locations[id]
	if !ok {
		idx = len(c.comp.Locations)
		c.comp.Locations = append(c.comp.Locations, domain.Location{ID: id, Type: domain.LocationNormal})
		c.locations[id] = idx
	}
	return &LocationBuilder{c: c, idx: idx}
}

// Build returns a copy of the underlying domain.Component.
func (c *ComponentBuilder) Build() domain.Component {
	out := c.comp
	out.Declarations = c.comp.Declarations.Relocate(0)
	out.Locations = append([]domain.Location(nil), c.comp.Locations...)
	out.Edges = append([]domain.Edge(nil), c.comp.Edges...)
	return out
}

// LocationBuilder configures one location and the edges leaving it.
type LocationBuilder struct {
	c   *ComponentBuilder
	idx int
}

func (l *LocationBuilder) loc() *domain.Location { return &l.c.comp.Locations[l.idx] }

// Initial marks the location as the initial one.
func (l *LocationBuilder) Initial() *LocationBuilder {
	l.loc().Type = domain.LocationInitial
	return l
}

// Universal marks the location as accepting everything.
func (l *LocationBuilder) Universal() *LocationBuilder {
	l.loc().Type = domain.LocationUniversal
	return l
}

// Inconsistent marks the location as an error location.
func (l *LocationBuilder) Inconsistent() *LocationBuilder {
	l.loc().Type = domain.LocationInconsistent
	return l
}

// Invariant sets the clock constraint that must hold while staying.
func (l *LocationBuilder) Invariant(expr string) *LocationBuilder {
	l.loc().Invariant = expr
	return l
}

// Input adds an input edge on action to target.
func (l *LocationBuilder) Input(action, target string) *EdgeBuilder {
	return l.edge(action, target, domain.SyncInput)
}

// Output adds an output edge on action to target.
func (l *LocationBuilder) Output(action, target string) *EdgeBuilder {
	return l.edge(action, target, domain.SyncOutput)
}

func (l *LocationBuilder) edge(action, target string, typ domain.SyncType) *EdgeBuilder {
	c := l.c
	c.comp.Edges = append(c.comp.Edges, domain.Edge{
		Source: l.loc().ID,
		Target: target,
		Sync:   action,
		Type:   typ,
	})
	return &EdgeBuilder{c: c, idx: len(c.comp.Edges) - 1}
}

// EdgeBuilder configures one edge.
type EdgeBuilder struct {
	c   *ComponentBuilder
	idx int
}

func (e *EdgeBuilder) edge() *domain.Edge { return &e.c.comp.Edges[e.idx] }

// ID names the edge; unnamed edges get a positional id.
func (e *EdgeBuilder) ID(id string) *EdgeBuilder {
	e.edge().ID = id
	return e
}

// Guard sets the clock constraint enabling the edge.
func (e *EdgeBuilder) Guard(expr string) *EdgeBuilder {
	e.edge().Guard = expr
	return e
}

// Update sets the clock resets, e.g. "x=0, y=0".
func (e *EdgeBuilder) Update(expr string) *EdgeBuilder {
	e.edge().Update = expr
	return e
}
