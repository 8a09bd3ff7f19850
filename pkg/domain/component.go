package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// LocationType tags special locations.
type LocationType string

const (
	LocationNormal       LocationType = "NORMAL"
	LocationInitial      LocationType = "INITIAL"
	LocationUniversal    LocationType = "UNIVERSAL"
	LocationInconsistent LocationType = "INCONSISTENT"
)

// SyncType is the direction of an edge's action.
type SyncType string

const (
	SyncInput  SyncType = "INPUT"
	SyncOutput SyncType = "OUTPUT"
)

// Location is a control point of a component.
type Location struct {
	ID        string       `json:"id" yaml:"id"`
	Invariant string       `json:"invariant,omitempty" yaml:"invariant,omitempty"`
	Type      LocationType `json:"type,omitempty" yaml:"type,omitempty"`
}

// IsInitial reports whether the location is marked initial.
func (l Location) IsInitial() bool { return l.Type == LocationInitial }

// Edge is a synchronising transition between two locations.
type Edge struct {
	ID     string   `json:"id,omitempty" yaml:"id,omitempty"`
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Sync   string   `json:"sync" yaml:"sync"`
	Type   SyncType `json:"type" yaml:"type"`
	Guard  string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	Update string   `json:"update,omitempty" yaml:"update,omitempty"`
}

// Component is a timed I/O automaton.
type Component struct {
	Name         string       `json:"name" yaml:"name"`
	Declarations Declarations `json:"declarations" yaml:"declarations"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Locations    []Location   `json:"locations" yaml:"locations"`
	Edges        []Edge       `json:"edges" yaml:"edges"`
}

// InputActions returns the sorted, duplicate-free input action names.
func (c *Component) InputActions() []string {
	return c.actions(SyncInput)
}

// OutputActions returns the sorted, duplicate-free output action names.
func (c *Component) OutputActions() []string {
	return c.actions(SyncOutput)
}

func (c *Component) actions(kind SyncType) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.Edges {
		if e.Type == kind && !seen[e.Sync] {
			seen[e.Sync] = true
			out = append(out, e.Sync)
		}
	}
	sort.Strings(out)
	return out
}

// Location returns the location with the given id.
func (c *Component) Location(id string) (Location, bool) {
	for _, l := range c.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// InitialLocation returns the location marked initial, if any.
func (c *Component) InitialLocation() (Location, bool) {
	for _, l := range c.Locations {
		if l.IsInitial() {
			return l, true
		}
	}
	return Location{}, false
}

// EdgeID returns the identifier of the i-th edge, deriving one when the
// definition left it blank.
func (c *Component) EdgeID(i int) string {
	if id := c.Edges[i].ID; id != "" {
		return id
	}
	return fmt.Sprintf("E%d", i)
}

// Validate checks referential integrity of locations and edges.
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidComponent)
	}
	ids := make(map[string]bool, len(c.Locations))
	initial := 0
	for _, l := range c.Locations {
		if l.ID == "" {
			return fmt.Errorf("%w: %s has a location without id", ErrInvalidComponent, c.Name)
		}
		if ids[l.ID] {
			return fmt.Errorf("%w: %s declares location %s twice", ErrInvalidComponent, c.Name, l.ID)
		}
		ids[l.ID] = true
		switch l.Type {
		case LocationInitial:
			initial++
		case "", LocationNormal, LocationUniversal, LocationInconsistent:
		default:
			return fmt.Errorf("%w: %s location %s has unknown type %q", ErrInvalidComponent, c.Name, l.ID, l.Type)
		}
	}
	if initial > 1 {
		return fmt.Errorf("%w: %s has %d initial locations", ErrInvalidComponent, c.Name, initial)
	}
	for i, e := range c.Edges {
		if !ids[e.Source] {
			return fmt.Errorf("%w: %s edge %s: %s %q", ErrInvalidComponent, c.Name, c.EdgeID(i), ErrUnknownLocation, e.Source)
		}
		if !ids[e.Target] {
			return fmt.Errorf("%w: %s edge %s: %s %q", ErrInvalidComponent, c.Name, c.EdgeID(i), ErrUnknownLocation, e.Target)
		}
		if e.Sync == "" {
			return fmt.Errorf("%w: %s edge %s has no action", ErrInvalidComponent, c.Name, c.EdgeID(i))
		}
		if e.Type != SyncInput && e.Type != SyncOutput {
			return fmt.Errorf("%w: %s edge %s has unknown type %q", ErrInvalidComponent, c.Name, c.EdgeID(i), e.Type)
		}
	}
	return nil
}

// DecodeComponent reads a component definition in JSON or YAML.
func DecodeComponent(data []byte) (*Component, error) {
	var c Component
	trimmed := bytes.TrimSpace(data)
	var err error
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &c)
	} else {
		err = yaml.Unmarshal(trimmed, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidComponent, err)
	}
	if c.Declarations.Clocks == nil {
		c.Declarations = NewDeclarations()
	}
	return &c, nil
}
