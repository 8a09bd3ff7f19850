package loam

import (
	"github.com/aretw0/zonecheck/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// validate checks the shape of component documents before conversion.
var validate = validator.New()

// ComponentMetadata is the header of a component document. It uses
// "mapstructure" tags to match the YAML front matter or JSON keys.
// The document body, if any, becomes the component description.
type ComponentMetadata struct {
	Name string `json:"name" mapstructure:"name"`
	// Declarations uses the textual form, e.g. "clock x, y; int limit = 7;".
	Declarations string           `json:"declarations" mapstructure:"declarations"`
	Description  string           `json:"description" mapstructure:"description"`
	Locations    []LoaderLocation `json:"locations" mapstructure:"locations" validate:"dive"`
	Edges        []LoaderEdge     `json:"edges" mapstructure:"edges" validate:"dive"`
}

// LoaderLocation is a location as written in a component document.
type LoaderLocation struct {
	ID        string `json:"id" mapstructure:"id" validate:"required"`
	Invariant string `json:"invariant" mapstructure:"invariant"`
	Type      string `json:"type" mapstructure:"type" validate:"omitempty,oneof=NORMAL INITIAL UNIVERSAL INCONSISTENT"`
	// Initial is shorthand for type: INITIAL.
	Initial bool `json:"initial" mapstructure:"initial"`
}

// LoaderEdge is an edge as written in a component document. Input and
// Output are shorthand for sync plus type.
type LoaderEdge struct {
	ID     string `json:"id" mapstructure:"id"`
	Source string `json:"source" mapstructure:"source" validate:"required_without=From"`
	From   string `json:"from" mapstructure:"from"`
	Target string `json:"target" mapstructure:"target" validate:"required_without=To"`
	To     string `json:"to" mapstructure:"to"`
	Sync   string `json:"sync" mapstructure:"sync" validate:"required_without_all=Input Output"`
	Type   string `json:"type" mapstructure:"type" validate:"omitempty,oneof=INPUT OUTPUT"`
	Input  string `json:"input" mapstructure:"input" validate:"excluded_with=Output"`
	Output string `json:"output" mapstructure:"output"`
	Guard  string `json:"guard" mapstructure:"guard"`
	Update string `json:"update" mapstructure:"update"`
}

func (l LoaderLocation) toDomain() domain.Location {
	typ := domain.LocationType(l.Type)
	if l.Initial {
		typ = domain.LocationInitial
	}
	if typ == "" {
		typ = domain.LocationNormal
	}
	return domain.Location{ID: l.ID, Invariant: l.Invariant, Type: typ}
}

func (e LoaderEdge) toDomain() domain.Edge {
	out := domain.Edge{
		ID:     e.ID,
		Source: firstNonEmpty(e.Source, e.From),
		Target: firstNonEmpty(e.Target, e.To),
		Sync:   e.Sync,
		Type:   domain.SyncType(e.Type),
		Guard:  e.Guard,
		Update: e.Update,
	}
	switch {
	case e.Input != "":
		out.Sync, out.Type = e.Input, domain.SyncInput
	case e.Output != "":
		out.Sync, out.Type = e.Output, domain.SyncOutput
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
