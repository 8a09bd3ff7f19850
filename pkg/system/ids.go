package system

import "strings"

// IDKind distinguishes the nodes of identity trees.
type IDKind uint8

const (
	IDSimple IDKind = iota
	IDComposition
	IDConjunction
	IDQuotient
	IDAny
	IDNone
)

func (k IDKind) operator() string {
	switch k {
	case IDComposition:
		return "||"
	case IDConjunction:
		return "&&"
	case IDQuotient:
		return `\\`
	}
	return ""
}

// LocationID names a possibly composite location. IDs are immutable trees.
type LocationID struct {
	kind      IDKind
	location  string
	component string
	left      *LocationID
	right     *LocationID
	key       string
}

// SimpleLocationID names a location of one component.
func SimpleLocationID(location, component string) *LocationID {
	key := location
	if component != "" {
		key = component + "." + location
	}
	return &LocationID{kind: IDSimple, location: location, component: component, key: key}
}

// AnyLocationID is the wildcard used by partial locations.
func AnyLocationID() *LocationID {
	return &LocationID{kind: IDAny, key: "_"}
}

// ComposedLocationID combines two ids with a composition, conjunction or
// quotient node.
func ComposedLocationID(kind IDKind, left, right *LocationID) *LocationID {
	return &LocationID{
		kind:  kind,
		left:  left,
		right: right,
		key:   "(" + left.key + kind.operator() + right.key + ")",
	}
}

func (id *LocationID) Kind() IDKind { return id.kind }
func (id *LocationID) Location() string { return id.location }
func (id *LocationID) Component() string { return id.component }
func (id *LocationID) Left() *LocationID { return id.left }
func (id *LocationID) Right() *LocationID { return id.right }
func (id *LocationID) Key() string { return id.key }
func (id *LocationID) IsComposite() bool { return id.left != nil }

// Equal reports structural equality.
func (id *LocationID) Equal(o *LocationID) bool {
	return id.key == o.key
}

// MatchesPartial reports equality where Any on either side matches any
// subtree at the same position.
func (id *LocationID) MatchesPartial(o *LocationID) bool {
	switch {
	case id.kind == IDAny || o.kind == IDAny:
		return true
	case id.kind != o.kind:
		return false
	case id.kind == IDSimple:
		return id.location == o.location && id.component == o.component
	default:
		return id.left.MatchesPartial(o.left) && id.right.MatchesPartial(o.right)
	}
}

// Leaves returns the simple and wildcard ids in left to right order.
func (id *LocationID) Leaves() []*LocationID {
	if !id.IsComposite() {
		return []*LocationID{id}
	}
	return append(id.left.Leaves(), id.right.Leaves()...)
}

// String renders the id without component names, e.g. "(L5 || L6)".
func (id *LocationID) String() string {
	switch id.kind {
	case IDSimple:
		return id.location
	case IDAny:
		return "_"
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(id.left.String())
	b.WriteString(" " + id.kind.operator() + " ")
	b.WriteString(id.right.String())
	b.WriteString(")")
	return b.String()
}

// TransitionID names a possibly composite edge. IDNone marks the side of a
// product that did not move, and synthetic transitions.
type TransitionID struct {
	kind  IDKind
	edge  string
	left  *TransitionID
	right *TransitionID
}

var noTransition = &TransitionID{kind: IDNone}

// NoTransitionID returns the id of an identity or synthetic transition.
func NoTransitionID() *TransitionID { return noTransition }

// SimpleTransitionID names one component edge.
func SimpleTransitionID(edge string) *TransitionID {
	return &TransitionID{kind: IDSimple, edge: edge}
}

// ComposedTransitionID combines the ids of two synchronised transitions.
func ComposedTransitionID(kind IDKind, left, right *TransitionID) *TransitionID {
	return &TransitionID{kind: kind, left: left, right: right}
}

func (id *TransitionID) Kind() IDKind { return id.kind }
func (id *TransitionID) Edge() string { return id.edge }
func (id *TransitionID) Left() *TransitionID { return id.left }
func (id *TransitionID) Right() *TransitionID { return id.right }

// Edges returns the component edges taken, left to right.
func (id *TransitionID) Edges() []string {
	switch id.kind {
	case IDSimple:
		return []string{id.edge}
	case IDNone:
		return nil
	}
	return append(id.left.Edges(), id.right.Edges()...)
}

func (id *TransitionID) String() string {
	switch id.kind {
	case IDSimple:
		return id.edge
	case IDNone:
		return "-"
	}
	return "(" + id.left.String() + " " + id.kind.operator() + " " + id.right.String() + ")"
}
