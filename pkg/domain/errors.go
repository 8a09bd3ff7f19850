package domain

import "errors"

// ErrComponentNotFound is returned when a query names a component the loader does not know.
var ErrComponentNotFound = errors.New("component not found")

// ErrUnknownLocation is returned when a location name does not exist in a component.
var ErrUnknownLocation = errors.New("unknown location")

// ErrUnknownClock is returned when an expression refers to an undeclared clock or constant.
var ErrUnknownClock = errors.New("unknown clock or constant")

// ErrInvalidComponent is returned when a component definition is malformed.
var ErrInvalidComponent = errors.New("invalid component")

// ErrInvalidExpression is returned when a guard, invariant or update cannot be parsed.
var ErrInvalidExpression = errors.New("invalid expression")

// ErrInvalidQuery is returned when a query cannot be parsed.
var ErrInvalidQuery = errors.New("invalid query")

// ErrActionsNotDisjoint is returned when a component declares an action both as input and output.
var ErrActionsNotDisjoint = errors.New("input and output actions are not disjoint")

// ErrOutputsNotDisjoint is returned when two composed systems share an output action.
var ErrOutputsNotDisjoint = errors.New("composed systems share output actions")

// ErrConjunctionIncompatible is returned when one side of a conjunction uses an action as input
// that the other side uses as output.
var ErrConjunctionIncompatible = errors.New("conjunction operands disagree on action direction")

// ErrQuotientIncompatible is returned when the divisor of a quotient outputs an input of the dividend.
var ErrQuotientIncompatible = errors.New("quotient divisor outputs an input of the dividend")

// ErrVerdictNotFound is returned when a verdict key is missing from a store.
var ErrVerdictNotFound = errors.New("verdict not found")
