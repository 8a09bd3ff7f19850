/*
Package domain contains the model of timed I/O automata checked by zonecheck.

It defines the components as they are loaded from a project, before any
compilation into transition systems. This package is kept free of I/O and of
the zone algebra, following Hexagonal Architecture principles.

# Key Entities

  - Component: a timed automaton with clocks, locations and edges.
  - Location: a control point with an optional invariant and a type tag.
  - Edge: an input or output synchronisation with guard and clock updates.
  - Declarations: clock and integer constant declarations of a component.
  - Verdict: the serialisable outcome of one query, as cached by stores.
*/
package domain
