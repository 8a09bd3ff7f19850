/*
Package check implements the verification algorithms over transition systems.

# Checks

  - Consistency: depth-first search for a strategy that keeps every reachable
    state able to delay forever or to emit a saving output.
  - Determinism: parallel breadth-first search for two overlapping transitions
    on the same action.
  - Refinement: alternating simulation between an implementation and a
    specification, explored pair by pair.
  - Reachability: breadth-first search from a start state to a partial target
    location, returning the path split per component.

Every check explores symbolic states (a location plus a zone federation) and
extrapolates zones with the local maximal bounds of their location, so the
explored space is finite. Verdicts are returned as values; the error return
is reserved for cancellation and malformed arguments.
*/
package check
