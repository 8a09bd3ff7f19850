// Package zone implements difference bound matrices (DBMs) and federations,
// the symbolic representation of clock valuations used by the checkers.
//
// A DBM of dimension n constrains the differences x_i - x_j for clocks
// 0..n-1, where clock 0 is the constant zero reference clock. A Federation is
// a finite union of non-empty, canonical DBMs of the same dimension.
//
// Federations are immutable values: every operation returns a new Federation
// and never mutates its receiver or arguments. Mixing dimensions panics.
package zone
