// Package compiler turns the textual guards, invariants, updates and
// declarations of components into zone federations and clock resets.
package compiler
