// Package query parses zonecheck queries and turns them into compiled
// systems ready for the checkers in pkg/check.
//
// A query names the check and the systems it runs on:
//
//	refinement: Administration <= (Spec \\ Researcher) \\ Machine
//	consistency: Machine || Researcher
//	determinism: Adm2
//	reachability: Machine || Researcher -> [L5, L6](); [L4, _](y >= 3)
//
// Composition (||) binds tighter than conjunction (&&), which binds tighter
// than quotient (\\ or //). All operators are left associative.
package query
