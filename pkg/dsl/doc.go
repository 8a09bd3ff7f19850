/*
Package dsl provides a Go DSL for programmatically constructing timed I/O
automata.

It allows developers to define components with a fluent builder instead of
writing JSON or YAML component files. This is particularly useful for unit
testing and for generating families of models.

Example usage:

	b := dsl.New()

	m := b.Component("Machine").Clocks("y")
	m.Location("L5").Initial().
		Input("coin", "L4").Update("y=0")
	m.Location("L5").
		Output("tea", "L5").Guard("y>=2")
	m.Location("L4").Invariant("y<=6").
		Output("cof", "L5").Guard("y>=4")

	// The result can be used as a ports.ComponentLoader
	loader, err := b.Build()
	// ... pass loader to zonecheck.New(..., zonecheck.WithLoader(loader))
*/
package dsl
