/*
Package zonecheck verifies timed input/output automata.

Components are timed automata with clocks, invariants, guards and
input/output actions. The engine compiles them into transition systems over
zone federations, combines them with composition (||), conjunction (&&) and
quotient (\\), and answers queries about the result:

	refinement: Administration <= (Spec \\ Researcher) \\ Machine
	consistency: Machine || Researcher
	determinism: Machine
	reachability: Machine || Researcher -> [L5, L6](); [L4, _](y >= 3)

# Usage

By default the engine reads components from a directory through Loam. Each
file is one component, written as JSON, YAML or Markdown front matter.

	eng, err := zonecheck.New("./components")
	if err != nil {
		log.Fatal(err)
	}

	v, err := eng.Check(ctx, "refinement: Administration <= (Spec \\ Researcher) \\ Machine")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v.Satisfied, v.Failure)

Verdicts are cached by the query text and the content digests of the
components it names. A VerdictStore (memory, Redis, SQLite) keeps them
across runs, and a DistributedLocker lets replicas sharing a store avoid
checking the same query twice.
*/
package zonecheck
