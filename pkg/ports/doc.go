/*
Package ports defines the driven ports (interfaces) for the zonecheck engine.

These interfaces decouple the verification core from external implementations,
allowing the engine to read components from various sources and to keep
verdicts in various stores.

# Key Interfaces

  - ComponentLoader: Responsible for loading component definitions (e.g., from Loam or Memory).
  - VerdictStore: Responsible for caching query verdicts (Memory, Redis, SQLite).
  - DistributedLocker: Lets replicas sharing a VerdictStore avoid checking the same query twice.
*/
package ports
