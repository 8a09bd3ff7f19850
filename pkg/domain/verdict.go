package domain

import "time"

// QueryKind is the kind of check a query asks for.
type QueryKind string

const (
	QueryRefinement   QueryKind = "refinement"
	QueryConsistency  QueryKind = "consistency"
	QueryDeterminism  QueryKind = "determinism"
	QueryReachability QueryKind = "reachability"
)

// Verdict is the outcome of one query. Failure is a human readable
// explanation, Reason the machine readable failure kind.
type Verdict struct {
	ID        string        `json:"id"`
	Query     string        `json:"query"`
	Kind      QueryKind     `json:"kind"`
	Satisfied bool          `json:"satisfied"`
	Failure   string        `json:"failure,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Location  string        `json:"location,omitempty"`
	Action    string        `json:"action,omitempty"`
	Path      [][]string    `json:"path,omitempty"`
	States    int           `json:"states"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
	Cached    bool          `json:"cached,omitempty"`
}
