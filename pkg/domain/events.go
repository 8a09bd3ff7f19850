package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCheckStart  EventType = "check_start"
	EventCheckFinish EventType = "check_finish"
	EventCacheHit    EventType = "cache_hit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// VerdictID correlates the events of one check.
	VerdictID string `json:"verdict_id"`
}

// CheckEvent reports the progress of one query.
type CheckEvent struct {
	EventBase
	Query string    `json:"query"`
	Kind  QueryKind `json:"kind"`
	// Verdict is set once the check has finished.
	Verdict  *Verdict      `json:"verdict,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnCheckStart  func(context.Context, *CheckEvent)
	OnCheckFinish func(context.Context, *CheckEvent)
	OnCacheHit    func(context.Context, *CheckEvent)
}
