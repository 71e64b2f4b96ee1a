package models

import "time"

// Event types written by the node and the command server.
const (
	EventWake       = "WAKE"
	EventFetched    = "FETCHED"
	EventActivate   = "ACTIVATE"
	EventDeactivate = "DEACTIVATE"
	EventError      = "ERROR"
	EventSleep      = "SLEEP"
	EventPlanSet    = "PLAN_SET"
	EventPlanServed = "PLAN_SERVED"
)

// NodeEvent is a single log entry.
type NodeEvent struct {
	EventID     string    `json:"event_id"`
	CycleID     string    `json:"cycle_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // WAKE | FETCHED | ACTIVATE | DEACTIVATE | ERROR | SLEEP | PLAN_SET | PLAN_SERVED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
