package models

import "time"

// NodeStatus is the snapshot derived from the last stored WakeState.
// A node still sleeping past NextWakeAt is reported OVERDUE.
type NodeStatus struct {
	State          string     `json:"state"` // UNKNOWN | ASLEEP | OVERDUE
	SleepEnteredAt *time.Time `json:"sleep_entered_at,omitempty"`
	SleepMinutes   uint32     `json:"sleep_minutes"`
	NextWakeAt     *time.Time `json:"next_wake_at,omitempty"`
}
