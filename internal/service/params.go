package service

import "time"

// LogFilter narrows the event history.
type LogFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Type    string    // "", "WAKE", "FETCHED", "ACTIVATE", "DEACTIVATE", "ERROR", "SLEEP", "PLAN_SET", "PLAN_SERVED"
	CycleID string    // "" for all cycles
}

// PlanParams is the operator's request to change what a board receives.
type PlanParams struct {
	Board        string
	Actions      []PlanActionParams
	SleepMinutes *uint32
}

type PlanActionParams struct {
	Port    uint32
	Minutes uint32
}
