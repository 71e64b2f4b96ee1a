package models

import "time"

// PlanAction is a single port activation stored on the command server.
type PlanAction struct {
	Port    uint32 `json:"port"`
	Minutes uint32 `json:"minutes"`
}

// ActionPlan is what the command server hands to a polling board.
type ActionPlan struct {
	Board        string       `json:"board"`
	Actions      []PlanAction `json:"actions"`
	SleepMinutes *uint32      `json:"sleep_minutes,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Sequence converts the plan into the command order the node executes.
func (p ActionPlan) Sequence() CommandSequence {
	seq := make(CommandSequence, 0, len(p.Actions)+1)
	for _, a := range p.Actions {
		seq = append(seq, Activate(a.Port, a.Minutes))
	}
	if p.SleepMinutes != nil {
		seq = append(seq, Sleep(*p.SleepMinutes))
	}
	return seq
}
