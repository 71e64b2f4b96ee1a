package models

import (
	"math"
	"time"
)

// WakeState survives low-power mode. ID is 0 when nothing has been stored yet.
type WakeState struct {
	ID             int       `json:"id"`
	SleepEnteredAt time.Time `json:"sleep_entered_at"`
	SleepMinutes   uint32    `json:"sleep_minutes"`
}

// Wake causes reported at the start of a cycle.
const (
	WakeCausePowerOn = "power_on"
	WakeCauseTimer   = "timer"
)

// Sleep decision reasons.
const (
	SleepReasonCommand   = "sleep_command"
	SleepReasonFailure   = "failure"
	SleepReasonCompleted = "completed"
)

// SleepDecision is the single outcome of a wake cycle.
type SleepDecision struct {
	Minutes uint32
	Reason  string
	Err     error
}

// Duration converts the decision to wall time given the length of one minute.
func (d SleepDecision) Duration(minute time.Duration) time.Duration {
	return MinutesDuration(d.Minutes, minute)
}

// MaxMinutes is the longest wait in real minutes that a time.Duration holds.
const MaxMinutes = uint32(math.MaxInt64 / int64(time.Minute))

// MinutesDuration converts minutes to wall time, saturating at the largest
// time.Duration instead of wrapping negative.
func MinutesDuration(minutes uint32, minute time.Duration) time.Duration {
	if minute <= 0 {
		return 0
	}
	if int64(minutes) > math.MaxInt64/int64(minute) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(minutes) * minute
}
