// Package hardware abstracts the output channels, the blocking clock and the
// low-power entry point so the wake cycle can run against real or simulated
// hardware.
package hardware

import (
	"context"
	"errors"
	"time"
)

// Level is the logic level of an output channel.
type Level int

const (
	Inactive Level = 0
	Active   Level = 1
)

func (l Level) String() string {
	if l == Active {
		return "active"
	}
	return "inactive"
}

// OutputDriver drives physical output channels (GPIO numbers).
type OutputDriver interface {
	SetLevel(channel int, level Level) error
}

// Clock blocks the calling goroutine. Sleep returns ctx.Err() if cancelled first.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// LowPower is the terminal hand-off of a wake cycle.
type LowPower interface {
	Enter(ctx context.Context, d time.Duration) error
}

// ErrHalted is returned by a LowPower that leaves waking up to an external scheduler.
var ErrHalted = errors.New("low power: halted until external wake")

// RealClock uses the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
