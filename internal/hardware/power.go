package hardware

import (
	"context"
	"fmt"
	"time"
)

// Low-power modes accepted in configuration.
const (
	PowerModeSleep = "sleep"
	PowerModeHalt  = "halt"
)

// ClockSleep emulates deep sleep by blocking on the clock; returning means the
// timer fired and the next wake cycle starts.
type ClockSleep struct {
	Clock Clock
}

func (p ClockSleep) Enter(ctx context.Context, d time.Duration) error {
	return p.Clock.Sleep(ctx, d)
}

// Halt never waits: the process is expected to exit and be relaunched by an
// external timer.
type Halt struct{}

func (Halt) Enter(context.Context, time.Duration) error {
	return ErrHalted
}

// NewLowPower selects the implementation for mode.
func NewLowPower(mode string, clock Clock) (LowPower, error) {
	switch mode {
	case PowerModeSleep, "":
		return ClockSleep{Clock: clock}, nil
	case PowerModeHalt:
		return Halt{}, nil
	default:
		return nil, fmt.Errorf("unknown power mode %q", mode)
	}
}
