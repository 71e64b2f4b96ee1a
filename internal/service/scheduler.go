package service

import (
	"context"
	"fmt"
	"time"

	"controllerboard/internal/hardware"
	"controllerboard/internal/logger"
	"controllerboard/internal/models"
	"controllerboard/internal/repository"
)

// PortTable maps port index i+1 to GPIO channel table[i]. Fixed for the life
// of the process.
type PortTable []int

// Channel resolves a 1-based port index.
func (t PortTable) Channel(port uint32) (int, error) {
	if port < 1 || int(port) > len(t) {
		return 0, fmt.Errorf("%w: %d (table has %d ports)", ErrInvalidPort, port, len(t))
	}
	return t[port-1], nil
}

// Channels returns a copy of every channel in port order.
func (t PortTable) Channels() []int {
	out := make([]int, len(t))
	copy(out, t)
	return out
}

// ScheduleResult is what the scheduler hands on to the sleep controller.
type ScheduleResult struct {
	Executed     int
	SleepMinutes uint32
	HasSleep     bool
}

// Scheduler opens ports one at a time, holding each for the requested minutes.
type Scheduler struct {
	table     PortTable
	out       hardware.OutputDriver
	clock     hardware.Clock
	minute    time.Duration
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewScheduler(table PortTable, out hardware.OutputDriver, clock hardware.Clock, minute time.Duration,
	eventRepo repository.EventRepo, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if minute <= 0 {
		minute = time.Minute
	}
	return &Scheduler{
		table:     table,
		out:       out,
		clock:     clock,
		minute:    minute,
		eventRepo: eventRepo,
		log:       log,
	}
}

// ResetOutputs drives every channel inactive, as done once on each wake.
func (s *Scheduler) ResetOutputs() error {
	for i, ch := range s.table {
		if err := s.out.SetLevel(ch, hardware.Inactive); err != nil {
			return fmt.Errorf("reset port %d (gpio %d): %w", i+1, ch, err)
		}
		s.log.Debugw("port_ready", "port", i+1, "gpio", ch)
	}
	return nil
}

// Execute runs seq in order. A Sleep command ends execution and its duration
// is returned. An invalid port aborts the remaining commands.
func (s *Scheduler) Execute(ctx context.Context, cycleID string, seq models.CommandSequence) (ScheduleResult, error) {
	var res ScheduleResult
	for _, cmd := range seq {
		if cmd.Kind == models.CommandSleep {
			res.SleepMinutes = cmd.Minutes
			res.HasSleep = true
			return res, nil
		}
		if err := s.activate(ctx, cycleID, cmd); err != nil {
			return res, err
		}
		res.Executed++
	}
	return res, nil
}

func (s *Scheduler) activate(ctx context.Context, cycleID string, cmd models.Command) (err error) {
	ch, err := s.table.Channel(cmd.Port)
	if err != nil {
		return err
	}

	if err := s.out.SetLevel(ch, hardware.Active); err != nil {
		return fmt.Errorf("open port %d (gpio %d): %w", cmd.Port, ch, err)
	}
	s.log.Infow("port_opened", "port", cmd.Port, "gpio", ch, "minutes", cmd.Minutes)
	s.record(ctx, cycleID, models.EventActivate, fmt.Sprintf("Open port %d (GPIO %d) for %d minutes", cmd.Port, ch, cmd.Minutes), cmd, ch)

	// The channel goes back to inactive even when the wait is cut short.
	defer func() {
		if cerr := s.out.SetLevel(ch, hardware.Inactive); cerr != nil && err == nil {
			err = fmt.Errorf("close port %d (gpio %d): %w", cmd.Port, ch, cerr)
		}
		s.log.Infow("port_closed", "port", cmd.Port, "gpio", ch)
		s.record(context.WithoutCancel(ctx), cycleID, models.EventDeactivate, fmt.Sprintf("Close port %d (GPIO %d)", cmd.Port, ch), cmd, ch)
	}()

	return s.clock.Sleep(ctx, models.MinutesDuration(cmd.Minutes, s.minute))
}

func (s *Scheduler) record(ctx context.Context, cycleID, typ, desc string, cmd models.Command, ch int) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.NodeEvent{
		CycleID:     cycleID,
		OccurredAt:  s.clock.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    map[string]any{"port": cmd.Port, "gpio": ch, "minutes": cmd.Minutes},
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}
