package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"controllerboard/internal/connectivity"
	"controllerboard/internal/hardware"
	"controllerboard/internal/logger"
	"controllerboard/internal/models"
	"controllerboard/internal/repository"

	"github.com/google/uuid"
)

// Fetcher retrieves the raw command response.
type Fetcher interface {
	Fetch(ctx context.Context) (models.RawResponse, error)
}

// NodeService runs wake cycles: connect, fetch, parse, schedule, sleep.
type NodeService struct {
	conn           connectivity.Provider
	connectTimeout time.Duration
	fetcher        Fetcher
	scheduler      *Scheduler
	sleeper        *SleepController
	eventRepo      repository.EventRepo
	clock          hardware.Clock
	log            *logger.Logger
}

func NewNodeService(conn connectivity.Provider, connectTimeout time.Duration, fetcher Fetcher,
	scheduler *Scheduler, sleeper *SleepController, eventRepo repository.EventRepo,
	clock hardware.Clock, log *logger.Logger) *NodeService {
	if log == nil {
		log = logger.Nop()
	}
	return &NodeService{
		conn:           conn,
		connectTimeout: connectTimeout,
		fetcher:        fetcher,
		scheduler:      scheduler,
		sleeper:        sleeper,
		eventRepo:      eventRepo,
		clock:          clock,
		log:            log,
	}
}

// Run repeats wake cycles until ctx is cancelled or low power halts the process.
func (n *NodeService) Run(ctx context.Context) error {
	for {
		err := n.Cycle(ctx)
		switch {
		case errors.Is(err, hardware.ErrHalted):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return err
		}
	}
}

// Cycle performs one wake cycle. Its only way out is the sleep controller.
func (n *NodeService) Cycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	decision := n.RunCycle(ctx, cycleID)
	return n.sleeper.Enter(ctx, cycleID, decision)
}

// RunCycle does everything up to the sleep decision and never fails: every
// error becomes a default-duration decision.
func (n *NodeService) RunCycle(ctx context.Context, cycleID string) models.SleepDecision {
	log := n.log.With("cycle_id", cycleID)

	n.wake(ctx, cycleID, log)

	if !n.conn.WaitReady(ctx, n.connectTimeout) {
		return n.fail(ctx, cycleID, log, fmt.Errorf("%w after %s", ErrConnectivityTimeout, n.connectTimeout))
	}
	log.Infow("connected_to_ap")

	raw, err := n.fetcher.Fetch(ctx)
	if err != nil {
		return n.fail(ctx, cycleID, log, err)
	}

	seq, err := ParseResponse(raw)
	if err != nil {
		return n.fail(ctx, cycleID, log, err)
	}
	log.Infow("commands_received", "count", len(seq), "bytes", len(raw.Data), "truncated", raw.Truncated)
	n.record(ctx, cycleID, models.EventFetched, fmt.Sprintf("Received %d commands", len(seq)),
		map[string]any{"commands": seq.Body(), "truncated": raw.Truncated})

	res, err := n.scheduler.Execute(ctx, cycleID, seq)
	if err != nil {
		n.recordFailure(ctx, cycleID, log, err)
	}
	decision := n.sleeper.Decide(res, err)
	if decision.Reason == models.SleepReasonCommand {
		log.Infow("sleep_command_received", "minutes", decision.Minutes)
	} else if err == nil {
		log.Infow("no_sleep_command", "default_minutes", decision.Minutes)
	}
	return decision
}

func (n *NodeService) wake(ctx context.Context, cycleID string, log *logger.Logger) {
	if err := n.scheduler.ResetOutputs(); err != nil {
		log.Errorw("reset_outputs_failed", "err", err)
	}

	cause, slept, err := n.sleeper.WakeCause(ctx)
	if err != nil {
		log.Warnw("wake_state_load_failed", "err", err)
		cause = models.WakeCausePowerOn
	}
	if cause == models.WakeCauseTimer {
		log.Infow("wake_up_from_timer", "slept_ms", slept.Milliseconds())
	} else {
		log.Infow("power_on")
	}
	n.record(ctx, cycleID, models.EventWake, "Wake: "+cause,
		map[string]any{"cause": cause, "slept_ms": slept.Milliseconds()})
}

func (n *NodeService) fail(ctx context.Context, cycleID string, log *logger.Logger, err error) models.SleepDecision {
	n.recordFailure(ctx, cycleID, log, err)
	return n.sleeper.Fallback(err)
}

func (n *NodeService) recordFailure(ctx context.Context, cycleID string, log *logger.Logger, err error) {
	kind := failureKind(err)
	log.Errorw("cycle_failed", "failure", kind, "err", err)
	n.record(ctx, cycleID, models.EventError, err.Error(), map[string]any{"failure": kind})
}

func (n *NodeService) record(ctx context.Context, cycleID, typ, desc string, meta map[string]any) {
	if n.eventRepo == nil {
		return
	}
	err := n.eventRepo.Append(context.WithoutCancel(ctx), models.NodeEvent{
		CycleID:     cycleID,
		OccurredAt:  n.clock.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		n.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}
