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

// SleepController owns the end of every wake cycle.
type SleepController struct {
	defaultMinutes uint32
	minute         time.Duration
	wakeRepo       repository.WakeRepo
	eventRepo      repository.EventRepo
	lowPower       hardware.LowPower
	clock          hardware.Clock
	log            *logger.Logger
}

func NewSleepController(defaultMinutes uint32, minute time.Duration, wakeRepo repository.WakeRepo,
	eventRepo repository.EventRepo, lowPower hardware.LowPower, clock hardware.Clock, log *logger.Logger) *SleepController {
	if log == nil {
		log = logger.Nop()
	}
	if minute <= 0 {
		minute = time.Minute
	}
	return &SleepController{
		defaultMinutes: defaultMinutes,
		minute:         minute,
		wakeRepo:       wakeRepo,
		eventRepo:      eventRepo,
		lowPower:       lowPower,
		clock:          clock,
		log:            log,
	}
}

// Decide applies the policy: an explicit sleep command wins, anything else
// (a failure or a sequence without sleep) gets the default.
func (c *SleepController) Decide(res ScheduleResult, failure error) models.SleepDecision {
	switch {
	case res.HasSleep:
		return models.SleepDecision{Minutes: res.SleepMinutes, Reason: models.SleepReasonCommand}
	case failure != nil:
		return models.SleepDecision{Minutes: c.defaultMinutes, Reason: models.SleepReasonFailure, Err: failure}
	default:
		return models.SleepDecision{Minutes: c.defaultMinutes, Reason: models.SleepReasonCompleted}
	}
}

// Fallback is the decision for a cycle that failed before scheduling.
func (c *SleepController) Fallback(failure error) models.SleepDecision {
	return c.Decide(ScheduleResult{}, failure)
}

// Enter stores the wake state and hands off to low power. It is called exactly
// once per cycle; its return means the node woke up (or halted).
func (c *SleepController) Enter(ctx context.Context, cycleID string, d models.SleepDecision) error {
	now := c.clock.Now().UTC()
	dur := d.Duration(c.minute)

	c.log.Infow("entering_low_power", "minutes", d.Minutes, "reason", d.Reason, "wakeup_in", dur)

	persistCtx := context.WithoutCancel(ctx)
	if err := c.wakeRepo.Save(persistCtx, models.WakeState{SleepEnteredAt: now, SleepMinutes: d.Minutes}); err != nil {
		c.log.Errorw("wake_state_save_failed", "err", err)
	}
	if c.eventRepo != nil {
		meta := map[string]any{"minutes": d.Minutes, "reason": d.Reason}
		if d.Err != nil {
			meta["failure"] = failureKind(d.Err)
		}
		err := c.eventRepo.Append(persistCtx, models.NodeEvent{
			CycleID:     cycleID,
			OccurredAt:  now,
			Type:        models.EventSleep,
			Description: fmt.Sprintf("Sleeping for %d minutes", d.Minutes),
			Metadata:    meta,
		})
		if err != nil {
			c.log.Warnw("event_append_failed", "type", models.EventSleep, "err", err)
		}
	}

	return c.lowPower.Enter(ctx, dur)
}

// WakeCause loads the persisted wake state and reports how the node woke and
// how long it slept.
func (c *SleepController) WakeCause(ctx context.Context) (string, time.Duration, error) {
	st, err := c.wakeRepo.Load(ctx)
	if err != nil {
		return "", 0, err
	}
	if st.ID == 0 {
		return models.WakeCausePowerOn, 0, nil
	}
	slept := c.clock.Now().Sub(st.SleepEnteredAt)
	if slept < 0 {
		slept = 0
	}
	return models.WakeCauseTimer, slept, nil
}
