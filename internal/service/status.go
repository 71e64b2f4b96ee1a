package service

import (
	"context"
	"time"

	"controllerboard/internal/models"
	"controllerboard/internal/repository"
)

const (
	nodeStateUnknown = "UNKNOWN"
	nodeStateAsleep  = "ASLEEP"
	nodeStateOverdue = "OVERDUE"
)

// StatusService reports what the node last did, from the persisted wake state.
type StatusService struct {
	wakeRepo repository.WakeRepo
	minute   time.Duration
	now      func() time.Time
}

func NewStatusService(wakeRepo repository.WakeRepo, minute time.Duration) *StatusService {
	if minute <= 0 {
		minute = time.Minute
	}
	return &StatusService{wakeRepo: wakeRepo, minute: minute, now: time.Now}
}

// GetStatus returns the latest node status.
// If the node has never slept, returns an UNKNOWN snapshot.
func (s *StatusService) GetStatus(ctx context.Context) (models.NodeStatus, error) {
	st, err := s.wakeRepo.Load(ctx)
	if err != nil {
		return models.NodeStatus{}, err
	}
	if st.ID == 0 {
		return models.NodeStatus{State: nodeStateUnknown}, nil
	}

	entered := toUTC(st.SleepEnteredAt)
	next := entered.Add(models.MinutesDuration(st.SleepMinutes, s.minute))
	state := nodeStateAsleep
	if s.now().After(next) {
		state = nodeStateOverdue
	}
	return models.NodeStatus{
		State:          state,
		SleepEnteredAt: &entered,
		SleepMinutes:   st.SleepMinutes,
		NextWakeAt:     &next,
	}, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
