package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"controllerboard/internal/logger"
	"controllerboard/internal/models"
	"controllerboard/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	// ErrInvalidPlan wraps every validation failure of PlanParams.
	ErrInvalidPlan = errors.New("invalid plan")

	boardNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
)

// PlanService stores and serves the action plans boards poll for.
type PlanService struct {
	planRepo   repository.PlanRepo
	eventRepo  repository.EventRepo
	boardPorts int
	log        *logger.Logger
}

func NewPlanService(planRepo repository.PlanRepo, eventRepo repository.EventRepo, boardPorts int, log *logger.Logger) *PlanService {
	if log == nil {
		log = logger.Nop()
	}
	return &PlanService{planRepo: planRepo, eventRepo: eventRepo, boardPorts: boardPorts, log: log}
}

func (s *PlanService) validate(p PlanParams) error {
	if !boardNamePattern.MatchString(p.Board) {
		return fmt.Errorf("%w: board name %q", ErrInvalidPlan, p.Board)
	}
	if len(p.Actions) == 0 && p.SleepMinutes == nil {
		return fmt.Errorf("%w: at least one action or a sleep is required", ErrInvalidPlan)
	}
	for i, a := range p.Actions {
		if a.Port < 1 || int(a.Port) > s.boardPorts {
			return fmt.Errorf("%w: action %d: port %d outside 1..%d", ErrInvalidPlan, i+1, a.Port, s.boardPorts)
		}
		if a.Minutes > models.MaxMinutes {
			return fmt.Errorf("%w: action %d: %d minutes exceeds %d", ErrInvalidPlan, i+1, a.Minutes, models.MaxMinutes)
		}
	}
	if p.SleepMinutes != nil && *p.SleepMinutes > models.MaxMinutes {
		return fmt.Errorf("%w: sleep of %d minutes exceeds %d", ErrInvalidPlan, *p.SleepMinutes, models.MaxMinutes)
	}
	return nil
}

// Set validates and stores the plan, then appends PLAN_SET.
func (s *PlanService) Set(ctx context.Context, p PlanParams) (models.ActionPlan, error) {
	if err := s.validate(p); err != nil {
		return models.ActionPlan{}, err
	}

	now := time.Now().UTC()
	plan := models.ActionPlan{
		Board:        p.Board,
		Actions:      make([]models.PlanAction, 0, len(p.Actions)),
		SleepMinutes: p.SleepMinutes,
		UpdatedAt:    now,
	}
	for _, a := range p.Actions {
		plan.Actions = append(plan.Actions, models.PlanAction{Port: a.Port, Minutes: a.Minutes})
	}

	if err := s.planRepo.Put(ctx, plan); err != nil {
		return models.ActionPlan{}, err
	}

	s.audit(ctx, models.NodeEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventPlanSet,
		Description: fmt.Sprintf("Plan for %s set: %d actions", p.Board, len(plan.Actions)),
		Metadata:    map[string]any{"board": p.Board, "body": plan.Sequence().Body()},
	})
	return plan, nil
}

// Get returns the stored plan or ErrPlanNotFound.
func (s *PlanService) Get(ctx context.Context, board string) (models.ActionPlan, error) {
	plan, ok, err := s.planRepo.Get(ctx, board)
	if err != nil {
		return models.ActionPlan{}, err
	}
	if !ok {
		return models.ActionPlan{}, ErrPlanNotFound
	}
	return plan, nil
}

// Delete removes the plan or returns ErrPlanNotFound.
func (s *PlanService) Delete(ctx context.Context, board string) error {
	ok, err := s.planRepo.Delete(ctx, board)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPlanNotFound
	}
	return nil
}

// Body renders what a polling board receives. An unknown board gets an empty
// body, which the node treats as "no commands" and sleeps the default.
func (s *PlanService) Body(ctx context.Context, board, remote string) (string, error) {
	plan, ok, err := s.planRepo.Get(ctx, board)
	if err != nil {
		return "", err
	}
	body := ""
	if ok {
		body = plan.Sequence().Body()
	}

	s.audit(ctx, models.NodeEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventPlanServed,
		Description: fmt.Sprintf("Plan for %s served to %s", board, remote),
		Metadata:    map[string]any{"board": board, "remote": remote, "found": ok},
	})
	return body, nil
}

// audit appends e. The plan change or the served body already happened, so a
// failed write is logged and never reported to the caller.
func (s *PlanService) audit(ctx context.Context, e models.NodeEvent) {
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("event_append_failed", "type", e.Type, "err", err)
	}
}
