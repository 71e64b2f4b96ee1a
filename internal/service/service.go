package service

import (
	"context"
	"time"

	"controllerboard/internal/logger"
	"controllerboard/internal/models"
	"controllerboard/internal/repository"
)

// Node runs wake cycles on the actuator board.
// Stop via context cancellation in main() for graceful shutdown.
type Node interface {
	Run(ctx context.Context) error
	Cycle(ctx context.Context) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.NodeEvent, error)
}

// Status reports the node's last known sleep.
type Status interface {
	GetStatus(ctx context.Context) (models.NodeStatus, error)
}

// Plans manages what the command server hands to polling boards.
type Plans interface {
	Set(ctx context.Context, p PlanParams) (models.ActionPlan, error)
	Get(ctx context.Context, board string) (models.ActionPlan, error)
	Delete(ctx context.Context, board string) error
	Body(ctx context.Context, board, remote string) (string, error)
}

// Service aggregates the services the HTTP layer and the CLI read from.
type Service struct {
	EventLog
	Plans
	Status
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, boardPorts int, minute time.Duration, log *logger.Logger) *Service {
	return &Service{
		EventLog: NewEventLogService(repos.EventRepo),
		Plans:    NewPlanService(repos.PlanRepo, repos.EventRepo, boardPorts, log),
		Status:   NewStatusService(repos.WakeRepo, minute),
	}
}
