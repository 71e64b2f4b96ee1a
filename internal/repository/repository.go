package repository

import (
	"context"
	"database/sql"
	"time"

	"controllerboard/internal/models"
)

// WakeRepo stores the instant the node last entered low power.
type WakeRepo interface {
	Save(ctx context.Context, s models.WakeState) error
	Load(ctx context.Context) (models.WakeState, error)
}

// EventQuery narrows EventRepo.List. Zero fields leave the column unconstrained.
type EventQuery struct {
	From    time.Time // inclusive
	To      time.Time // inclusive
	Type    string
	CycleID string
}

type EventRepo interface {
	Append(ctx context.Context, e models.NodeEvent) error
	List(ctx context.Context, q EventQuery) ([]models.NodeEvent, error)
}

// PlanRepo stores the action plan served to each board.
type PlanRepo interface {
	Put(ctx context.Context, p models.ActionPlan) error
	Get(ctx context.Context, board string) (models.ActionPlan, bool, error)
	Delete(ctx context.Context, board string) (bool, error)
}

type Repository struct {
	WakeRepo  WakeRepo
	EventRepo EventRepo
	PlanRepo  PlanRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		WakeRepo:  NewWakeSQLite(db),
		EventRepo: NewEventSQLite(db),
		PlanRepo:  NewPlanSQLite(db),
	}
}
