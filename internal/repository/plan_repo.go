package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"controllerboard/internal/models"
)

type PlanSQLite struct {
	db *sql.DB
}

func NewPlanSQLite(db *sql.DB) *PlanSQLite {
	return &PlanSQLite{db: db}
}

const (
	upsertPlanSQL = `
		INSERT INTO action_plans (board, actions, sleep_minutes, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(board) DO UPDATE SET
			actions=excluded.actions,
			sleep_minutes=excluded.sleep_minutes,
			updated_at=excluded.updated_at
	`

	selectPlanSQL = `
		SELECT board, actions, sleep_minutes, updated_at
		FROM action_plans WHERE board=?
	`

	deletePlanSQL = `DELETE FROM action_plans WHERE board=?`
)

// Put replaces the plan stored for p.Board.
func (r *PlanSQLite) Put(ctx context.Context, p models.ActionPlan) error {
	actions := p.Actions
	if actions == nil {
		actions = []models.PlanAction{}
	}
	b, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	ts := p.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	var sleep any
	if p.SleepMinutes != nil {
		sleep = int64(*p.SleepMinutes)
	}

	_, err = r.db.ExecContext(ctx, upsertPlanSQL, p.Board, string(b), sleep, ts)
	return err
}

// Get loads the plan for board. The bool is false when no plan is stored.
func (r *PlanSQLite) Get(ctx context.Context, board string) (models.ActionPlan, bool, error) {
	row := r.db.QueryRowContext(ctx, selectPlanSQL, board)

	var (
		p          models.ActionPlan
		actionsStr string
		sleep      sql.NullInt64
	)
	if err := row.Scan(&p.Board, &actionsStr, &sleep, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ActionPlan{}, false, nil
		}
		return models.ActionPlan{}, false, err
	}
	if err := json.Unmarshal([]byte(actionsStr), &p.Actions); err != nil {
		return models.ActionPlan{}, false, fmt.Errorf("unmarshal actions for %q: %w", board, err)
	}
	if sleep.Valid {
		m := uint32(sleep.Int64)
		p.SleepMinutes = &m
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, true, nil
}

// Delete removes the plan for board and reports whether one existed.
func (r *PlanSQLite) Delete(ctx context.Context, board string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deletePlanSQL, board)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
