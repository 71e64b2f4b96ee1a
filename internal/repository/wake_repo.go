package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"controllerboard/internal/models"
)

type WakeSQLite struct {
	db *sql.DB
}

func NewWakeSQLite(db *sql.DB) *WakeSQLite {
	return &WakeSQLite{db: db}
}

const (
	wakeStateRowID = 1

	upsertWakeStateSQL = `
		INSERT INTO wake_state (id, sleep_entered_at, sleep_minutes)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sleep_entered_at=excluded.sleep_entered_at,
			sleep_minutes=excluded.sleep_minutes
	`

	selectWakeStateSQL = `
		SELECT id, sleep_entered_at, sleep_minutes
		FROM wake_state WHERE id=?
	`
)

// Save overwrites the single wake_state row (id always 1).
func (r *WakeSQLite) Save(ctx context.Context, s models.WakeState) error {
	ts := s.SleepEnteredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertWakeStateSQL,
		wakeStateRowID,
		ts,
		s.SleepMinutes,
	)
	return err
}

// Load returns the stored row, or a zero WakeState when the node has never slept.
func (r *WakeSQLite) Load(ctx context.Context) (models.WakeState, error) {
	row := r.db.QueryRowContext(ctx, selectWakeStateSQL, wakeStateRowID)

	var s models.WakeState
	if err := row.Scan(&s.ID, &s.SleepEnteredAt, &s.SleepMinutes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WakeState{}, nil
		}
		return models.WakeState{}, err
	}
	s.SleepEnteredAt = s.SleepEnteredAt.UTC()
	return s, nil
}
