package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"controllerboard/internal/models"
	"controllerboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPlanSQLite_Put_MarshalsActionsAndSleep(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewPlanSQLite(db)
	sleep := uint32(90)
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO action_plans")).
		WithArgs("eightport", `[{"port":1,"minutes":5},{"port":3,"minutes":2}]`, 90, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Put(context.Background(), models.ActionPlan{
		Board:        "eightport",
		Actions:      []models.PlanAction{{Port: 1, Minutes: 5}, {Port: 3, Minutes: 2}},
		SleepMinutes: &sleep,
		UpdatedAt:    at,
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPlanSQLite_Put_NilActionsAndNoSleep(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewPlanSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO action_plans")).
		WithArgs("b", "[]", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Put(context.Background(), models.ActionPlan{Board: "b"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPlanSQLite_Get(t *testing.T) {
	cols := []string{"board", "actions", "sleep_minutes", "updated_at"}
	at := time.Date(2025, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 7200))

	tests := []struct {
		name      string
		setup     func(sqlmock.Sqlmock)
		wantFound bool
		wantErr   bool
		check     func(t *testing.T, p models.ActionPlan)
	}{
		{
			name: "no rows",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT board, actions, sleep_minutes, updated_at")).
					WithArgs("eightport").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "with sleep",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT board, actions, sleep_minutes, updated_at")).
					WithArgs("eightport").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("eightport", `[{"port":2,"minutes":10}]`, 30, at))
			},
			wantFound: true,
			check: func(t *testing.T, p models.ActionPlan) {
				if len(p.Actions) != 1 || p.Actions[0] != (models.PlanAction{Port: 2, Minutes: 10}) {
					t.Fatalf("unexpected actions: %+v", p.Actions)
				}
				if p.SleepMinutes == nil || *p.SleepMinutes != 30 {
					t.Fatalf("unexpected sleep: %v", p.SleepMinutes)
				}
				if p.UpdatedAt.Location() != time.UTC || !p.UpdatedAt.Equal(at) {
					t.Fatalf("UpdatedAt = %v", p.UpdatedAt)
				}
			},
		},
		{
			name: "null sleep",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT board, actions, sleep_minutes, updated_at")).
					WithArgs("eightport").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("eightport", `[]`, nil, at))
			},
			wantFound: true,
			check: func(t *testing.T, p models.ActionPlan) {
				if p.SleepMinutes != nil {
					t.Fatalf("expected nil sleep, got %d", *p.SleepMinutes)
				}
			},
		},
		{
			name: "corrupt actions",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT board, actions, sleep_minutes, updated_at")).
					WithArgs("eightport").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("eightport", `{oops`, nil, at))
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New(): %v", err)
			}
			defer db.Close()
			tc.setup(mock)

			p, found, err := repository.NewPlanSQLite(db).Get(context.Background(), "eightport")
			if (err != nil) != tc.wantErr {
				t.Fatalf("Get() err = %v, wantErr %v", err, tc.wantErr)
			}
			if found != tc.wantFound {
				t.Fatalf("Get() found = %v, want %v", found, tc.wantFound)
			}
			if tc.check != nil {
				tc.check(t, p)
			}
		})
	}
}

func TestPlanSQLite_Delete_ReportsExistence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewPlanSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM action_plans")).
		WithArgs("eightport").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM action_plans")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if ok, err := repo.Delete(context.Background(), "eightport"); err != nil || !ok {
		t.Fatalf("Delete(eightport) = %v, %v", ok, err)
	}
	if ok, err := repo.Delete(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("Delete(missing) = %v, %v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
