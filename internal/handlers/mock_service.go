package handlers

import (
	"context"
	"time"

	"controllerboard/internal/models"
	"controllerboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockPlans struct {
	plan      models.ActionPlan
	body      string
	setErr    error
	getErr    error
	deleteErr error
	bodyErr   error

	lastSet    service.PlanParams
	lastBoard  string
	lastRemote string
	setCalls   int
	bodyCalls  int
}

func (m *mockPlans) Set(ctx context.Context, p service.PlanParams) (models.ActionPlan, error) {
	m.setCalls++
	m.lastSet = p
	if m.setErr != nil {
		return models.ActionPlan{}, m.setErr
	}
	return models.ActionPlan{Board: p.Board, SleepMinutes: p.SleepMinutes}, nil
}
func (m *mockPlans) Get(ctx context.Context, board string) (models.ActionPlan, error) {
	m.lastBoard = board
	return m.plan, m.getErr
}
func (m *mockPlans) Delete(ctx context.Context, board string) error {
	m.lastBoard = board
	return m.deleteErr
}
func (m *mockPlans) Body(ctx context.Context, board, remote string) (string, error) {
	m.bodyCalls++
	m.lastBoard = board
	m.lastRemote = remote
	return m.body, m.bodyErr
}

type mockStatus struct {
	status models.NodeStatus
	err    error
}

func (m *mockStatus) GetStatus(ctx context.Context) (models.NodeStatus, error) {
	return m.status, m.err
}

type mockEventLog struct {
	resp        []models.NodeEvent
	err         error
	lastFrom    time.Time
	lastTo      time.Time
	lastType    string
	lastCycleID string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.NodeEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastCycleID = f.CycleID
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
