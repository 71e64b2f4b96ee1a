package service

import (
	"context"
	"sync"
	"time"

	"controllerboard/internal/models"
	"controllerboard/internal/repository"
)

// memEventRepo is an in-memory repository.EventRepo.
type memEventRepo struct {
	mu        sync.Mutex
	events    []models.NodeEvent
	appendErr error
	listErr   error
	queries   []repository.EventQuery
}

func (r *memEventRepo) Append(ctx context.Context, e models.NodeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.appendErr
}

func (r *memEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.NodeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.NodeEvent
	for _, e := range r.events {
		if q.CycleID != "" && e.CycleID != q.CycleID {
			continue
		}
		if !q.From.IsZero() && e.OccurredAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && e.OccurredAt.After(q.To) {
			continue
		}
		if q.Type != "" && e.Type != q.Type {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// memWakeRepo is an in-memory repository.WakeRepo.
type memWakeRepo struct {
	state   models.WakeState
	saves   []models.WakeState
	loadErr error
	saveErr error
}

func (r *memWakeRepo) Save(ctx context.Context, s models.WakeState) error {
	r.saves = append(r.saves, s)
	if r.saveErr != nil {
		return r.saveErr
	}
	s.ID = 1
	r.state = s
	return nil
}

func (r *memWakeRepo) Load(ctx context.Context) (models.WakeState, error) {
	return r.state, r.loadErr
}

// recordingLowPower counts hand-offs instead of sleeping.
type recordingLowPower struct {
	entered []time.Duration
	err     error
}

func (p *recordingLowPower) Enter(ctx context.Context, d time.Duration) error {
	p.entered = append(p.entered, d)
	return p.err
}

// stubConnectivity answers WaitReady with a fixed result.
type stubConnectivity struct {
	ready bool
	calls int
}

func (c *stubConnectivity) WaitReady(ctx context.Context, timeout time.Duration) bool {
	c.calls++
	return c.ready
}

// stubFetcher returns a canned response.
type stubFetcher struct {
	resp  models.RawResponse
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context) (models.RawResponse, error) {
	f.calls++
	return f.resp, f.err
}

func httpResponse(body string) models.RawResponse {
	return models.RawResponse{Data: []byte("HTTP/1.0 200 OK\r\nContent-Type: text/plain\r\n\r\n" + body)}
}
