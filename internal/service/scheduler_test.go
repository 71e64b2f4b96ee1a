package service

import (
	"context"
	"math"
	"testing"
	"time"

	"controllerboard/internal/hardware"
	"controllerboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eightPorts = PortTable{22, 23, 19, 21, 5, 18, 16, 17}

var epoch = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

func newTestScheduler() (*Scheduler, *hardware.SimulatedBoard, *hardware.FakeClock, *memEventRepo) {
	clock := hardware.NewFakeClock(epoch)
	board := hardware.NewSimulatedBoard(eightPorts.Channels(), clock, nil)
	events := &memEventRepo{}
	return NewScheduler(eightPorts, board, clock, time.Minute, events, nil), board, clock, events
}

func TestPortTable_Channel(t *testing.T) {
	ch, err := eightPorts.Channel(1)
	require.NoError(t, err)
	assert.Equal(t, 22, ch)

	ch, err = eightPorts.Channel(8)
	require.NoError(t, err)
	assert.Equal(t, 17, ch)

	for _, p := range []uint32{0, 9, 1000} {
		_, err := eightPorts.Channel(p)
		assert.ErrorIs(t, err, ErrInvalidPort, "port %d", p)
	}
}

func TestScheduler_ExecutesInOrder(t *testing.T) {
	s, board, clock, events := newTestScheduler()

	res, err := s.Execute(context.Background(), "c1", models.CommandSequence{models.Activate(1, 5), models.Activate(3, 2)})
	require.NoError(t, err)
	assert.Equal(t, ScheduleResult{Executed: 2}, res)

	want := []hardware.Transition{
		{Channel: 22, Level: hardware.Active, At: epoch},
		{Channel: 22, Level: hardware.Inactive, At: epoch.Add(5 * time.Minute)},
		{Channel: 19, Level: hardware.Active, At: epoch.Add(5 * time.Minute)},
		{Channel: 19, Level: hardware.Inactive, At: epoch.Add(7 * time.Minute)},
	}
	assert.Equal(t, want, board.Transitions())
	assert.Equal(t, []time.Duration{5 * time.Minute, 2 * time.Minute}, clock.Sleeps())
	assert.Equal(t, []string{
		models.EventActivate, models.EventDeactivate,
		models.EventActivate, models.EventDeactivate,
	}, events.types())
}

func TestScheduler_SleepEndsExecution(t *testing.T) {
	s, board, _, _ := newTestScheduler()

	res, err := s.Execute(context.Background(), "c1", models.CommandSequence{
		models.Activate(2, 10), models.Sleep(30), models.Activate(4, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, ScheduleResult{Executed: 1, SleepMinutes: 30, HasSleep: true}, res)
	assert.Len(t, board.Transitions(), 2)
	assert.Equal(t, hardware.Inactive, board.Level(21))
}

func TestScheduler_InvalidPortTouchesNothing(t *testing.T) {
	s, board, clock, _ := newTestScheduler()

	res, err := s.Execute(context.Background(), "c1", models.CommandSequence{models.Activate(9, 5)})
	assert.ErrorIs(t, err, ErrInvalidPort)
	assert.Zero(t, res.Executed)
	assert.Empty(t, board.Transitions())
	assert.Empty(t, clock.Sleeps())
}

func TestScheduler_InvalidPortAbortsRemaining(t *testing.T) {
	s, board, _, _ := newTestScheduler()

	res, err := s.Execute(context.Background(), "c1", models.CommandSequence{
		models.Activate(1, 1), models.Activate(0, 1), models.Activate(2, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidPort)
	assert.Equal(t, 1, res.Executed)
	assert.Len(t, board.Transitions(), 2)
}

func TestScheduler_CancelledWaitClosesPort(t *testing.T) {
	s, board, _, events := newTestScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Execute(ctx, "c1", models.CommandSequence{models.Activate(1, 5)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, hardware.Inactive, board.Level(22))
	tr := board.Transitions()
	require.Len(t, tr, 2)
	assert.Equal(t, hardware.Inactive, tr[1].Level)
	assert.Equal(t, []string{models.EventActivate, models.EventDeactivate}, events.types())
}

func TestScheduler_ResetOutputs(t *testing.T) {
	s, board, _, _ := newTestScheduler()

	require.NoError(t, s.ResetOutputs())
	tr := board.Transitions()
	require.Len(t, tr, len(eightPorts))
	for i, ch := range eightPorts {
		assert.Equal(t, ch, tr[i].Channel)
		assert.Equal(t, hardware.Inactive, tr[i].Level)
	}
}

func TestScheduler_UnconfiguredChannel(t *testing.T) {
	clock := hardware.NewFakeClock(epoch)
	board := hardware.NewSimulatedBoard([]int{22}, clock, nil)
	s := NewScheduler(PortTable{22, 99}, board, clock, time.Minute, nil, nil)

	_, err := s.Execute(context.Background(), "c1", models.CommandSequence{models.Activate(2, 1)})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPort)
	assert.Empty(t, clock.Sleeps())
}

func TestScheduler_HugeMinutesKeepPortOpen(t *testing.T) {
	s, board, clock, _ := newTestScheduler()

	_, err := s.Execute(context.Background(), "c1", models.CommandSequence{models.Activate(1, 200000000)})
	require.NoError(t, err)

	require.Len(t, clock.Sleeps(), 1)
	assert.Equal(t, time.Duration(math.MaxInt64), clock.Sleeps()[0])
	tr := board.Transitions()
	require.Len(t, tr, 2)
	assert.True(t, tr[1].At.After(tr[0].At))
}
