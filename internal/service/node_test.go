package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"controllerboard/internal/hardware"
	"controllerboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nodeFixture struct {
	node    *NodeService
	board   *hardware.SimulatedBoard
	clock   *hardware.FakeClock
	events  *memEventRepo
	wake    *memWakeRepo
	power   *recordingLowPower
	conn    *stubConnectivity
	fetcher *stubFetcher
}

func newNodeFixture(ready bool, fetcher *stubFetcher) *nodeFixture {
	clock := hardware.NewFakeClock(epoch)
	board := hardware.NewSimulatedBoard(eightPorts.Channels(), clock, nil)
	events := &memEventRepo{}
	wake := &memWakeRepo{}
	power := &recordingLowPower{}
	conn := &stubConnectivity{ready: ready}

	sched := NewScheduler(eightPorts, board, clock, time.Minute, events, nil)
	sleeper := NewSleepController(1, time.Minute, wake, events, power, clock, nil)
	return &nodeFixture{
		node:    NewNodeService(conn, time.Minute, fetcher, sched, sleeper, events, clock, nil),
		board:   board,
		clock:   clock,
		events:  events,
		wake:    wake,
		power:   power,
		conn:    conn,
		fetcher: fetcher,
	}
}

// activeTransitions drops the wake-time reset so only scheduled changes remain.
func (f *nodeFixture) activeTransitions() []hardware.Transition {
	tr := f.board.Transitions()
	return tr[len(eightPorts):]
}

func TestNode_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSleep   time.Duration
		wantReason  string
		wantOpened  []int
		wantFailure error
	}{
		{
			name:       "two activations then default",
			body:       "1,5\n3,2\n",
			wantSleep:  time.Minute,
			wantReason: models.SleepReasonCompleted,
			wantOpened: []int{22, 19},
		},
		{
			name:       "sleep only",
			body:       "0,90\n",
			wantSleep:  90 * time.Minute,
			wantReason: models.SleepReasonCommand,
		},
		{
			name:       "sleep is terminal",
			body:       "2,10\n0,30\n4,1\n",
			wantSleep:  30 * time.Minute,
			wantReason: models.SleepReasonCommand,
			wantOpened: []int{23},
		},
		{
			name:       "empty body",
			body:       "",
			wantSleep:  time.Minute,
			wantReason: models.SleepReasonCompleted,
		},
		{
			name:        "invalid port",
			body:        "9,5\n",
			wantSleep:   time.Minute,
			wantReason:  models.SleepReasonFailure,
			wantFailure: ErrInvalidPort,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newNodeFixture(true, &stubFetcher{resp: httpResponse(tc.body)})

			d := f.node.RunCycle(context.Background(), "c1")
			assert.Equal(t, tc.wantReason, d.Reason)
			if tc.wantFailure != nil {
				assert.ErrorIs(t, d.Err, tc.wantFailure)
			} else {
				assert.NoError(t, d.Err)
			}
			assert.Equal(t, tc.wantSleep, d.Duration(time.Minute))

			var opened []int
			for _, tr := range f.activeTransitions() {
				if tr.Level == hardware.Active {
					opened = append(opened, tr.Channel)
				}
			}
			assert.Equal(t, tc.wantOpened, opened)
			for _, ch := range eightPorts {
				assert.Equal(t, hardware.Inactive, f.board.Level(ch), "gpio %d left active", ch)
			}
		})
	}
}

func TestNode_MinutesPastDurationRangeSaturate(t *testing.T) {
	f := newNodeFixture(true, &stubFetcher{resp: httpResponse("1,200000000\n0,200000000\n")})

	require.NoError(t, f.node.Cycle(context.Background()))

	longest := time.Duration(math.MaxInt64)
	assert.Equal(t, []time.Duration{longest}, f.clock.Sleeps())
	assert.Equal(t, []time.Duration{longest}, f.power.entered)

	tr := f.activeTransitions()
	require.Len(t, tr, 2)
	assert.Equal(t, hardware.Active, tr[0].Level)
	assert.Equal(t, epoch.Add(longest), tr[1].At)
	require.Len(t, f.wake.saves, 1)
	assert.Equal(t, uint32(200000000), f.wake.saves[0].SleepMinutes)
}

func TestNode_ConnectivityTimeout(t *testing.T) {
	f := newNodeFixture(false, &stubFetcher{})

	require.NoError(t, f.node.Cycle(context.Background()))

	assert.Zero(t, f.fetcher.calls, "no fetch without connectivity")
	assert.Empty(t, f.activeTransitions())
	assert.Equal(t, []time.Duration{time.Minute}, f.power.entered)
	assert.Contains(t, f.events.types(), models.EventError)
}

func TestNode_FallbackTotality(t *testing.T) {
	failures := []error{
		ErrAddressResolution,
		ErrSocketAllocation,
		ErrConnection,
		ErrSend,
		fmt.Errorf("%w: upstream", errors.New("something unexpected")),
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			f := newNodeFixture(true, &stubFetcher{err: failure})

			require.NoError(t, f.node.Cycle(context.Background()))
			assert.Equal(t, []time.Duration{time.Minute}, f.power.entered, "low power entered exactly once")
			assert.Empty(t, f.activeTransitions())
			require.Len(t, f.wake.saves, 1)
			assert.Equal(t, uint32(1), f.wake.saves[0].SleepMinutes)
		})
	}

	t.Run("no payload", func(t *testing.T) {
		f := newNodeFixture(true, &stubFetcher{resp: models.RawResponse{Data: []byte("HTTP/1.0 200 OK\r\n")}})
		d := f.node.RunCycle(context.Background(), "c1")
		assert.ErrorIs(t, d.Err, ErrNoPayload)
		assert.Equal(t, uint32(1), d.Minutes)
	})
}

func TestNode_CycleRecordsEvents(t *testing.T) {
	f := newNodeFixture(true, &stubFetcher{resp: httpResponse("1,5\n0,20\n")})

	require.NoError(t, f.node.Cycle(context.Background()))
	assert.Equal(t, []string{
		models.EventWake, models.EventFetched,
		models.EventActivate, models.EventDeactivate,
		models.EventSleep,
	}, f.events.types())

	cycle := f.events.events[0].CycleID
	require.NotEmpty(t, cycle)
	for _, e := range f.events.events {
		assert.Equal(t, cycle, e.CycleID)
	}
}

func TestNode_SecondCycleWakesFromTimer(t *testing.T) {
	f := newNodeFixture(true, &stubFetcher{resp: httpResponse("0,15\n")})

	require.NoError(t, f.node.Cycle(context.Background()))
	require.NoError(t, f.node.Cycle(context.Background()))

	var causes []any
	for _, e := range f.events.events {
		if e.Type == models.EventWake {
			causes = append(causes, e.Metadata.(map[string]any)["cause"])
		}
	}
	assert.Equal(t, []any{models.WakeCausePowerOn, models.WakeCauseTimer}, causes)
}

func TestNode_RunStopsOnHalt(t *testing.T) {
	clock := hardware.NewFakeClock(epoch)
	board := hardware.NewSimulatedBoard(eightPorts.Channels(), clock, nil)
	sched := NewScheduler(eightPorts, board, clock, time.Minute, nil, nil)
	sleeper := NewSleepController(1, time.Minute, &memWakeRepo{}, nil, hardware.Halt{}, clock, nil)
	fetcher := &stubFetcher{resp: httpResponse("1,1\n")}
	n := NewNodeService(&stubConnectivity{ready: true}, time.Minute, fetcher, sched, sleeper, nil, clock, nil)

	require.NoError(t, n.Run(context.Background()))
	assert.Equal(t, 1, fetcher.calls)
}

func TestNode_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := hardware.NewFakeClock(epoch)
	board := hardware.NewSimulatedBoard(eightPorts.Channels(), clock, nil)
	sched := NewScheduler(eightPorts, board, clock, time.Minute, nil, nil)
	power := &cancellingLowPower{cancel: cancel}
	sleeper := NewSleepController(1, time.Minute, &memWakeRepo{}, nil, power, clock, nil)
	n := NewNodeService(&stubConnectivity{ready: true}, time.Minute, &stubFetcher{resp: httpResponse("")}, sched, sleeper, nil, clock, nil)

	require.NoError(t, n.Run(ctx))
	assert.Equal(t, 1, power.calls)
}

type cancellingLowPower struct {
	cancel context.CancelFunc
	calls  int
}

func (p *cancellingLowPower) Enter(ctx context.Context, d time.Duration) error {
	p.calls++
	p.cancel()
	return ctx.Err()
}
