package hardware

import (
	"fmt"
	"sync"
	"time"

	"controllerboard/internal/logger"
)

// Transition is one recorded level change.
type Transition struct {
	Channel int
	Level   Level
	At      time.Time
}

// SimulatedBoard stands in for the GPIO bank: it keeps the level of every
// configured channel and records each change in order.
type SimulatedBoard struct {
	mu          sync.Mutex
	levels      map[int]Level
	transitions []Transition
	clock       Clock
	log         *logger.Logger
}

// NewSimulatedBoard configures the given channels as outputs.
func NewSimulatedBoard(channels []int, clock Clock, log *logger.Logger) *SimulatedBoard {
	if clock == nil {
		clock = RealClock{}
	}
	b := &SimulatedBoard{
		levels: make(map[int]Level, len(channels)),
		clock:  clock,
		log:    log,
	}
	for _, ch := range channels {
		b.levels[ch] = Inactive
	}
	return b
}

// SetLevel drives channel to level. Unknown channels are rejected.
func (b *SimulatedBoard) SetLevel(channel int, level Level) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.levels[channel]; !ok {
		return fmt.Errorf("gpio %d is not configured as output", channel)
	}
	b.levels[channel] = level
	b.transitions = append(b.transitions, Transition{Channel: channel, Level: level, At: b.clock.Now()})
	if b.log != nil {
		b.log.Debugw("gpio_set_level", "gpio", channel, "level", level.String())
	}
	return nil
}

// Level reports the current level of channel.
func (b *SimulatedBoard) Level(channel int) Level {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[channel]
}

// Transitions returns a copy of every change since construction.
func (b *SimulatedBoard) Transitions() []Transition {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transition, len(b.transitions))
	copy(out, b.transitions)
	return out
}
