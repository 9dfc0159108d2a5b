package matching

import (
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
)

type manualTimer struct {
	scheduler *manualScheduler
	at        time.Duration
	order     int
	f         func()
	fired     bool
	stopped   bool
}

func (that *manualTimer) Stop() bool {
	that.scheduler.mu.Lock()
	defer that.scheduler.mu.Unlock()

	if that.fired || that.stopped || that.scheduler.ignoreStop {
		return false
	}
	that.stopped = true

	return true
}

// manualScheduler fires callbacks only when Advance moves its clock past them.
type manualScheduler struct {
	mu         sync.Mutex
	now        time.Duration
	timers     []*manualTimer
	ignoreStop bool
}

func (that *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	that.mu.Lock()
	defer that.mu.Unlock()

	timer := &manualTimer{scheduler: that, at: that.now + d, order: len(that.timers), f: f}
	that.timers = append(that.timers, timer)

	return timer
}

func (that *manualScheduler) Advance(d time.Duration) {
	that.mu.Lock()
	target := that.now + d
	that.mu.Unlock()

	for {
		that.mu.Lock()
		due := make([]*manualTimer, 0)
		for _, timer := range that.timers {
			if !timer.fired && !timer.stopped && timer.at <= target {
				due = append(due, timer)
			}
		}

		if len(due) == 0 {
			that.now = target
			that.mu.Unlock()

			return
		}

		sort.Slice(due, func(i, j int) bool {
			if due[i].at == due[j].at {
				return due[i].order < due[j].order
			}
			return due[i].at < due[j].at
		})

		next := due[0]
		next.fired = true
		that.now = next.at
		that.mu.Unlock()

		next.f()
	}
}

func (that *manualScheduler) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	count := 0
	for _, timer := range that.timers {
		if !timer.fired && !timer.stopped {
			count++
		}
	}

	return count
}

func newTestEngine() (*Engine, *manualScheduler) {
	scheduler := &manualScheduler{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := NewEngine(logger, scheduler, rand.New(rand.NewSource(7)), DefaultDelays()) //nolint: gosec // test

	return engine, scheduler
}

func twoCards() []entity.Card {
	return []entity.Card{
		{ID: "a", Front: "cat", Back: "mèo"},
		{ID: "b", Front: "dog", Back: "chó"},
	}
}

func TestEngine_Init(t *testing.T) {
	t.Run("Starts a shuffled board and the clock after the start delay", func(t *testing.T) {
		// Given: a fresh engine
		engine, scheduler := newTestEngine()

		// When: initializing it with two cards
		state, err := engine.Init(twoCards())

		// Then: four tiles are on the board and the clock has not started
		require.NoError(t, err)
		assert.Len(t, state.Tiles, 4)
		assert.Equal(t, entity.StatusPlaying, state.Status)

		scheduler.Advance(499 * time.Millisecond)
		assert.Zero(t, engine.State().ElapsedSeconds)

		// When: the start delay and one second pass
		scheduler.Advance(time.Millisecond + time.Second)

		// Then: one second has been counted
		assert.Equal(t, 1, engine.State().ElapsedSeconds)
	})

	t.Run("Stays uninitialized without cards", func(t *testing.T) {
		// Given: a fresh engine
		engine, scheduler := newTestEngine()

		// When: initializing it with nothing
		state, err := engine.Init(nil)

		// Then: no board exists and no effects are pending
		require.ErrorIs(t, err, apperror.ErrNoCards)
		assert.True(t, state.IsUninitialized())
		assert.Zero(t, scheduler.Pending())
	})
}

func TestEngine_SelectTile(t *testing.T) {
	t.Run("Matched pair leaves the board after the reveal delay", func(t *testing.T) {
		// Given: a running game
		engine, scheduler := newTestEngine()
		_, err := engine.Init(twoCards())
		require.NoError(t, err)

		// When: matching pair a
		engine.SelectTile("front-a")
		state, outcome := engine.SelectTile("back-a")

		// Then: the tiles stay visible until the reveal delay passes
		assert.Equal(t, entity.OutcomeMatched, outcome)
		assert.Len(t, state.Tiles, 4)

		scheduler.Advance(500 * time.Millisecond)

		state = engine.State()
		assert.Len(t, state.Tiles, 2)
		assert.Empty(t, state.Selected)
	})

	t.Run("Mismatch blocks clicks until the cooldown ends", func(t *testing.T) {
		// Given: a running game
		engine, scheduler := newTestEngine()
		_, err := engine.Init(twoCards())
		require.NoError(t, err)

		// When: selecting two fronts
		engine.SelectTile("front-a")
		_, outcome := engine.SelectTile("front-b")
		require.Equal(t, entity.OutcomeMismatched, outcome)

		// Then: further clicks are ignored
		_, outcome = engine.SelectTile("back-a")
		assert.Equal(t, entity.OutcomeIgnored, outcome)

		// When: the cooldown passes
		scheduler.Advance(time.Second)

		// Then: the selection is cleared and clicks work again
		state := engine.State()
		assert.Empty(t, state.Selected)
		assert.False(t, state.CoolingDown)

		_, outcome = engine.SelectTile("back-a")
		assert.Equal(t, entity.OutcomeSelected, outcome)
	})

	t.Run("Completing the board freezes the clock and reports the score", func(t *testing.T) {
		// Given: a game that has been running for three seconds
		engine, scheduler := newTestEngine()
		_, err := engine.Init(twoCards())
		require.NoError(t, err)
		scheduler.Advance(3500 * time.Millisecond)
		require.Equal(t, 3, engine.State().ElapsedSeconds)

		// When: matching both pairs
		engine.SelectTile("front-a")
		engine.SelectTile("back-a")
		scheduler.Advance(500 * time.Millisecond)

		engine.SelectTile("back-b")
		state, outcome := engine.SelectTile("front-b")

		// Then: the final score is fixed right away
		assert.Equal(t, entity.OutcomeCompleted, outcome)
		assert.Equal(t, entity.Score(2, 3, 2), state.FinalScore)
		assert.Equal(t, entity.StatusPlaying, state.Status)

		// When: the completion delay passes and time goes on
		scheduler.Advance(800 * time.Millisecond)
		completed := engine.State()
		assert.True(t, completed.IsComplete())
		scheduler.Advance(5 * time.Second)

		// Then: the clock is frozen
		state = engine.State()
		assert.Equal(t, 3, state.ElapsedSeconds)
		assert.Empty(t, state.Tiles)
		assert.Zero(t, scheduler.Pending())
	})
}

func TestEngine_Reset(t *testing.T) {
	t.Run("Cancels effects of the previous board", func(t *testing.T) {
		// Given: a game waiting for a mismatch cooldown
		engine, scheduler := newTestEngine()
		_, err := engine.Init(twoCards())
		require.NoError(t, err)
		engine.SelectTile("front-a")
		engine.SelectTile("front-b")

		// When: resetting and selecting one tile on the new board
		state, err := engine.Reset()
		require.NoError(t, err)
		engine.SelectTile("front-a")
		scheduler.Advance(time.Second)

		// Then: the old cooldown does not clear the new selection
		state = engine.State()
		assert.Len(t, state.Selected, 1)
		assert.Zero(t, state.Attempts)
		assert.False(t, state.CoolingDown)
	})

	t.Run("Ignores stale effects even when cancellation fails", func(t *testing.T) {
		// Given: a scheduler whose timers cannot be stopped
		engine, scheduler := newTestEngine()
		scheduler.ignoreStop = true
		_, err := engine.Init(twoCards())
		require.NoError(t, err)
		engine.SelectTile("front-a")
		engine.SelectTile("back-a")

		// When: resetting before the reveal delay
		_, err = engine.Reset()
		require.NoError(t, err)
		scheduler.Advance(500 * time.Millisecond)

		// Then: the new board is intact
		state := engine.State()
		assert.Len(t, state.Tiles, 4)
		assert.Empty(t, state.MatchedPairIDs)
	})

	t.Run("Runs exactly one clock", func(t *testing.T) {
		// Given: a game whose clock is running
		engine, scheduler := newTestEngine()
		_, err := engine.Init(twoCards())
		require.NoError(t, err)
		scheduler.Advance(2500 * time.Millisecond)

		// When: resetting and waiting for the restart delay and two seconds
		_, err = engine.Reset()
		require.NoError(t, err)
		scheduler.Advance(300*time.Millisecond + 2*time.Second)

		// Then: exactly two seconds were counted
		assert.Equal(t, 2, engine.State().ElapsedSeconds)
	})

	t.Run("Restarts a completed game", func(t *testing.T) {
		// Given: a completed single-card game
		engine, scheduler := newTestEngine()
		_, err := engine.Init([]entity.Card{{ID: "a", Front: "cat", Back: "mèo"}})
		require.NoError(t, err)
		engine.SelectTile("front-a")
		engine.SelectTile("back-a")
		scheduler.Advance(time.Second)
		completed := engine.State()
		require.True(t, completed.IsComplete())

		// When: resetting
		state, err := engine.Reset()

		// Then: the same card is back on a fresh board
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPlaying, state.Status)
		assert.Len(t, state.Tiles, 2)
		assert.Zero(t, state.Attempts)
		assert.Zero(t, state.FinalScore)
	})
}

func TestEngine_OnChange(t *testing.T) {
	// Given: an engine with a listener
	engine, scheduler := newTestEngine()
	var states []entity.Game
	engine.OnChange(func(state entity.Game) {
		states = append(states, state)
	})
	_, err := engine.Init([]entity.Card{{ID: "a", Front: "cat", Back: "mèo"}})
	require.NoError(t, err)

	// When: completing the board
	engine.SelectTile("front-a")
	engine.SelectTile("back-a")
	scheduler.Advance(time.Second)

	// Then: the last published state is complete
	require.NotEmpty(t, states)
	assert.True(t, states[len(states)-1].IsComplete())
}

func TestEngine_Close(t *testing.T) {
	// Given: a running game with pending effects
	engine, scheduler := newTestEngine()
	_, err := engine.Init(twoCards())
	require.NoError(t, err)
	engine.SelectTile("front-a")
	engine.SelectTile("front-b")

	// When: closing the engine
	engine.Close()
	scheduler.Advance(10 * time.Second)

	// Then: nothing runs afterwards
	state := engine.State()
	assert.True(t, state.IsUninitialized())
	assert.Zero(t, state.ElapsedSeconds)
	assert.Zero(t, scheduler.Pending())
}
