// Package matching runs the card-matching game: it drives the entity.Game state
// through tile selections, delayed visual feedback and the elapsed-time clock.
package matching

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
)

// Engine serialises every event of one game session behind a single lock.
// Deferred effects carry the generation they were scheduled for and do
// nothing once the game has been reset or closed.
type Engine struct {
	logger    *slog.Logger
	scheduler Scheduler
	source    pkg.Source
	delays    Delays

	mu       sync.Mutex
	notifyMu sync.Mutex

	cards []entity.Card
	game  *entity.Game

	seq     uint64
	pending map[uint64]Timer
	clockID uint64

	onChange func(entity.Game)
}

func NewEngine(logger *slog.Logger, scheduler Scheduler, source pkg.Source, delays Delays) *Engine {
	if scheduler == nil {
		scheduler = NewClockScheduler()
	}

	return &Engine{
		logger:    logger.With("component", "matching"),
		scheduler: scheduler,
		source:    source,
		delays:    delays,
		game:      entity.NewGame(),
		pending:   make(map[uint64]Timer),
	}
}

// OnChange registers fn to receive the state after every deferred effect and clock tick.
// fn must not call back into the engine.
func (that *Engine) OnChange(fn func(entity.Game)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onChange = fn
}

// Init seeds the engine with cards and starts a new game.
func (that *Engine) Init(cards []entity.Card) (entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cards = entity.CopyCards(cards)

	return that.start(that.delays.Start)
}

// Reset replays the same cards on a freshly shuffled board.
func (that *Engine) Reset() (entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.start(that.delays.Restart)
}

// SelectTile feeds one click into the game. Ignored clicks leave the state untouched.
func (that *Engine) SelectTile(tileID string) (entity.Game, entity.Outcome) {
	that.mu.Lock()
	defer that.mu.Unlock()

	outcome := that.game.Select(tileID)
	generation := that.game.Generation

	switch outcome {
	case entity.OutcomeMatched:
		that.scheduleRemoval(generation, that.game.Selected[1].PairID)
		that.logger.Debug("pair matched", "generation", generation, "attempts", that.game.Attempts)
	case entity.OutcomeCompleted:
		that.stopClock()
		that.scheduleRemoval(generation, that.game.Selected[1].PairID)
		that.schedule(that.delays.Complete, generation, that.game.Complete)
		that.logger.Debug("last pair matched", "generation", generation,
			"score", that.game.FinalScore, "elapsed", that.game.ElapsedSeconds)
	case entity.OutcomeMismatched:
		that.schedule(that.delays.Mismatch, generation, that.game.EndCooldown)
		that.logger.Debug("pair mismatched", "generation", generation, "attempts", that.game.Attempts)
	case entity.OutcomeIgnored, entity.OutcomeSelected:
	}

	return that.game.Clone(), outcome
}

func (that *Engine) State() entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Clone()
}

// Close cancels every pending effect and abandons the board.
func (that *Engine) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelPending()
	that.game.Stop()
}

func (that *Engine) start(clockDelay time.Duration) (entity.Game, error) {
	that.cancelPending()

	if err := that.game.Start(that.cards, that.source); err != nil {
		return that.game.Clone(), fmt.Errorf("failed to start game: %w", err)
	}

	generation := that.game.Generation
	that.schedule(clockDelay, generation, func() {
		that.startClock(generation)
	})

	that.logger.Info("game started", "generation", generation, "pairs", that.game.TotalPairs)

	return that.game.Clone(), nil
}

func (that *Engine) startClock(generation uint64) {
	that.clockID = that.schedule(that.delays.Tick, generation, func() {
		if that.game.Tick() {
			that.startClock(generation)
		}
	})
}

func (that *Engine) stopClock() {
	if timer, ok := that.pending[that.clockID]; ok {
		timer.Stop()
		delete(that.pending, that.clockID)
	}
}

func (that *Engine) scheduleRemoval(generation uint64, pairID string) {
	that.schedule(that.delays.Reveal, generation, func() {
		that.game.RemovePair(pairID)
	})
}

// schedule must be called with mu held.
func (that *Engine) schedule(delay time.Duration, generation uint64, effect func()) uint64 {
	that.seq++
	id := that.seq

	that.pending[id] = that.scheduler.AfterFunc(delay, func() {
		that.mu.Lock()
		delete(that.pending, id)

		if that.game.Generation != generation {
			that.mu.Unlock()
			return
		}

		effect()

		state := that.game.Clone()
		notify := that.onChange

		// hand over to notifyMu so listeners see states in the order they were produced.
		that.notifyMu.Lock()
		that.mu.Unlock()

		if notify != nil {
			notify(state)
		}
		that.notifyMu.Unlock()
	})

	return id
}

func (that *Engine) cancelPending() {
	for id, timer := range that.pending {
		timer.Stop()
		delete(that.pending, id)
	}
}
