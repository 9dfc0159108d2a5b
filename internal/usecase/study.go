package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
	"github.com/rocketscienceinc/flashcards-backend/internal/shuffle"
)

const saveResultTimeout = 5 * time.Second

type Mode string

const (
	ModeBrowsing Mode = "browsing"
	ModeStudying Mode = "studying"
	ModePlaying  Mode = "playing"
)

type Action string

const (
	ActionShuffle   Action = "shuffle"
	ActionMatchGame Action = "match-game"
	ActionExit      Action = "exit"
)

type cardFeed interface {
	Subscribe(ctx context.Context, deckIDs []string) (<-chan []entity.Card, error)
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
	BestByUser(ctx context.Context, userID string, limit int) ([]entity.GameResult, error)
}

type gameEngine interface {
	Init(cards []entity.Card) (entity.Game, error)
	Reset() (entity.Game, error)
	SelectTile(tileID string) (entity.Game, entity.Outcome)
	State() entity.Game
	Close()
	OnChange(fn func(entity.Game))
}

// View is what the client renders for one session.
type View struct {
	Mode    Mode          `json:"mode"`
	DeckIDs []string      `json:"deckIds"`
	Cards   []entity.Card `json:"cards"`
	Game    *entity.Game  `json:"game,omitempty"`
}

// Update is pushed to the client without a request: a new card snapshot or a game change.
type Update struct {
	View *View        `json:"view,omitempty"`
	Game *entity.Game `json:"game,omitempty"`
}

// StudySession is the per-user state of the study screen: the selected decks, the latest
// card snapshot, the shuffled list and the matching game.
type StudySession struct {
	logger  *slog.Logger
	userID  string
	feed    cardFeed
	results resultRepo
	engine  gameEngine
	now     func() time.Time

	// lock order: mu, then the engine's own lock. Engine callbacks never take mu.
	mu         sync.Mutex
	ctx        context.Context
	controller *shuffle.Controller
	mode       Mode
	latest     []entity.Card
	cancelFeed context.CancelFunc
	feedSeq    uint64

	hookMu   sync.Mutex
	onUpdate func(Update)
	recorded uint64

	lastActive atomic.Int64
}

// NewStudySession binds a session to userID. ctx bounds the lifetime of its card subscriptions.
func NewStudySession(
	ctx context.Context,
	logger *slog.Logger,
	userID string,
	feed cardFeed,
	results resultRepo,
	engine gameEngine,
	source pkg.Source,
) *StudySession {
	session := &StudySession{
		logger:     logger.With("component", "study", "user", userID),
		userID:     userID,
		feed:       feed,
		results:    results,
		engine:     engine,
		now:        time.Now,
		ctx:        ctx,
		controller: shuffle.NewController(source),
		mode:       ModeBrowsing,
		latest:     []entity.Card{},
	}

	session.touch()
	engine.OnChange(session.onGameChange)

	return session
}

func (that *StudySession) UserID() string {
	return that.userID
}

// OnUpdate registers fn for pushed updates. fn must not call back into the session.
func (that *StudySession) OnUpdate(fn func(Update)) {
	that.hookMu.Lock()
	defer that.hookMu.Unlock()

	that.onUpdate = fn
}

// SelectDecks replaces the deck selection and waits for the first snapshot of the new decks.
func (that *StudySession) SelectDecks(deckIDs []string) (View, error) {
	that.touch()

	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "SelectDecks")

	that.stopFeed()
	that.controller.SelectDecks(deckIDs)
	that.latest = []entity.Card{}
	that.feedSeq++

	feedCtx, cancel := context.WithCancel(that.ctx)

	snapshots, err := that.feed.Subscribe(feedCtx, deckIDs)
	if err != nil {
		cancel()
		return that.view(), fmt.Errorf("failed to subscribe to decks: %w", err)
	}
	that.cancelFeed = cancel

	select {
	case cards, ok := <-snapshots:
		if ok {
			that.apply(cards)
		}
	case <-feedCtx.Done():
		return that.view(), fmt.Errorf("failed to load decks: %w", feedCtx.Err())
	}

	go that.consume(that.feedSeq, snapshots)

	log.Debug("decks selected", "decks", len(deckIDs), "cards", len(that.latest))

	return that.view(), nil
}

// HandleAction runs one of the study-screen buttons. Precondition failures are
// returned as apperror warnings and leave the session unchanged.
func (that *StudySession) HandleAction(action Action) (View, error) {
	that.touch()

	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "HandleAction", "action", action)

	switch action {
	case ActionShuffle:
		if err := that.checkPreconditions(); err != nil {
			return that.view(), err
		}

		that.engine.Close()
		that.controller.Shuffle(that.latest)
		that.mode = ModeStudying
	case ActionMatchGame:
		if err := that.checkPreconditions(); err != nil {
			return that.view(), err
		}

		if _, err := that.engine.Init(that.latest); err != nil {
			return that.view(), fmt.Errorf("failed to start match game: %w", err)
		}
		that.controller.ClearCards()
		that.mode = ModePlaying
	case ActionExit:
		that.exit()
	default:
		return that.view(), fmt.Errorf("%w: %s", apperror.ErrUnknownAction, action)
	}

	log.Info("action handled", "mode", that.mode)

	return that.view(), nil
}

// ApplySnapshot stores the latest cards and refreshes the shuffled list in place.
func (that *StudySession) ApplySnapshot(cards []entity.Card) View {
	that.mu.Lock()
	that.apply(cards)
	view := that.view()
	that.mu.Unlock()

	that.push(Update{View: &view})

	return view
}

// SelectTile forwards a click to the running game.
func (that *StudySession) SelectTile(tileID string) (entity.Game, entity.Outcome, error) {
	that.touch()

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.mode != ModePlaying {
		return that.engine.State(), entity.OutcomeIgnored, apperror.ErrGameNotStarted
	}

	state, outcome := that.engine.SelectTile(tileID)

	return state, outcome, nil
}

// ResetGame replays the current cards on a new board.
func (that *StudySession) ResetGame() (entity.Game, error) {
	that.touch()

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.mode != ModePlaying {
		return that.engine.State(), apperror.ErrGameNotStarted
	}

	state, err := that.engine.Reset()
	if err != nil {
		return state, fmt.Errorf("failed to reset game: %w", err)
	}

	return state, nil
}

func (that *StudySession) BestResults(ctx context.Context, limit int) ([]entity.GameResult, error) {
	that.touch()

	results, err := that.results.BestByUser(ctx, that.userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get best results: %w", err)
	}

	return results, nil
}

func (that *StudySession) View() View {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.view()
}

// Logout drops everything the session holds, including the deck selection and the feed.
func (that *StudySession) Logout() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopFeed()
	that.exit()
	that.controller.Clear()
	that.latest = []entity.Card{}

	that.logger.Info("session logged out")
}

// LastActive is the time of the last user request.
func (that *StudySession) LastActive() time.Time {
	return time.Unix(0, that.lastActive.Load())
}

func (that *StudySession) checkPreconditions() error {
	if !that.controller.HasSelection() {
		return apperror.ErrNoDecksSelected
	}

	if len(that.latest) == 0 {
		return apperror.ErrNoCardsInDecks
	}

	return nil
}

func (that *StudySession) exit() {
	that.engine.Close()
	that.controller.ClearCards()
	that.mode = ModeBrowsing
}

func (that *StudySession) stopFeed() {
	if that.cancelFeed != nil {
		that.cancelFeed()
		that.cancelFeed = nil
	}
}

func (that *StudySession) apply(cards []entity.Card) {
	that.latest = entity.CopyCards(cards)
	if that.latest == nil {
		that.latest = []entity.Card{}
	}

	if len(that.controller.Reconcile(cards)) == 0 && that.mode == ModeStudying {
		that.logger.Info("every shuffled card was deleted, leaving study mode")
		that.mode = ModeBrowsing
	}
}

// consume applies snapshots of one subscription; it stops applying once the decks are reselected.
func (that *StudySession) consume(seq uint64, snapshots <-chan []entity.Card) {
	for cards := range snapshots {
		that.mu.Lock()
		if seq != that.feedSeq {
			that.mu.Unlock()
			continue
		}
		that.apply(cards)
		view := that.view()
		that.mu.Unlock()

		that.push(Update{View: &view})
	}
}

func (that *StudySession) view() View {
	view := View{
		Mode:    that.mode,
		DeckIDs: that.controller.SelectedDecks(),
		Cards:   that.controller.Cards(),
	}

	if that.mode == ModePlaying {
		game := that.engine.State()
		view.Game = &game
	}

	return view
}

// onGameChange runs on the engine's notification path, so the result is saved on its own goroutine.
func (that *StudySession) onGameChange(game entity.Game) {
	if game.IsComplete() && that.markRecorded(game.Generation) {
		go that.saveResult(game)
	}

	that.push(Update{Game: &game})
}

// markRecorded reports whether generation is completed for the first time.
func (that *StudySession) markRecorded(generation uint64) bool {
	that.hookMu.Lock()
	defer that.hookMu.Unlock()

	if that.recorded == generation {
		return false
	}
	that.recorded = generation

	return true
}

func (that *StudySession) saveResult(game entity.Game) {
	ctx, cancel := context.WithTimeout(context.Background(), saveResultTimeout)
	defer cancel()

	result := entity.NewGameResult(pkg.GenerateResultID(), that.userID, &game, that.now().UTC())
	if err := that.results.Save(ctx, result); err != nil {
		that.logger.Error("failed to save game result", "error", err)
		return
	}

	that.logger.Info("game result saved", "score", result.Score, "elapsed", result.ElapsedSeconds)
}

func (that *StudySession) push(update Update) {
	that.hookMu.Lock()
	fn := that.onUpdate
	that.hookMu.Unlock()

	if fn != nil {
		fn(update)
	}
}

func (that *StudySession) touch() {
	that.lastActive.Store(that.now().UnixNano())
}
