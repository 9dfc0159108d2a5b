package entity

import (
	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
)

type GameStatus string

const (
	StatusUninitialized GameStatus = "uninitialized"
	StatusPlaying       GameStatus = "playing"
	StatusComplete      GameStatus = "complete"
)

const (
	baseScorePerPair   = 1000
	penaltyPerSecond   = 10
	penaltyPerMismatch = 50
)

// Outcome describes what a tile selection did to the game.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeSelected
	OutcomeMatched
	OutcomeCompleted
	OutcomeMismatched
)

// Game is the state of one matching playthrough.
type Game struct {
	Generation     uint64          `json:"generation"`
	Tiles          []Tile          `json:"tiles"`
	Selected       []Tile          `json:"selected"`
	MatchedPairIDs map[string]bool `json:"matchedPairIds"`
	Attempts       int             `json:"attempts"`
	CorrectMatches int             `json:"correctMatches"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	TotalPairs     int             `json:"totalPairs"`
	FinalScore     int             `json:"finalScore"`
	CoolingDown    bool            `json:"coolingDown"`
	Status         GameStatus      `json:"status"`
}

func NewGame() *Game {
	return &Game{
		Status:         StatusUninitialized,
		MatchedPairIDs: map[string]bool{},
	}
}

// Start lays out a freshly shuffled board for cards and zeroes every counter.
// The generation is bumped even when cards is empty, so effects scheduled for
// the previous board can no longer apply.
func (that *Game) Start(cards []Card, src pkg.Source) error {
	that.Generation++
	that.Selected = nil
	that.MatchedPairIDs = map[string]bool{}
	that.Attempts = 0
	that.CorrectMatches = 0
	that.ElapsedSeconds = 0
	that.FinalScore = 0
	that.CoolingDown = false

	if len(cards) == 0 {
		that.Tiles = nil
		that.TotalPairs = 0
		that.Status = StatusUninitialized

		return apperror.ErrNoCards
	}

	that.Tiles = pkg.Shuffle(BuildTiles(cards), src)
	that.TotalPairs = len(cards)
	that.Status = StatusPlaying

	return nil
}

// Stop abandons the board; pending effects of the old generation become no-ops.
func (that *Game) Stop() {
	that.Generation++
	that.Tiles = nil
	that.Selected = nil
	that.MatchedPairIDs = map[string]bool{}
	that.CoolingDown = false
	that.Status = StatusUninitialized
}

// Select adds a tile to the selection and evaluates the pair once two tiles are chosen.
func (that *Game) Select(tileID string) Outcome {
	if !that.IsPlaying() || that.CoolingDown || len(that.Selected) >= 2 {
		return OutcomeIgnored
	}

	tile, ok := that.tile(tileID)
	if !ok || that.MatchedPairIDs[tile.PairID] || that.isSelected(tileID) {
		return OutcomeIgnored
	}

	that.Selected = append(that.Selected, tile)
	if len(that.Selected) < 2 {
		return OutcomeSelected
	}

	that.Attempts++

	if !IsMatch(that.Selected[0], that.Selected[1]) {
		that.CoolingDown = true
		return OutcomeMismatched
	}

	that.MatchedPairIDs[tile.PairID] = true
	that.CorrectMatches++

	if that.AllMatched() {
		that.FinalScore = Score(that.TotalPairs, that.ElapsedSeconds, that.Attempts)
		return OutcomeCompleted
	}

	return OutcomeMatched
}

// RemovePair takes both tiles of a matched pair off the board and clears the selection.
func (that *Game) RemovePair(pairID string) {
	tiles := that.Tiles[:0]
	for _, tile := range that.Tiles {
		if tile.PairID != pairID {
			tiles = append(tiles, tile)
		}
	}

	that.Tiles = tiles
	that.Selected = nil
}

// EndCooldown clears a mismatched selection.
func (that *Game) EndCooldown() {
	that.Selected = nil
	that.CoolingDown = false
}

// Tick advances the clock by one second; it reports false once the clock should stop.
func (that *Game) Tick() bool {
	if !that.IsPlaying() || that.AllMatched() {
		return false
	}

	that.ElapsedSeconds++

	return true
}

func (that *Game) Complete() {
	if that.IsPlaying() && that.AllMatched() {
		that.Status = StatusComplete
	}
}

func (that *Game) AllMatched() bool {
	return that.TotalPairs > 0 && len(that.MatchedPairIDs) == that.TotalPairs
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsComplete() bool {
	return that.Status == StatusComplete
}

func (that *Game) IsUninitialized() bool {
	return that.Status == StatusUninitialized
}

// Clone returns a deep copy safe to hand outside the engine.
func (that *Game) Clone() Game {
	clone := *that
	clone.Tiles = append([]Tile(nil), that.Tiles...)
	clone.Selected = append([]Tile(nil), that.Selected...)

	clone.MatchedPairIDs = make(map[string]bool, len(that.MatchedPairIDs))
	for pairID := range that.MatchedPairIDs {
		clone.MatchedPairIDs[pairID] = true
	}

	return clone
}

func (that *Game) tile(tileID string) (Tile, bool) {
	for _, tile := range that.Tiles {
		if tile.ID == tileID {
			return tile, true
		}
	}

	return Tile{}, false
}

func (that *Game) isSelected(tileID string) bool {
	for _, tile := range that.Selected {
		if tile.ID == tileID {
			return true
		}
	}

	return false
}

// Score rewards speed and accuracy; only attempts beyond one per pair are penalised.
func Score(totalPairs, elapsedSeconds, attempts int) int {
	wrongAttempts := max(0, attempts-totalPairs)
	score := baseScorePerPair*totalPairs - penaltyPerSecond*elapsedSeconds - penaltyPerMismatch*wrongAttempts

	return max(0, score)
}
