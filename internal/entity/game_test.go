package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
)

func newSource() *rand.Rand {
	return rand.New(rand.NewSource(1)) //nolint: gosec // test
}

func catDogCards() []Card {
	return []Card{
		{ID: "a", Front: "cat", Back: "mèo"},
		{ID: "b", Front: "dog", Back: "chó"},
	}
}

func startedGame(t *testing.T, cards []Card) *Game {
	t.Helper()

	game := NewGame()
	require.NoError(t, game.Start(cards, newSource()))

	return game
}

func TestBuildTiles(t *testing.T) {
	// Given: three cards
	cards := []Card{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	// When: building the tiles
	tiles := BuildTiles(cards)

	// Then: each card yields one front and one back tile
	require.Len(t, tiles, 6)

	faces := map[Face]int{}
	pairs := map[string]int{}
	for _, tile := range tiles {
		faces[tile.Face]++
		pairs[tile.PairID]++
	}

	assert.Equal(t, 3, faces[FaceFront])
	assert.Equal(t, 3, faces[FaceBack])
	for _, card := range cards {
		assert.Equal(t, 2, pairs[card.ID])
	}
	assert.Equal(t, "front-a", tiles[0].ID)
	assert.Equal(t, "back-a", tiles[1].ID)
}

func TestIsMatch(t *testing.T) {
	t.Run("Front and back of one card match", func(t *testing.T) {
		assert.True(t, IsMatch(
			Tile{PairID: "a", Face: FaceFront},
			Tile{PairID: "a", Face: FaceBack},
		))
	})

	t.Run("Same face of one pair does not match", func(t *testing.T) {
		assert.False(t, IsMatch(
			Tile{PairID: "a", Face: FaceFront},
			Tile{PairID: "a", Face: FaceFront},
		))
	})

	t.Run("Different pairs do not match", func(t *testing.T) {
		assert.False(t, IsMatch(
			Tile{PairID: "a", Face: FaceFront},
			Tile{PairID: "b", Face: FaceBack},
		))
	})
}

func TestGame_Start(t *testing.T) {
	t.Run("Lays out two tiles per card and zeroes counters", func(t *testing.T) {
		// Given: a game that has already been played
		game := startedGame(t, catDogCards())
		game.Attempts = 3
		game.ElapsedSeconds = 12
		generation := game.Generation

		// When: starting it again
		err := game.Start(catDogCards(), newSource())

		// Then: the board is full and counters are zero
		require.NoError(t, err)
		assert.Len(t, game.Tiles, 4)
		assert.Empty(t, game.Selected)
		assert.Empty(t, game.MatchedPairIDs)
		assert.Zero(t, game.Attempts)
		assert.Zero(t, game.CorrectMatches)
		assert.Zero(t, game.ElapsedSeconds)
		assert.Equal(t, 2, game.TotalPairs)
		assert.Equal(t, StatusPlaying, game.Status)
		assert.Equal(t, generation+1, game.Generation)
	})

	t.Run("Stays uninitialized without cards", func(t *testing.T) {
		// Given: a new game
		game := NewGame()

		// When: starting it with no cards
		err := game.Start(nil, newSource())

		// Then: ErrNoCards is reported and no board exists
		require.ErrorIs(t, err, apperror.ErrNoCards)
		assert.True(t, game.IsUninitialized())
		assert.Empty(t, game.Tiles)
	})
}

func TestGame_Select(t *testing.T) {
	t.Run("Front then back of one card is a match", func(t *testing.T) {
		// Given: a started game
		game := startedGame(t, catDogCards())

		// When: selecting front-a then back-a
		first := game.Select("front-a")
		second := game.Select("back-a")

		// Then: the pair is matched with one attempt
		assert.Equal(t, OutcomeSelected, first)
		assert.Equal(t, OutcomeMatched, second)
		assert.True(t, game.MatchedPairIDs["a"])
		assert.Equal(t, 1, game.CorrectMatches)
		assert.Equal(t, 1, game.Attempts)
		assert.False(t, game.CoolingDown)
	})

	t.Run("Fronts of different cards are a mismatch", func(t *testing.T) {
		// Given: a started game
		game := startedGame(t, catDogCards())

		// When: selecting front-a then front-b
		game.Select("front-a")
		outcome := game.Select("front-b")

		// Then: nothing is matched and the cooldown starts
		assert.Equal(t, OutcomeMismatched, outcome)
		assert.Empty(t, game.MatchedPairIDs)
		assert.Equal(t, 1, game.Attempts)
		assert.True(t, game.CoolingDown)
		assert.Len(t, game.Selected, 2)
	})

	t.Run("Same-face tiles of one pair never match", func(t *testing.T) {
		// Given: a board that holds two front tiles of one pair
		game := startedGame(t, catDogCards())
		game.Tiles = []Tile{
			{ID: "x1", PairID: "a", Face: FaceFront},
			{ID: "x2", PairID: "a", Face: FaceFront},
		}

		// When: selecting both
		game.Select("x1")
		outcome := game.Select("x2")

		// Then: it is a mismatch
		assert.Equal(t, OutcomeMismatched, outcome)
		assert.Empty(t, game.MatchedPairIDs)
	})

	t.Run("Clicks are ignored while two tiles are pending", func(t *testing.T) {
		// Given: a mismatched selection
		game := startedGame(t, catDogCards())
		game.Select("front-a")
		game.Select("front-b")

		// When: selecting a third tile
		outcome := game.Select("back-a")

		// Then: it is ignored
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Equal(t, 1, game.Attempts)
	})

	t.Run("Clicks are ignored during the mismatch cooldown", func(t *testing.T) {
		// Given: a game cooling down with an empty selection
		game := startedGame(t, catDogCards())
		game.CoolingDown = true

		// When: selecting a tile
		outcome := game.Select("front-a")

		// Then: it is ignored
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Empty(t, game.Selected)
	})

	t.Run("Selecting the same tile twice is ignored", func(t *testing.T) {
		// Given: one selected tile
		game := startedGame(t, catDogCards())
		game.Select("front-a")

		// When: selecting it again
		outcome := game.Select("front-a")

		// Then: it is ignored and no attempt is counted
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Len(t, game.Selected, 1)
		assert.Zero(t, game.Attempts)
	})

	t.Run("Tiles of a matched pair are ignored", func(t *testing.T) {
		// Given: a matched pair still on the board
		game := startedGame(t, catDogCards())
		game.Select("front-a")
		game.Select("back-a")
		game.Selected = nil

		// When: selecting one of its tiles
		outcome := game.Select("front-a")

		// Then: it is ignored
		assert.Equal(t, OutcomeIgnored, outcome)
	})

	t.Run("Unknown tiles are ignored", func(t *testing.T) {
		game := startedGame(t, catDogCards())

		assert.Equal(t, OutcomeIgnored, game.Select("front-z"))
	})

	t.Run("Selections are ignored before the game starts", func(t *testing.T) {
		game := NewGame()

		assert.Equal(t, OutcomeIgnored, game.Select("front-a"))
	})

	t.Run("Matching the last pair completes with a final score", func(t *testing.T) {
		// Given: a game with one pair left and some elapsed time
		game := startedGame(t, catDogCards())
		game.Select("front-a")
		game.Select("back-a")
		game.RemovePair("a")
		game.ElapsedSeconds = 30

		// When: matching the last pair
		game.Select("back-b")
		outcome := game.Select("front-b")

		// Then: the final score uses the current time and attempts
		assert.Equal(t, OutcomeCompleted, outcome)
		assert.True(t, game.AllMatched())
		assert.Equal(t, Score(2, 30, 2), game.FinalScore)
		assert.Equal(t, StatusPlaying, game.Status)

		// When: the completion transition runs
		game.Complete()

		// Then: the game is complete
		assert.True(t, game.IsComplete())
	})
}

func TestGame_RemovePairAndCooldown(t *testing.T) {
	t.Run("RemovePair drops both tiles and clears the selection", func(t *testing.T) {
		// Given: a matched pair
		game := startedGame(t, catDogCards())
		game.Select("front-a")
		game.Select("back-a")

		// When: removing the pair
		game.RemovePair("a")

		// Then: only the other pair is left on the board
		assert.Len(t, game.Tiles, 2)
		for _, tile := range game.Tiles {
			assert.Equal(t, "b", tile.PairID)
		}
		assert.Empty(t, game.Selected)
	})

	t.Run("EndCooldown clears the selection", func(t *testing.T) {
		// Given: a mismatched selection
		game := startedGame(t, catDogCards())
		game.Select("front-a")
		game.Select("front-b")

		// When: the cooldown ends
		game.EndCooldown()

		// Then: nothing is selected and clicks are accepted again
		assert.Empty(t, game.Selected)
		assert.False(t, game.CoolingDown)
		assert.Equal(t, OutcomeSelected, game.Select("front-a"))
	})
}

func TestGame_Tick(t *testing.T) {
	t.Run("Advances while playing", func(t *testing.T) {
		game := startedGame(t, catDogCards())

		assert.True(t, game.Tick())
		assert.True(t, game.Tick())
		assert.Equal(t, 2, game.ElapsedSeconds)
	})

	t.Run("Stops once every pair is matched", func(t *testing.T) {
		// Given: a fully matched single-card game
		game := startedGame(t, []Card{{ID: "a", Front: "cat", Back: "mèo"}})
		game.Select("front-a")
		game.Select("back-a")

		// When: the clock ticks
		running := game.Tick()

		// Then: time does not advance
		assert.False(t, running)
		assert.Zero(t, game.ElapsedSeconds)
	})

	t.Run("Does nothing when uninitialized", func(t *testing.T) {
		game := NewGame()

		assert.False(t, game.Tick())
	})
}

func TestGame_Stop(t *testing.T) {
	// Given: a started game
	game := startedGame(t, catDogCards())
	generation := game.Generation

	// When: stopping it
	game.Stop()

	// Then: the board is gone and the generation moved on
	assert.True(t, game.IsUninitialized())
	assert.Empty(t, game.Tiles)
	assert.Greater(t, game.Generation, generation)
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with a selection and a match
	game := startedGame(t, catDogCards())
	game.Select("front-a")
	game.Select("back-a")

	// When: cloning and mutating the clone
	clone := game.Clone()
	clone.Tiles[0].Text = "changed"
	clone.MatchedPairIDs["b"] = true
	clone.Selected = nil

	// Then: the original is unaffected
	assert.NotEqual(t, "changed", game.Tiles[0].Text)
	assert.False(t, game.MatchedPairIDs["b"])
	assert.Len(t, game.Selected, 2)
}

func TestScore(t *testing.T) {
	t.Run("Penalises time and wrong attempts", func(t *testing.T) {
		assert.Equal(t, 4600, Score(5, 30, 7))
	})

	t.Run("Is clamped at zero", func(t *testing.T) {
		assert.Equal(t, 0, Score(1, 1000, 50))
	})

	t.Run("Does not penalise the minimum number of attempts", func(t *testing.T) {
		assert.Equal(t, 3000, Score(3, 0, 3))
	})

	t.Run("Does not reward fewer attempts than pairs", func(t *testing.T) {
		assert.Equal(t, 2000, Score(2, 0, 0))
	})
}
