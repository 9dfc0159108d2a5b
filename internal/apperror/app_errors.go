package apperror

import "errors"

// study preconditions, shown to the user as warnings.
var (
	ErrNoDecksSelected = errors.New("no decks selected")
	ErrNoCardsInDecks  = errors.New("selected decks contain no cards")
	ErrNoCards         = errors.New("no cards to play")
)

var (
	ErrGameNotStarted = errors.New("game is not started")
	ErrUnknownAction  = errors.New("unknown action")
	ErrNotFound       = errors.New("not found")
)

// card writes.
var (
	ErrCardFacesRequired = errors.New("front and back are required")
)

// proxy request validation and upstream configuration.
var (
	ErrTextRequired      = errors.New("text is required")
	ErrLanguagesRequired = errors.New("source and target languages are required")
	ErrModelRequired     = errors.New("model is required")
	ErrPromptRequired    = errors.New("prompt is required")
	ErrFrontRequired     = errors.New("front text is required")
	ErrInvalidCardCount  = errors.New("count must be between 1 and 50")
	ErrAPIKeyMissing     = errors.New("OpenAI API key not configured")
)
