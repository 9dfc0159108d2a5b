package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
	"github.com/rocketscienceinc/flashcards-backend/internal/usecase"
)

const actionSessionUpdate = "session:update"

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	UserID  string   `json:"userId,omitempty"`
	DeckIDs []string `json:"deckIds,omitempty"`
	TileID  string   `json:"tileId,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

type ResponsePayload struct {
	UserID  string              `json:"userId,omitempty"`
	View    *usecase.View       `json:"view,omitempty"`
	Game    *entity.Game        `json:"game,omitempty"`
	Outcome string              `json:"outcome,omitempty"`
	Results []entity.GameResult `json:"results,omitempty"`
	Warning string              `json:"warning,omitempty"`
	Error   string              `json:"error,omitempty"`
}

var outcomeNames = map[entity.Outcome]string{
	entity.OutcomeIgnored:    "ignored",
	entity.OutcomeSelected:   "selected",
	entity.OutcomeMatched:    "matched",
	entity.OutcomeCompleted:  "completed",
	entity.OutcomeMismatched: "mismatched",
}
