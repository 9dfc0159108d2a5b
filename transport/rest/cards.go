package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
)

type cardService interface {
	Save(ctx context.Context, card *entity.Card) error
	Delete(ctx context.Context, deckID, cardID string) error
}

// cardHandlers write deck cards; every write is picked up by the live study feed.
type cardHandlers struct {
	logger  *slog.Logger
	service cardService
}

type cardFaces struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func (that *cardHandlers) Create(w http.ResponseWriter, r *http.Request) {
	card, ok := decodeCard(w, r)
	if !ok {
		return
	}
	card.ID = pkg.GenerateCardID()

	that.save(w, r, card, http.StatusCreated)
}

// Update replaces both faces of a card, creating it when the id is new.
func (that *cardHandlers) Update(w http.ResponseWriter, r *http.Request) {
	card, ok := decodeCard(w, r)
	if !ok {
		return
	}
	card.ID = r.PathValue("cardID")

	that.save(w, r, card, http.StatusOK)
}

func (that *cardHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deckID, cardID := r.PathValue("deckID"), r.PathValue("cardID")

	err := that.service.Delete(r.Context(), deckID, cardID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		writeError(w, http.StatusNotFound, "card not found")
	case err != nil:
		that.logger.Error("failed to delete card", "deck", deckID, "card", cardID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (that *cardHandlers) save(w http.ResponseWriter, r *http.Request, card *entity.Card, status int) {
	if err := that.service.Save(r.Context(), card); err != nil {
		that.logger.Error("failed to save card", "deck", card.DeckID, "card", card.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, status, card)
}

func decodeCard(w http.ResponseWriter, r *http.Request) (*entity.Card, bool) {
	var faces cardFaces
	if !decodeJSON(w, r, &faces) {
		return nil, false
	}

	faces.Front = strings.TrimSpace(faces.Front)
	faces.Back = strings.TrimSpace(faces.Back)
	if faces.Front == "" || faces.Back == "" {
		writeError(w, http.StatusBadRequest, apperror.ErrCardFacesRequired.Error())
		return nil, false
	}

	return &entity.Card{DeckID: r.PathValue("deckID"), Front: faces.Front, Back: faces.Back}, true
}
