package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/flashcards-backend/internal/entity"
)

const (
	defaultResultsLimit = 10
	maxResultsLimit     = 100
)

type resultService interface {
	BestByUser(ctx context.Context, userID string, limit int) ([]entity.GameResult, error)
}

type resultHandlers struct {
	service resultService
}

type bestResults struct {
	Results []entity.GameResult `json:"results"`
}

// BestByUser lists the highest matching-game scores of a user; ?limit= caps the list.
func (that *resultHandlers) BestByUser(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxResultsLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	results, err := that.service.BestByUser(r.Context(), r.PathValue("userID"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, bestResults{Results: results})
}
