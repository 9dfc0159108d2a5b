package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/flashcards-backend/internal/ai"
	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
)

const apiKeyMissingMessage = "OpenAI API key not configured. Set OPENAI_API_KEY in the .env file"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorStatus maps validation errors to 400 and upstream errors to their own status.
func errorStatus(err error) (int, string) {
	var apiErr *ai.APIError

	switch {
	case errors.Is(err, apperror.ErrTextRequired),
		errors.Is(err, apperror.ErrLanguagesRequired),
		errors.Is(err, apperror.ErrModelRequired),
		errors.Is(err, apperror.ErrPromptRequired),
		errors.Is(err, apperror.ErrFrontRequired),
		errors.Is(err, apperror.ErrInvalidCardCount):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrAPIKeyMissing):
		return http.StatusInternalServerError, apiKeyMissingMessage
	case errors.As(err, &apiErr):
		return apiErr.Status, apiErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
