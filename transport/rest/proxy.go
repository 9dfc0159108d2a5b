package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/flashcards-backend/internal/ai"
)

const maxBodyBytes = 1 << 20

type proxyService interface {
	Translate(ctx context.Context, req ai.TranslateRequest) (string, error)
	Generate(ctx context.Context, req ai.GenerateRequest) (json.RawMessage, error)
	GenerateCards(ctx context.Context, req ai.GenerateCardsRequest) ([]ai.CardDraft, error)
	GenerateBack(ctx context.Context, req ai.GenerateBackRequest) (string, error)
	TranslateText(ctx context.Context, req ai.ChatTranslateRequest) (string, error)
}

type proxyHandlers struct {
	logger  *slog.Logger
	service proxyService
}

type translatedText struct {
	TranslatedText string `json:"translatedText"`
}

type generatedCards struct {
	Cards []ai.CardDraft `json:"cards"`
}

type generatedBack struct {
	Back string `json:"back"`
}

func (that *proxyHandlers) Translate(w http.ResponseWriter, r *http.Request) {
	var req ai.TranslateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text, err := that.service.Translate(r.Context(), req)
	if err != nil {
		that.fail(w, "Translate", err)
		return
	}

	writeJSON(w, http.StatusOK, translatedText{TranslatedText: text})
}

func (that *proxyHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req ai.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	raw, err := that.service.Generate(r.Context(), req)
	if err != nil {
		that.fail(w, "Generate", err)
		return
	}

	writeJSON(w, http.StatusOK, raw)
}

func (that *proxyHandlers) GenerateCards(w http.ResponseWriter, r *http.Request) {
	var req ai.GenerateCardsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cards, err := that.service.GenerateCards(r.Context(), req)
	if err != nil {
		that.fail(w, "GenerateCards", err)
		return
	}

	if cards == nil {
		cards = []ai.CardDraft{}
	}

	writeJSON(w, http.StatusOK, generatedCards{Cards: cards})
}

func (that *proxyHandlers) GenerateBack(w http.ResponseWriter, r *http.Request) {
	var req ai.GenerateBackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	back, err := that.service.GenerateBack(r.Context(), req)
	if err != nil {
		that.fail(w, "GenerateBack", err)
		return
	}

	writeJSON(w, http.StatusOK, generatedBack{Back: back})
}

func (that *proxyHandlers) TranslateText(w http.ResponseWriter, r *http.Request) {
	var req ai.ChatTranslateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text, err := that.service.TranslateText(r.Context(), req)
	if err != nil {
		that.fail(w, "TranslateText", err)
		return
	}

	writeJSON(w, http.StatusOK, translatedText{TranslatedText: text})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	return true
}

func (that *proxyHandlers) fail(w http.ResponseWriter, method string, err error) {
	status, message := errorStatus(err)

	if status >= http.StatusInternalServerError {
		that.logger.Error("proxy request failed", "method", method, "error", err)
	} else {
		that.logger.Debug("proxy request rejected", "method", method, "status", status, "error", err)
	}

	writeError(w, status, message)
}
