package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
)

const (
	MinCardCount = 1
	MaxCardCount = 50
)

var (
	cardsCompletion     = Completion{Temperature: 0.9, MaxTokens: 2000}
	backCompletion      = Completion{Temperature: 0.7, MaxTokens: 500}
	translateCompletion = Completion{Temperature: 0.3, MaxTokens: 500}
)

type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type GenerateRequest struct {
	Model      string          `json:"model"`
	Prompt     string          `json:"prompt"`
	Parameters json.RawMessage `json:"parameters"`
}

type GenerateCardsRequest struct {
	Description string     `json:"description"`
	Count       int        `json:"count"`
	Purpose     string     `json:"purpose"`
	DeckConfig  DeckConfig `json:"deckConfig"`
	Tags        []string   `json:"tags"`
}

type GenerateBackRequest struct {
	Front      string     `json:"front"`
	Purpose    string     `json:"purpose"`
	DeckConfig DeckConfig `json:"deckConfig"`
	Tags       []string   `json:"tags"`
}

type ChatTranslateRequest struct {
	Text       string     `json:"text"`
	DeckConfig DeckConfig `json:"deckConfig"`
	Tags       []string   `json:"tags"`
}

// Service validates authoring requests and post-processes what the upstream services return.
type Service struct {
	logger      *slog.Logger
	openAI      *OpenAI
	huggingFace *HuggingFace
	libre       *LibreTranslate
}

func NewService(logger *slog.Logger, openAI *OpenAI, huggingFace *HuggingFace, libre *LibreTranslate) *Service {
	return &Service{
		logger:      logger.With("component", "ai"),
		openAI:      openAI,
		huggingFace: huggingFace,
		libre:       libre,
	}
}

func (that *Service) OpenAIConfigured() bool {
	return that.openAI.Configured()
}

func (that *Service) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", apperror.ErrTextRequired
	}

	if req.Source == "" || req.Target == "" {
		return "", apperror.ErrLanguagesRequired
	}

	that.logger.Debug("translate", "source", req.Source, "target", req.Target, "length", len(req.Text))

	return that.libre.Translate(ctx, req.Text, req.Source, req.Target)
}

func (that *Service) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	if req.Model == "" {
		return nil, apperror.ErrModelRequired
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperror.ErrPromptRequired
	}

	that.logger.Debug("generate", "model", req.Model, "length", len(req.Prompt))

	return that.huggingFace.Generate(ctx, req.Model, req.Prompt, req.Parameters)
}

// GenerateCards may return fewer than Count cards once near-duplicates are removed.
func (that *Service) GenerateCards(ctx context.Context, req GenerateCardsRequest) ([]CardDraft, error) {
	log := that.logger.With("method", "GenerateCards")

	if req.Count < MinCardCount || req.Count > MaxCardCount {
		return nil, apperror.ErrInvalidCardCount
	}

	if !that.openAI.Configured() {
		return nil, apperror.ErrAPIKeyMissing
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = req.DeckConfig.Description(req.Purpose)
	}

	completion := cardsCompletion
	completion.System = systemPrompt(req.Purpose, req.DeckConfig, req.Tags,
		generateCardsInstructions(req.Purpose, req.DeckConfig, description, req.Count))
	completion.User = req.Description

	content, err := that.openAI.Complete(ctx, completion)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cards: %w", err)
	}

	cards := ParseCards(content, req.Count)
	unique := RemoveDuplicateCards(cards)

	if removed := len(cards) - len(unique); removed > 0 {
		log.Info("removed similar generated cards", "removed", removed, "kept", len(unique))
	}

	return unique, nil
}

func (that *Service) GenerateBack(ctx context.Context, req GenerateBackRequest) (string, error) {
	if strings.TrimSpace(req.Front) == "" {
		return "", apperror.ErrFrontRequired
	}

	if !that.openAI.Configured() {
		return "", apperror.ErrAPIKeyMissing
	}

	completion := backCompletion
	completion.System = systemPrompt(req.Purpose, req.DeckConfig, req.Tags,
		"Write the back of a flashcard for the given front. Return only the back.")
	completion.User = fmt.Sprintf("Front: %q\n\nBack:", req.Front)

	content, err := that.openAI.Complete(ctx, completion)
	if err != nil {
		return "", fmt.Errorf("failed to generate back: %w", err)
	}

	return strings.TrimSpace(content), nil
}

// TranslateText translates with the chat model using the deck language pair.
func (that *Service) TranslateText(ctx context.Context, req ChatTranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", apperror.ErrTextRequired
	}

	if !that.openAI.Configured() {
		return "", apperror.ErrAPIKeyMissing
	}

	completion := translateCompletion
	completion.System, completion.User = translatePrompts(req.DeckConfig, strings.TrimSpace(req.Text))

	content, err := that.openAI.Complete(ctx, completion)
	if err != nil {
		return "", fmt.Errorf("failed to translate: %w", err)
	}

	return CleanTranslation(content), nil
}
