package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/flashcards-backend/internal/apperror"
)

const (
	DefaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel = "gpt-4o-mini"
)

const (
	quotaMessage      = "OpenAI quota exhausted or billing is not configured. Check the account at https://platform.openai.com/account/billing"
	invalidKeyMessage = "OpenAI API key is invalid. Check OPENAI_API_KEY in the .env file"
	rateLimitMessage  = "Rate limit exceeded. Please try again in a few seconds."
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Completion is one system+user exchange.
type Completion struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

type OpenAI struct {
	client *http.Client
	apiKey string
	url    string
	model  string
}

func NewOpenAI(client *http.Client, apiKey, url, model string) *OpenAI {
	if url == "" {
		url = DefaultOpenAIURL
	}

	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client: client,
		apiKey: apiKey,
		url:    url,
		model:  model,
	}
}

func (that *OpenAI) Configured() bool {
	return that.apiKey != ""
}

// Complete returns the content of the first choice, or "" when there is none.
func (that *OpenAI) Complete(ctx context.Context, completion Completion) (string, error) {
	if !that.Configured() {
		return "", apperror.ErrAPIKeyMissing
	}

	request := chatRequest{
		Model: that.model,
		Messages: []chatMessage{
			{Role: "system", Content: completion.System},
			{Role: "user", Content: completion.User},
		},
		Temperature: completion.Temperature,
		MaxTokens:   completion.MaxTokens,
	}

	resp, err := postJSON(ctx, that.client, that.url, map[string]string{
		"Authorization": "Bearer " + that.apiKey,
	}, request)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI: %w", err)
	}

	if !resp.ok() {
		return "", openAIError(resp.status, resp.body)
	}

	var decoded chatResponse
	if err = json.Unmarshal(resp.body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode OpenAI response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		return "", nil
	}

	return decoded.Choices[0].Message.Content, nil
}

func openAIError(status int, raw []byte) *APIError {
	apiErr := decodeError(status, raw)

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("ChatGPT API failed with status %d", status)
	}

	switch {
	case apiErr.Code == "insufficient_quota" || apiErr.Type == "insufficient_quota":
		apiErr.Message = quotaMessage
	case strings.Contains(apiErr.Message, "quota") || strings.Contains(apiErr.Message, "billing"):
		apiErr.Message = quotaMessage
	case apiErr.Code == "invalid_api_key" || strings.Contains(apiErr.Message, "Invalid API key"):
		apiErr.Message = invalidKeyMessage
	case apiErr.Code == "rate_limit_exceeded":
		apiErr.Message = rateLimitMessage
	}

	return apiErr
}
