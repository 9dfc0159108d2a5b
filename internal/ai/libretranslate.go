package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const DefaultLibreTranslateURL = "https://libretranslate.com/translate"

const translateRateLimitMessage = "Request limit exceeded. Please try again later."

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

type LibreTranslate struct {
	client *http.Client
	url    string
	apiKey string
}

func NewLibreTranslate(client *http.Client, url, apiKey string) *LibreTranslate {
	if url == "" {
		url = DefaultLibreTranslateURL
	}

	return &LibreTranslate{
		client: client,
		url:    url,
		apiKey: apiKey,
	}
}

func (that *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := postJSON(ctx, that.client, that.url, nil, libreRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: that.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call LibreTranslate: %w", err)
	}

	if !resp.ok() {
		apiErr := decodeError(resp.status, resp.body)
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("Translation failed with status %d", resp.status)
		}

		if resp.status == http.StatusTooManyRequests {
			apiErr.Message = translateRateLimitMessage
		}

		return "", apiErr
	}

	var decoded libreResponse
	if err = json.Unmarshal(resp.body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode LibreTranslate response: %w", err)
	}

	return decoded.TranslatedText, nil
}
