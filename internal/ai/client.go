// Package ai calls the text services used to author cards: OpenAI chat completions,
// the Hugging Face inference router and LibreTranslate.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// APIError is a non-2xx answer of an upstream service. Message is safe to show to users.
type APIError struct {
	Status  int
	Code    string
	Type    string
	Message string
}

func (that *APIError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", that.Status, that.Message)
}

// NewHTTPClient returns the client shared by the upstream services.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

type response struct {
	status int
	body   []byte
}

func (that response) ok() bool {
	return that.status >= http.StatusOK && that.status < http.StatusMultipleChoices
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) (response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}

	return response{status: resp.StatusCode, body: raw}, nil
}

// errorBody covers the error shapes of all three services.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type openAIErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
}

func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	var text string
	var detail openAIErrorDetail

	switch {
	case json.Unmarshal(body.Error, &text) == nil && text != "":
		apiErr.Message = text
	case json.Unmarshal(body.Error, &detail) == nil && detail.Message != "":
		apiErr.Message = detail.Message
		apiErr.Code = detail.Code
		apiErr.Type = detail.Type
	default:
		apiErr.Message = body.Message
	}

	return apiErr
}
