package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultHuggingFaceRouterURL = "https://router.huggingface.co/hf-inference"
	DefaultHuggingFaceLegacyURL = "https://api-inference.huggingface.co"
)

const (
	permissionMessage    = `The token lacks permissions. Create a new token with "write" access at https://huggingface.co/settings/tokens`
	modelNotFoundMessage = "Model not found or the endpoint does not support it."
)

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type inferenceRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters json.RawMessage   `json:"parameters"`
	Options    *inferenceOptions `json:"options,omitempty"`
}

var errInvalidJSON = errors.New("failed to decode Hugging Face response: invalid json")

type HuggingFace struct {
	client    *http.Client
	token     string
	routerURL string
	legacyURL string
}

func NewHuggingFace(client *http.Client, token, routerURL, legacyURL string) *HuggingFace {
	if routerURL == "" {
		routerURL = DefaultHuggingFaceRouterURL
	}

	if legacyURL == "" {
		legacyURL = DefaultHuggingFaceLegacyURL
	}

	return &HuggingFace{
		client:    client,
		token:     token,
		routerURL: strings.TrimRight(routerURL, "/"),
		legacyURL: strings.TrimRight(legacyURL, "/"),
	}
}

// Generate runs model on prompt and returns the provider JSON untouched. The router
// endpoints are tried first; each 404 falls through to the next variant.
func (that *HuggingFace) Generate(ctx context.Context, model, prompt string, parameters json.RawMessage) (json.RawMessage, error) {
	if len(parameters) == 0 {
		parameters = json.RawMessage(`{}`)
	}

	headers := map[string]string{}
	if that.token != "" {
		headers["Authorization"] = "Bearer " + that.token
	}

	var resp response
	for _, endpoint := range that.endpoints(model) {
		request := inferenceRequest{Inputs: prompt, Parameters: parameters}
		if endpoint.waitForModel {
			request.Options = &inferenceOptions{WaitForModel: true}
		}

		var err error
		resp, err = postJSON(ctx, that.client, endpoint.url, headers, request)
		if err != nil {
			return nil, fmt.Errorf("failed to call Hugging Face: %w", err)
		}

		if resp.status != http.StatusNotFound {
			break
		}
	}

	if !resp.ok() {
		return nil, huggingFaceError(resp.status, resp.body)
	}

	if !json.Valid(resp.body) {
		return nil, errInvalidJSON
	}

	return resp.body, nil
}

type inferenceEndpoint struct {
	url          string
	waitForModel bool
}

func (that *HuggingFace) endpoints(model string) []inferenceEndpoint {
	return []inferenceEndpoint{
		{url: that.routerURL + "/models/" + model},
		{url: that.routerURL + "/" + model},
		{url: that.legacyURL + "/models/" + model, waitForModel: true},
	}
}

func huggingFaceError(status int, raw []byte) *APIError {
	apiErr := decodeError(status, raw)

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("Text generation failed with status %d", status)
	}

	if strings.Contains(apiErr.Message, "sufficient permissions") || strings.Contains(apiErr.Message, "authentication method") {
		apiErr.Message = permissionMessage
	}

	if status == http.StatusNotFound {
		apiErr.Message = modelNotFoundMessage
	}

	return apiErr
}
