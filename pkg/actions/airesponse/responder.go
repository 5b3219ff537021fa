package airesponse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultResponderTimeout = 30 * time.Second

// HTTPResponder calls a text-generation gateway over HTTP. The gateway owns
// model routing and safety filtering; this client only carries the prompt.
type HTTPResponder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPResponder creates a responder against the given gateway URL.
func NewHTTPResponder(baseURL, apiKey string) *HTTPResponder {
	return &HTTPResponder{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultResponderTimeout},
	}
}

type respondRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type respondResponse struct {
	Text string `json:"text"`
}

func (r *HTTPResponder) Respond(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(respondRequest{Model: model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode responder payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/responses", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create responder request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("responder request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("responder gateway returned status %d", resp.StatusCode)
	}

	var result respondResponse

	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return "", fmt.Errorf("failed to decode responder payload: %w", err)
	}

	return result.Text, nil
}
