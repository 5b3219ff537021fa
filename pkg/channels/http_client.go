package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPClient delivers outbound messages through the platform delivery
// service's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a delivery client against the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (c *HTTPClient) SendDirectMessage(ctx context.Context, channelID, username, text string) error {
	return c.post(ctx, "/messages", map[string]string{
		"channel_id": channelID,
		"username":   username,
		"text":       text,
	})
}

func (c *HTTPClient) ReplyToComment(ctx context.Context, channelID, postID, commentID, text string) error {
	return c.post(ctx, "/replies", map[string]string{
		"channel_id": channelID,
		"post_id":    postID,
		"comment_id": commentID,
		"text":       text,
	})
}

func (c *HTTPClient) post(ctx context.Context, path string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode delivery payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create delivery request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("delivery service returned status %d", resp.StatusCode)
	}

	return nil
}

// LogClient logs outbound messages instead of delivering them. Used in
// development when no delivery service is configured.
type LogClient struct {
	logger *slog.Logger
}

func NewLogClient(logger *slog.Logger) *LogClient {
	return &LogClient{logger: logger.With("module", "log_client")}
}

func (c *LogClient) SendDirectMessage(ctx context.Context, channelID, username, text string) error {
	c.logger.InfoContext(ctx, "Would send direct message",
		"channel_id", channelID, "username", username, "text", text)

	return nil
}

func (c *LogClient) ReplyToComment(ctx context.Context, channelID, postID, commentID, text string) error {
	c.logger.InfoContext(ctx, "Would reply to comment",
		"channel_id", channelID, "post_id", postID, "comment_id", commentID, "text", text)

	return nil
}
