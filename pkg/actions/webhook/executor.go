// Package webhook implements the webhook action: the matched event is
// posted as JSON to an external URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/engagekit/engage/pkg/models"
)

const defaultTimeout = 10 * time.Second

// Payload is the JSON body delivered to the webhook URL.
type Payload struct {
	Event       models.InboundEvent `json:"event"`
	DeliveredAt time.Time           `json:"delivered_at"`
}

// Executor posts events to external URLs.
type Executor struct {
	client *http.Client
}

// NewExecutor creates a webhook executor. A nil client gets a default with
// a bounded timeout so a slow endpoint cannot hold an execution slot open.
func NewExecutor(client *http.Client) *Executor {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Executor{client: client}
}

// ID returns the action subtype.
func (e *Executor) ID() models.ActionType {
	return models.ActionWebhook
}

func (e *Executor) Execute(ctx context.Context, action *models.ActionData, event models.InboundEvent, logger *slog.Logger) error {
	if action.WebhookURL == "" {
		return errors.New("webhook action has no URL")
	}

	body, err := json.Marshal(Payload{
		Event:       event,
		DeliveredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			logger.WarnContext(ctx, "Failed to close webhook response body", "error", closeErr)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	logger.InfoContext(ctx, "Delivered webhook",
		"url", action.WebhookURL,
		"status", resp.StatusCode)

	return nil
}
