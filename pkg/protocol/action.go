// Package protocol defines the contracts between the matching engine and
// the pluggable action executors.
package protocol

import (
	"context"
	"log/slog"

	"github.com/engagekit/engage/pkg/models"
)

// ActionExecutor performs one action subtype against a matched event.
// Execute errors are per-invocation: the engine logs and isolates them, a
// failing executor never stops matching for other workflows.
type ActionExecutor interface {
	// ID returns the action subtype this executor handles.
	ID() models.ActionType

	// Execute runs the action. ctx carries the per-execution timeout.
	Execute(ctx context.Context, action *models.ActionData, event models.InboundEvent, logger *slog.Logger) error
}

// Responder produces the text of an ai_response action. The prompt is an
// opaque string; response generation lives outside this engine.
type Responder interface {
	Respond(ctx context.Context, model, prompt string) (string, error)
}
