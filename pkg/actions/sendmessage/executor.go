// Package sendmessage implements the send_message action: a direct message
// rendered from the node's message template.
package sendmessage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/template"
)

// Executor delivers direct messages through the channel client.
type Executor struct {
	client channels.Client
}

// NewExecutor creates a send_message executor.
func NewExecutor(client channels.Client) *Executor {
	return &Executor{client: client}
}

// ID returns the action subtype.
func (e *Executor) ID() models.ActionType {
	return models.ActionSendMessage
}

// Execute renders the template and sends the DM on the action's channel,
// falling back to the channel the event arrived on.
func (e *Executor) Execute(ctx context.Context, action *models.ActionData, event models.InboundEvent, logger *slog.Logger) error {
	if action.MessageTemplate == "" {
		return errors.New("send_message action has no message template")
	}

	channelID := action.ChannelID
	if channelID == "" {
		channelID = event.ChannelID
	}

	text := template.Render(action.MessageTemplate, event.TemplateVars())

	err := e.client.SendDirectMessage(ctx, channelID, event.Username, text)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Sent direct message",
		"channel_id", channelID,
		"username", event.Username)

	return nil
}
