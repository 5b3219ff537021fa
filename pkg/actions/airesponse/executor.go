// Package airesponse implements the ai_response action. The prompt is an
// opaque string handed to an injected Responder; this engine never generates
// text itself.
package airesponse

import (
	"context"
	"errors"
	"log/slog"

	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/protocol"
	"github.com/engagekit/engage/pkg/template"
)

// Executor generates a response text and delivers it the way the event
// arrived: a DM gets a DM back, a comment gets a reply.
type Executor struct {
	responder protocol.Responder
	client    channels.Client
}

// NewExecutor creates an ai_response executor.
func NewExecutor(responder protocol.Responder, client channels.Client) *Executor {
	return &Executor{responder: responder, client: client}
}

// ID returns the action subtype.
func (e *Executor) ID() models.ActionType {
	return models.ActionAIResponse
}

func (e *Executor) Execute(ctx context.Context, action *models.ActionData, event models.InboundEvent, logger *slog.Logger) error {
	if action.AIPrompt == "" {
		return errors.New("ai_response action has no prompt")
	}

	prompt := template.Render(action.AIPrompt, event.TemplateVars())

	text, err := e.responder.Respond(ctx, action.AIModel, prompt)
	if err != nil {
		return err
	}

	channelID := action.ChannelID
	if channelID == "" {
		channelID = event.ChannelID
	}

	switch event.Kind {
	case models.EventPostComment:
		err = e.client.ReplyToComment(ctx, channelID, event.PostID, event.ID, text)
	case models.EventDirectMessage:
		err = e.client.SendDirectMessage(ctx, channelID, event.Username, text)
	default:
		return errors.New("unsupported event kind for ai_response")
	}

	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Delivered AI response",
		"channel_id", channelID,
		"model", action.AIModel)

	return nil
}
