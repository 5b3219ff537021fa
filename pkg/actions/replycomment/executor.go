// Package replycomment implements the reply_comment action: a reply posted
// under the matched comment.
package replycomment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/template"
)

// Executor posts comment replies through the channel client.
type Executor struct {
	client channels.Client
}

// NewExecutor creates a reply_comment executor.
func NewExecutor(client channels.Client) *Executor {
	return &Executor{client: client}
}

// ID returns the action subtype.
func (e *Executor) ID() models.ActionType {
	return models.ActionReplyComment
}

// Execute renders the template and replies to the comment that matched.
func (e *Executor) Execute(ctx context.Context, action *models.ActionData, event models.InboundEvent, logger *slog.Logger) error {
	if action.MessageTemplate == "" {
		return errors.New("reply_comment action has no message template")
	}

	if event.PostID == "" {
		return errors.New("reply_comment requires a post comment event")
	}

	channelID := action.ChannelID
	if channelID == "" {
		channelID = event.ChannelID
	}

	text := template.Render(action.MessageTemplate, event.TemplateVars())

	err := e.client.ReplyToComment(ctx, channelID, event.PostID, event.ID, text)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Replied to comment",
		"channel_id", channelID,
		"post_id", event.PostID)

	return nil
}
