package replycomment

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/engagekit/engage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	err error

	channelID string
	postID    string
	commentID string
	text      string
}

func (c *fakeClient) SendDirectMessage(_ context.Context, _, _, _ string) error {
	return errors.New("unexpected direct message")
}

func (c *fakeClient) ReplyToComment(_ context.Context, channelID, postID, commentID, text string) error {
	c.channelID = channelID
	c.postID = postID
	c.commentID = commentID
	c.text = text

	return c.err
}

func TestExecute_RendersTemplateAndReplies(t *testing.T) {
	client := &fakeClient{}
	executor := NewExecutor(client)

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType:      models.ActionReplyComment,
		MessageTemplate: "Thanks {{username}}! Check your DMs.",
	}, models.InboundEvent{
		ID:        "cm-7",
		Kind:      models.EventPostComment,
		ChannelID: "ch-1",
		PostID:    "p-1",
		Username:  "alice",
		Text:      "link please",
	}, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, "ch-1", client.channelID)
	assert.Equal(t, "p-1", client.postID)
	assert.Equal(t, "cm-7", client.commentID)
	assert.Equal(t, "Thanks alice! Check your DMs.", client.text)
}

func TestExecute_RequiresPostCommentEvent(t *testing.T) {
	executor := NewExecutor(&fakeClient{})

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType:      models.ActionReplyComment,
		MessageTemplate: "hello",
	}, models.InboundEvent{
		Kind:     models.EventDirectMessage,
		Username: "bob",
	}, slog.Default())

	assert.ErrorContains(t, err, "post comment")
}

func TestExecute_MissingTemplate(t *testing.T) {
	executor := NewExecutor(&fakeClient{})

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType: models.ActionReplyComment,
	}, models.InboundEvent{PostID: "p-1"}, slog.Default())

	assert.Error(t, err)
}

func TestExecute_DeliveryFailurePropagates(t *testing.T) {
	client := &fakeClient{err: errors.New("comment locked")}
	executor := NewExecutor(client)

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType:      models.ActionReplyComment,
		MessageTemplate: "hello",
	}, models.InboundEvent{PostID: "p-1", Username: "alice"}, slog.Default())

	assert.ErrorContains(t, err, "comment locked")
}
