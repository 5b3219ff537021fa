package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/engagekit/engage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_DeliversEventPayload(t *testing.T) {
	var received Payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	executor := NewExecutor(nil)

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType: models.ActionWebhook,
		WebhookURL: server.URL,
	}, models.InboundEvent{
		ID:        "evt-1",
		Kind:      models.EventDirectMessage,
		ChannelID: "ch-1",
		Text:      "hello",
		Username:  "alice",
	}, slog.Default())

	require.NoError(t, err)
	assert.Equal(t, "evt-1", received.Event.ID)
	assert.Equal(t, "hello", received.Event.Text)
	assert.False(t, received.DeliveredAt.IsZero())
}

func TestExecute_ErrorStatusIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	executor := NewExecutor(nil)

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType: models.ActionWebhook,
		WebhookURL: server.URL,
	}, models.InboundEvent{ID: "evt-1"}, slog.Default())

	assert.ErrorContains(t, err, "status 500")
}

func TestExecute_MissingURL(t *testing.T) {
	executor := NewExecutor(nil)

	err := executor.Execute(t.Context(), &models.ActionData{
		ActionType: models.ActionWebhook,
	}, models.InboundEvent{}, slog.Default())

	assert.Error(t, err)
}
