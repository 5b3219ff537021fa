// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/engagekit/engage/pkg/actions"
	"github.com/engagekit/engage/pkg/actions/airesponse"
	"github.com/engagekit/engage/pkg/actions/replycomment"
	"github.com/engagekit/engage/pkg/actions/sendmessage"
	"github.com/engagekit/engage/pkg/actions/webhook"
	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/registry"
)

// NewRegistry creates the node template registry.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	logger.Debug("Loading default node templates")

	return registry.NewDefaultRegistry()
}

// NewChannelClient creates the outbound delivery client. Without a delivery
// service URL the client only logs what it would send.
func NewChannelClient(logger *slog.Logger) channels.Client {
	deliveryURL := os.Getenv("DELIVERY_API_URL")
	if deliveryURL == "" {
		logger.Warn("DELIVERY_API_URL not set, outbound messages will only be logged")

		return channels.NewLogClient(logger)
	}

	return channels.NewHTTPClient(deliveryURL)
}

// NewChannelRegistry creates the connected-account registry, seeded from the
// CHANNELS_FILE JSON document when it is configured.
func NewChannelRegistry(logger *slog.Logger) channels.Registry {
	reg := channels.NewMemoryRegistry()

	channelsFile := os.Getenv("CHANNELS_FILE")
	if channelsFile == "" {
		return reg
	}

	raw, err := os.ReadFile(channelsFile)
	if err != nil {
		logger.Error("Failed to read channels file", "path", channelsFile, "error", err)

		return reg
	}

	var seeded []channels.Channel

	err = json.Unmarshal(raw, &seeded)
	if err != nil {
		logger.Error("Failed to parse channels file", "path", channelsFile, "error", err)

		return reg
	}

	for _, channel := range seeded {
		reg.Add(channel)
	}

	logger.Info("Seeded channel registry", "count", len(seeded))

	return reg
}

// NewExecutorRegistry creates the action executor registry with every
// executor the node catalog exposes. The ai_response executor is registered
// only when a responder gateway is configured.
func NewExecutorRegistry(client channels.Client, logger *slog.Logger) *actions.Registry {
	reg := actions.NewRegistry()
	reg.Register(sendmessage.NewExecutor(client))
	reg.Register(replycomment.NewExecutor(client))
	reg.Register(webhook.NewExecutor(nil))

	gatewayURL := os.Getenv("AI_GATEWAY_URL")
	if gatewayURL == "" {
		logger.Warn("AI_GATEWAY_URL not set, ai_response actions will fail until it is configured")

		return reg
	}

	reg.Register(airesponse.NewExecutor(
		airesponse.NewHTTPResponder(gatewayURL, os.Getenv("AI_GATEWAY_API_KEY")),
		client,
	))

	return reg
}
