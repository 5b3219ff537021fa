// Package cache holds the per-channel snapshot of active workflows read by
// the matching path. Matching runs once per inbound event, so it reads a
// short-TTL Redis snapshot instead of the store; activation changes
// propagate when the snapshot expires or is invalidated, which is the
// eventual-consistency window the product accepts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "engage:active:"

// ActiveWorkflows caches the active workflows relevant to each channel.
type ActiveWorkflows struct {
	client redis.Cmdable
	store  persistence.Persistence
	ttl    time.Duration
	logger *slog.Logger
}

// NewActiveWorkflows creates the cache. A nil client disables caching and
// every snapshot reads through to the store.
func NewActiveWorkflows(client redis.Cmdable, store persistence.Persistence, ttl time.Duration, logger *slog.Logger) *ActiveWorkflows {
	return &ActiveWorkflows{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Snapshot returns the active workflows to evaluate for an event on the
// given channel. Each event gets one consistent snapshot; a workflow
// deactivated mid-evaluation keeps its slot until the next snapshot.
func (c *ActiveWorkflows) Snapshot(ctx context.Context, channelID string) ([]*models.Workflow, error) {
	key := keyPrefix + channelID

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var workflows []*models.Workflow

			err = json.Unmarshal(raw, &workflows)
			if err == nil {
				return workflows, nil
			}

			c.logger.WarnContext(ctx, "Discarding undecodable snapshot", "channel_id", channelID, "error", err)
		} else if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "Snapshot read failed, falling back to store", "channel_id", channelID, "error", err)
		}
	}

	workflows, err := c.load(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		raw, err := json.Marshal(workflows)
		if err == nil {
			setErr := c.client.Set(ctx, key, raw, c.ttl).Err()
			if setErr != nil {
				c.logger.WarnContext(ctx, "Snapshot write failed", "channel_id", channelID, "error", setErr)
			}
		}
	}

	return workflows, nil
}

// Invalidate drops the snapshot for a channel, forcing the next event to
// read through to the store. Called on activation changes.
func (c *ActiveWorkflows) Invalidate(ctx context.Context, channelID string) error {
	if c.client == nil {
		return nil
	}

	return c.client.Del(ctx, keyPrefix+channelID).Err()
}

func (c *ActiveWorkflows) load(ctx context.Context, channelID string) ([]*models.Workflow, error) {
	active, err := c.store.ActiveWorkflows(ctx)
	if err != nil {
		return nil, err
	}

	relevant := make([]*models.Workflow, 0, len(active))

	for _, workflow := range active {
		if ForChannel(workflow, channelID) {
			relevant = append(relevant, workflow)
		}
	}

	return relevant, nil
}

// ForChannel reports whether a workflow listens on the given channel: a
// trigger bound to the channel, a workflow default channel, or no channel
// binding at all (listens everywhere).
func ForChannel(workflow *models.Workflow, channelID string) bool {
	bound := false

	for _, node := range workflow.TriggerNodes() {
		trigger := node.Trigger()
		if trigger == nil {
			continue
		}

		if trigger.ChannelID == channelID {
			return true
		}

		if trigger.ChannelID != "" {
			bound = true
		}
	}

	if bound {
		return false
	}

	return workflow.ChannelID == "" || workflow.ChannelID == channelID
}
