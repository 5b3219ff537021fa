// Package channels defines the connected social account registry consumed
// by the activation gate, and the delivery client used by message actions.
// The real registry lives in the account-management service; this package
// owns only the contract plus an in-memory implementation for development
// and tests.
package channels

import (
	"context"
	"errors"
	"sync"
)

// Provider identifies a social platform.
type Provider string

const (
	ProviderInstagram Provider = "instagram"
	ProviderFacebook  Provider = "facebook"
	ProviderTwitter   Provider = "twitter"
	ProviderLinkedIn  Provider = "linkedin"
)

// Channel is a connected social account.
type Channel struct {
	ID          string   `json:"id"`
	OrgID       string   `json:"org_id"`
	Provider    Provider `json:"provider"`
	AccountName string   `json:"account_name"`
	Active      bool     `json:"active"`
}

// ErrChannelNotFound indicates no matching channel is connected.
var ErrChannelNotFound = errors.New("channel not found")

// Registry lists the connected social accounts of an organization.
type Registry interface {
	// ListActiveChannels returns the active, connected channels for an org.
	ListActiveChannels(ctx context.Context, orgID string) ([]Channel, error)

	// ChannelByID resolves a single channel, active or not.
	ChannelByID(ctx context.Context, id string) (Channel, error)
}

// Client delivers outbound messages on a channel. Implemented by the
// platform delivery service; actions only depend on this interface.
type Client interface {
	// SendDirectMessage sends a DM to the given user on the channel.
	SendDirectMessage(ctx context.Context, channelID, username, text string) error

	// ReplyToComment posts a reply under a comment on a post.
	ReplyToComment(ctx context.Context, channelID, postID, commentID, text string) error
}

// MemoryRegistry is an in-memory Registry for development and tests.
type MemoryRegistry struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{channels: make(map[string]Channel)}
}

// Add registers or replaces a channel.
func (r *MemoryRegistry) Add(channel Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channels[channel.ID] = channel
}

// Remove drops a channel.
func (r *MemoryRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.channels, id)
}

func (r *MemoryRegistry) ListActiveChannels(_ context.Context, orgID string) ([]Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]Channel, 0, len(r.channels))

	for _, channel := range r.channels {
		if channel.Active && (orgID == "" || channel.OrgID == orgID) {
			active = append(active, channel)
		}
	}

	return active, nil
}

func (r *MemoryRegistry) ChannelByID(_ context.Context, id string) (Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, exists := r.channels[id]
	if !exists {
		return Channel{}, ErrChannelNotFound
	}

	return channel, nil
}
