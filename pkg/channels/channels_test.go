package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_ListActiveChannels(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.Add(Channel{ID: "ch-1", OrgID: "org-1", Provider: ProviderInstagram, Active: true})
	registry.Add(Channel{ID: "ch-2", OrgID: "org-1", Provider: ProviderFacebook, Active: false})
	registry.Add(Channel{ID: "ch-3", OrgID: "org-2", Provider: ProviderTwitter, Active: true})

	active, err := registry.ListActiveChannels(t.Context(), "org-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ch-1", active[0].ID)

	// Empty org matches every org's active channels.
	all, err := registry.ListActiveChannels(t.Context(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryRegistry_ChannelByID(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.Add(Channel{ID: "ch-1", Provider: ProviderInstagram, Active: false})

	channel, err := registry.ChannelByID(t.Context(), "ch-1")
	require.NoError(t, err)
	assert.Equal(t, ProviderInstagram, channel.Provider)

	_, err = registry.ChannelByID(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestMemoryRegistry_Remove(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.Add(Channel{ID: "ch-1", Active: true})
	registry.Remove("ch-1")

	_, err := registry.ChannelByID(t.Context(), "ch-1")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}
