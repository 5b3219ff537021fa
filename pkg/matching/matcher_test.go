package matching

import (
	"testing"

	"github.com/engagekit/engage/pkg/models"
	"github.com/stretchr/testify/assert"
)

func dmEvent(text string) models.InboundEvent {
	return models.InboundEvent{
		ID:        "evt-1",
		Kind:      models.EventDirectMessage,
		ChannelID: "ch-1",
		Text:      text,
		Username:  "alice",
	}
}

func commentEvent(text, postID string) models.InboundEvent {
	return models.InboundEvent{
		ID:        "evt-2",
		Kind:      models.EventPostComment,
		ChannelID: "ch-1",
		Text:      text,
		PostID:    postID,
		Username:  "bob",
	}
}

func TestMatches_KindGate(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerDirectMessage,
		Keywords:    []string{"sale"},
		MatchType:   models.MatchContains,
	}

	assert.True(t, Matches(trigger, dmEvent("sale on now")))
	assert.False(t, Matches(trigger, commentEvent("sale on now", "p1")),
		"direct_message trigger must ignore post comments")
}

func TestMatches_Contains_CaseInsensitive(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerDirectMessage,
		Keywords:    []string{"sale"},
		MatchType:   models.MatchContains,
	}

	assert.True(t, Matches(trigger, dmEvent("Big SALE today!")))
	assert.True(t, Matches(trigger, dmEvent("wholesale prices")), "substring match, not word match")
	assert.False(t, Matches(trigger, dmEvent("no discounts here")))
}

func TestMatches_Exact(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerDirectMessage,
		Keywords:    []string{"hi"},
		MatchType:   models.MatchExact,
	}

	assert.False(t, Matches(trigger, dmEvent("hi there")))
	assert.True(t, Matches(trigger, dmEvent("Hi")))
	assert.True(t, Matches(trigger, dmEvent("  hi  ")), "exact match ignores surrounding whitespace")
}

func TestMatches_StartsWith_CaseSensitive(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType:   models.TriggerDirectMessage,
		Keywords:      []string{"DM"},
		MatchType:     models.MatchStartsWith,
		CaseSensitive: true,
	}

	assert.True(t, Matches(trigger, dmEvent("DM me the link")))
	assert.False(t, Matches(trigger, dmEvent("dm me the link")))
	assert.False(t, Matches(trigger, dmEvent("please DM me")))
}

func TestMatches_KeywordsAreORed(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerDirectMessage,
		Keywords:    []string{"price", "cost", "how much"},
		MatchType:   models.MatchContains,
	}

	assert.True(t, Matches(trigger, dmEvent("what's the price?")))
	assert.True(t, Matches(trigger, dmEvent("How much is it")))
	assert.False(t, Matches(trigger, dmEvent("is it available?")))
}

func TestMatches_EmptyKeywordsNeverFire(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerDirectMessage,
		Keywords:    nil,
		MatchType:   models.MatchContains,
	}

	assert.False(t, Matches(trigger, dmEvent("anything at all")))
	assert.False(t, Matches(trigger, dmEvent("")))
}

func TestMatches_PostScoping(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerPostComment,
		Keywords:    []string{"info"},
		MatchType:   models.MatchContains,
		PostIDs:     []string{"p1"},
	}

	assert.True(t, Matches(trigger, commentEvent("send info please", "p1")))
	assert.False(t, Matches(trigger, commentEvent("send info please", "p2")),
		"comment on an unscoped post must not fire")
}

func TestMatches_EmptyPostIDsMatchAnyPost(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType: models.TriggerPostComment,
		Keywords:    []string{"info"},
		MatchType:   models.MatchContains,
	}

	assert.True(t, Matches(trigger, commentEvent("more info", "p1")))
	assert.True(t, Matches(trigger, commentEvent("more info", "p99")))
}

func TestMatches_NilTrigger(t *testing.T) {
	assert.False(t, Matches(nil, dmEvent("hello")))
}

func TestMatches_CaseSensitiveKeywordsKeptVerbatim(t *testing.T) {
	trigger := &models.TriggerData{
		TriggerType:   models.TriggerDirectMessage,
		Keywords:      []string{"VIP"},
		MatchType:     models.MatchContains,
		CaseSensitive: true,
	}

	assert.True(t, Matches(trigger, dmEvent("our VIP list")))
	assert.False(t, Matches(trigger, dmEvent("our vip list")))
}
