// Package matching decides whether inbound social events fire automations.
// The keyword matcher and condition evaluator are pure functions safe to
// call concurrently; Engine fans a single event out across every active
// workflow.
package matching

import (
	"strings"

	"github.com/engagekit/engage/pkg/models"
)

// Matches reports whether an inbound event fires the given trigger.
//
// A trigger only sees events of its own kind, a post_comment trigger scoped
// to specific posts ignores comments on other posts, and a trigger with no
// keywords never fires. Keyword comparison is OR across the keyword set.
func Matches(trigger *models.TriggerData, event models.InboundEvent) bool {
	if trigger == nil {
		return false
	}

	if string(trigger.TriggerType) != string(event.Kind) {
		return false
	}

	if trigger.TriggerType == models.TriggerPostComment && len(trigger.PostIDs) > 0 {
		scoped := false

		for _, postID := range trigger.PostIDs {
			if postID == event.PostID {
				scoped = true

				break
			}
		}

		if !scoped {
			return false
		}
	}

	if len(trigger.Keywords) == 0 {
		return false
	}

	text := event.Text
	if !trigger.CaseSensitive {
		text = strings.ToLower(text)
	}

	for _, keyword := range trigger.Keywords {
		if !trigger.CaseSensitive {
			keyword = strings.ToLower(keyword)
		}

		if matchKeyword(text, keyword, trigger.MatchType) {
			return true
		}
	}

	return false
}

func matchKeyword(text, keyword string, matchType models.MatchType) bool {
	switch matchType {
	case models.MatchContains:
		return strings.Contains(text, keyword)
	case models.MatchExact:
		return strings.TrimSpace(text) == strings.TrimSpace(keyword)
	case models.MatchStartsWith:
		return strings.HasPrefix(text, keyword)
	default:
		return false
	}
}
