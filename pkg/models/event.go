package models

import "time"

// EventKind identifies the source of an inbound event.
type EventKind string

const (
	EventDirectMessage EventKind = "direct_message"
	EventPostComment   EventKind = "post_comment"
)

// InboundEvent is a normalized direct message or post comment record, as
// delivered by the event source. It is the input to trigger matching and
// condition evaluation.
type InboundEvent struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"       validate:"required,oneof=direct_message post_comment"`
	ChannelID  string    `json:"channel_id" validate:"required"`
	Text       string    `json:"text"`
	PostID     string    `json:"post_id,omitempty"` // post_comment only
	Username   string    `json:"username"`
	ReceivedAt time.Time `json:"received_at"`
}

// Field resolves a condition field name against the event. The second return
// reports whether the name is known.
func (e InboundEvent) Field(name string) (string, bool) {
	switch name {
	case "text", "message":
		return e.Text, true
	case "username":
		return e.Username, true
	case "post_id":
		return e.PostID, true
	case "channel_id":
		return e.ChannelID, true
	default:
		return "", false
	}
}

// TemplateVars returns the placeholder values available to message templates.
func (e InboundEvent) TemplateVars() map[string]string {
	return map[string]string{
		"username":   e.Username,
		"text":       e.Text,
		"post_id":    e.PostID,
		"channel_id": e.ChannelID,
	}
}
