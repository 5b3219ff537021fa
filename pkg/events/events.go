// Package events defines the bus events exchanged between the API, the
// dispatcher and the platform ingestion services.
package events

import (
	"time"

	"github.com/engagekit/engage/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every engine event.
const Topic = "engage.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// SourceEventReceivedType announces a normalized inbound DM or comment.
	SourceEventReceivedType EventType = "source.event.received"

	// Workflow activation lifecycle.
	WorkflowActivatedType   EventType = "workflow.activated"
	WorkflowDeactivatedType EventType = "workflow.deactivated"
	WorkflowDeletedType     EventType = "workflow.deleted"

	// Action execution results, per workflow per event.
	ActionFinishedType EventType = "action.execution.finished"
	ActionFailedType   EventType = "action.execution.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBase stamps a fresh event envelope.
func NewBase(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// SourceEventReceived wraps an inbound event for the dispatcher.
type SourceEventReceived struct {
	BaseEvent

	Event models.InboundEvent `json:"event"`
}

func (e SourceEventReceived) GetType() EventType {
	return SourceEventReceivedType
}

// WorkflowActivated is published when the activation gate opens a workflow.
type WorkflowActivated struct {
	BaseEvent

	ChannelID string `json:"channel_id,omitempty"`
}

func (e WorkflowActivated) GetType() EventType {
	return WorkflowActivatedType
}

// WorkflowDeactivated is published when a workflow is switched off.
type WorkflowDeactivated struct {
	BaseEvent

	ChannelID string `json:"channel_id,omitempty"`
}

func (e WorkflowDeactivated) GetType() EventType {
	return WorkflowDeactivatedType
}

// WorkflowDeleted is published when a workflow is removed.
type WorkflowDeleted struct {
	BaseEvent

	ChannelID string `json:"channel_id,omitempty"`
}

func (e WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedType
}

// ActionFinished reports one successful action execution.
type ActionFinished struct {
	BaseEvent

	NodeID     string        `json:"node_id"`
	ActionType string        `json:"action_type"`
	EventID    string        `json:"event_id"`
	Duration   time.Duration `json:"duration"`
}

func (e ActionFinished) GetType() EventType {
	return ActionFinishedType
}

// ActionFailed reports one failed action execution. Failures are scoped to
// a single workflow and a single event.
type ActionFailed struct {
	BaseEvent

	NodeID     string `json:"node_id"`
	ActionType string `json:"action_type"`
	EventID    string `json:"event_id"`
	Error      string `json:"error"`
}

func (e ActionFailed) GetType() EventType {
	return ActionFailedType
}
