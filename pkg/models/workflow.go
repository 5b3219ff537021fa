// Package models defines the core domain models for social automation workflows.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft  WorkflowStatus = "draft"  // Being built, not yet persisted
	WorkflowStatusSaved  WorkflowStatus = "saved"  // Persisted, not matching events
	WorkflowStatusActive WorkflowStatus = "active" // Persisted and matching inbound events
)

// Workflow represents an automation definition: a graph of trigger, action,
// condition and delay nodes plus the activation flag derived from Status.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"                 validate:"required,min=3"`
	Description string         `json:"description"`
	OrgID       string         `json:"org_id"`
	ChannelID   string         `json:"channel_id,omitempty"` // Default messaging channel
	Status      WorkflowStatus `json:"status"`
	Nodes       []*Node        `json:"nodes"`
	Edges       []*Edge        `json:"edges"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// IsActive reports whether the workflow is currently matching inbound events.
func (w *Workflow) IsActive() bool {
	return w.Status == WorkflowStatusActive && w.DeletedAt == nil
}

// NodeByID returns the node with the given id, if present.
func (w *Workflow) NodeByID(id string) (*Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// TriggerNodes returns all trigger nodes in declaration order.
func (w *Workflow) TriggerNodes() []*Node {
	triggers := make([]*Node, 0, 1)

	for _, node := range w.Nodes {
		if node.Type == NodeTypeTrigger {
			triggers = append(triggers, node)
		}
	}

	return triggers
}

// OutgoingEdges returns the edges whose source is the given node.
func (w *Workflow) OutgoingEdges(nodeID string) []*Edge {
	edges := make([]*Edge, 0, 2)

	for _, edge := range w.Edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}
