// Package graph provides in-memory editing operations over a workflow's
// node and edge sets. It enforces referential integrity only; structural
// rules live in the validation package.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/engagekit/engage/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrInvalidReference is returned when an edge endpoint or node id does
	// not exist in the graph.
	ErrInvalidReference = errors.New("invalid node reference")

	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = errors.New("edge cannot connect a node to itself")

	// ErrDuplicateNode is returned when a node with the same id already exists.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Graph wraps a workflow for single-writer, synchronous mutation. All
// operations edit the underlying workflow in place.
type Graph struct {
	workflow *models.Workflow
}

// New wraps an existing workflow.
func New(workflow *models.Workflow) *Graph {
	return &Graph{workflow: workflow}
}

// Workflow returns the underlying workflow.
func (g *Graph) Workflow() *models.Workflow {
	return g.workflow
}

// AddNode inserts a node. The node id must be unique within the graph.
func (g *Graph) AddNode(node *models.Node) error {
	if node == nil || node.ID == "" {
		return ErrInvalidReference
	}

	if _, exists := g.workflow.NodeByID(node.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}

	g.workflow.Nodes = append(g.workflow.Nodes, node)

	return nil
}

// RemoveNode deletes a node and all edges incident to it.
func (g *Graph) RemoveNode(id string) error {
	if _, exists := g.workflow.NodeByID(id); !exists {
		return fmt.Errorf("%w: %s", ErrInvalidReference, id)
	}

	nodes := g.workflow.Nodes[:0]

	for _, node := range g.workflow.Nodes {
		if node.ID != id {
			nodes = append(nodes, node)
		}
	}

	g.workflow.Nodes = nodes

	edges := g.workflow.Edges[:0]

	for _, edge := range g.workflow.Edges {
		if edge.Source != id && edge.Target != id {
			edges = append(edges, edge)
		}
	}

	g.workflow.Edges = edges

	return nil
}

// UpdateNodeData merges a partial payload into a node's existing data. Keys
// absent from the patch keep their current values; the node's type cannot
// change.
func (g *Graph) UpdateNodeData(id string, patch map[string]any) error {
	node, exists := g.workflow.NodeByID(id)
	if !exists {
		return fmt.Errorf("%w: %s", ErrInvalidReference, id)
	}

	current, err := json.Marshal(node.Data)
	if err != nil {
		return fmt.Errorf("failed to encode node data: %w", err)
	}

	merged := make(map[string]any)

	err = json.Unmarshal(current, &merged)
	if err != nil {
		return fmt.Errorf("failed to decode node data: %w", err)
	}

	for key, value := range patch {
		merged[key] = value
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode merged node data: %w", err)
	}

	data, err := models.NewNodeData(node.Type)
	if err != nil {
		return err
	}

	err = json.Unmarshal(raw, data)
	if err != nil {
		return fmt.Errorf("failed to apply node data patch: %w", err)
	}

	node.Data = data

	return nil
}

// AddEdge connects two existing nodes and returns the created edge. The
// branch tag selects a condition outcome and is empty for other sources.
func (g *Graph) AddEdge(source, target, branch string) (*models.Edge, error) {
	if source == target {
		return nil, ErrSelfLoop
	}

	if _, exists := g.workflow.NodeByID(source); !exists {
		return nil, fmt.Errorf("%w: source %s", ErrInvalidReference, source)
	}

	if _, exists := g.workflow.NodeByID(target); !exists {
		return nil, fmt.Errorf("%w: target %s", ErrInvalidReference, target)
	}

	edge := &models.Edge{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
		Branch: branch,
	}

	g.workflow.Edges = append(g.workflow.Edges, edge)

	return edge, nil
}

// RemoveEdge deletes an edge by id.
func (g *Graph) RemoveEdge(id string) error {
	for i, edge := range g.workflow.Edges {
		if edge.ID == id {
			g.workflow.Edges = append(g.workflow.Edges[:i], g.workflow.Edges[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("%w: edge %s", ErrInvalidReference, id)
}
