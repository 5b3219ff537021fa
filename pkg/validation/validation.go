// Package validation computes structural well-formedness of a workflow
// graph. Validation is a pure function of the graph: every rule is evaluated
// independently so all problems are reported together, and results never
// block saving a draft, only activation.
package validation

import (
	"fmt"

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/registry"
)

// ErrorCode identifies a structural validation rule.
type ErrorCode string

const (
	CodeMissingTrigger     ErrorCode = "missing_trigger"
	CodeMissingAction      ErrorCode = "missing_action"
	CodeDisconnectedNode   ErrorCode = "disconnected_node"
	CodeIncompatibleAction ErrorCode = "incompatible_action"
	CodeInvalidEdge        ErrorCode = "invalid_edge"
)

// ValidationError describes one structural problem in a workflow graph.
type ValidationError struct {
	Code    ErrorCode `json:"code"`
	NodeID  string    `json:"node_id,omitempty"`
	EdgeID  string    `json:"edge_id,omitempty"`
	Label   string    `json:"label,omitempty"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Engine validates workflow graphs against the structural rules and the
// trigger/action compatibility matrix of the injected registry.
type Engine struct {
	registry *registry.Registry
}

// NewEngine creates a validation engine.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// Validate returns every structural problem in the workflow. An empty result
// means the graph is ready for activation.
func (e *Engine) Validate(workflow *models.Workflow) []ValidationError {
	errs := make([]ValidationError, 0)

	errs = append(errs, e.checkPresence(workflow)...)
	errs = append(errs, e.checkConnectivity(workflow)...)
	errs = append(errs, e.checkEdgeReferences(workflow)...)
	errs = append(errs, e.checkCompatibility(workflow)...)

	return errs
}

// IsValid reports whether the workflow has no structural errors.
func (e *Engine) IsValid(workflow *models.Workflow) bool {
	return len(e.Validate(workflow)) == 0
}

func (e *Engine) checkPresence(workflow *models.Workflow) []ValidationError {
	var hasTrigger, hasAction bool

	for _, node := range workflow.Nodes {
		switch node.Type {
		case models.NodeTypeTrigger:
			hasTrigger = true
		case models.NodeTypeAction:
			hasAction = true
		case models.NodeTypeCondition, models.NodeTypeDelay:
		}
	}

	errs := make([]ValidationError, 0, 2)

	if !hasTrigger {
		errs = append(errs, ValidationError{
			Code:    CodeMissingTrigger,
			Message: "workflow must contain at least one trigger node",
		})
	}

	if !hasAction {
		errs = append(errs, ValidationError{
			Code:    CodeMissingAction,
			Message: "workflow must contain at least one action node",
		})
	}

	return errs
}

// checkConnectivity requires every non-trigger node to be the target of at
// least one edge.
func (e *Engine) checkConnectivity(workflow *models.Workflow) []ValidationError {
	incoming := make(map[string]int, len(workflow.Nodes))

	for _, edge := range workflow.Edges {
		incoming[edge.Target]++
	}

	errs := make([]ValidationError, 0)

	for _, node := range workflow.Nodes {
		if node.Type == models.NodeTypeTrigger {
			continue
		}

		if incoming[node.ID] == 0 {
			errs = append(errs, ValidationError{
				Code:    CodeDisconnectedNode,
				NodeID:  node.ID,
				Label:   node.Label,
				Message: fmt.Sprintf("node %q is not connected to the flow", node.Label),
			})
		}
	}

	return errs
}

// checkEdgeReferences guards graphs built through import paths that bypass
// the graph editor's referential integrity checks.
func (e *Engine) checkEdgeReferences(workflow *models.Workflow) []ValidationError {
	errs := make([]ValidationError, 0)

	for _, edge := range workflow.Edges {
		if _, exists := workflow.NodeByID(edge.Source); !exists {
			errs = append(errs, ValidationError{
				Code:    CodeInvalidEdge,
				EdgeID:  edge.ID,
				Message: fmt.Sprintf("edge %s references unknown source node %s", edge.ID, edge.Source),
			})
		}

		if _, exists := workflow.NodeByID(edge.Target); !exists {
			errs = append(errs, ValidationError{
				Code:    CodeInvalidEdge,
				EdgeID:  edge.ID,
				Message: fmt.Sprintf("edge %s references unknown target node %s", edge.ID, edge.Target),
			})
		}
	}

	return errs
}

// checkCompatibility re-verifies the trigger/action matrix. Instantiation
// already gates which action templates are offered, but graphs can arrive
// through the API without ever passing through the template picker.
func (e *Engine) checkCompatibility(workflow *models.Workflow) []ValidationError {
	triggers := workflow.TriggerNodes()
	if len(triggers) == 0 {
		return nil
	}

	errs := make([]ValidationError, 0)

	for _, node := range workflow.Nodes {
		if node.Type != models.NodeTypeAction {
			continue
		}

		action := node.Action()
		if action == nil {
			continue
		}

		for _, triggerNode := range triggers {
			trigger := triggerNode.Trigger()
			if trigger == nil {
				continue
			}

			if !e.registry.IsCompatible(trigger.TriggerType, action.ActionType) {
				errs = append(errs, ValidationError{
					Code:   CodeIncompatibleAction,
					NodeID: node.ID,
					Label:  node.Label,
					Message: fmt.Sprintf(
						"action %q cannot follow a %s trigger",
						action.ActionType, trigger.TriggerType,
					),
				})
			}
		}
	}

	return errs
}
