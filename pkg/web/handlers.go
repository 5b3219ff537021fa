// Package web provides HTTP handlers and REST API endpoints for workflow management.
package web

import (
	"encoding/json"

	"github.com/engagekit/engage/pkg/graph"
	"github.com/engagekit/engage/pkg/lifecycle"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	service   *lifecycle.Service
	registry  *registry.Registry
	validator *validator.Validate
}

func NewAPIHandlers(
	service *lifecycle.Service,
	reg *registry.Registry,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		service:   service,
		registry:  reg,
		validator: validate,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.service.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.service.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest

	err := json.Unmarshal(c.Body(), &req)
	if err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.service.Create(c.Context(), &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		OrgID:       req.OrgID,
		ChannelID:   req.ChannelID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(workflow)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	var req UpdateWorkflowRequest

	err := json.Unmarshal(c.Body(), &req)
	if err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.service.Update(c.Context(), c.Params("id"), &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		ChannelID:   req.ChannelID,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ActivateWorkflow(c fiber.Ctx) error {
	workflow, err := h.service.Activate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeactivateWorkflow(c fiber.Ctx) error {
	workflow, err := h.service.Deactivate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) GetValidation(c fiber.Ctx) error {
	validationErrors, err := h.service.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"valid":  len(validationErrors) == 0,
		"errors": validationErrors,
	})
}

func (h *APIHandlers) CreateNode(c fiber.Ctx) error {
	var req CreateNodeRequest

	err := json.Unmarshal(c.Body(), &req)
	if err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.service.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	template, ok := h.registry.TemplateBySubType(req.Category, req.SubType)
	if !ok {
		return badRequest(c, "unknown template: "+string(req.Category)+"/"+req.SubType)
	}

	// Action nodes are gated against the triggers already on the canvas so
	// that an incompatible pair never enters the graph.
	if req.Category == models.NodeTypeAction {
		actionType := models.ActionType(req.SubType)
		for _, trigger := range workflow.TriggerNodes() {
			if data := trigger.Trigger(); data != nil && !h.registry.IsCompatible(data.TriggerType, actionType) {
				return badRequest(c, "action "+req.SubType+" is not compatible with trigger "+string(data.TriggerType))
			}
		}
	}

	node := h.registry.Instantiate(template)
	if req.Label != "" {
		node.Label = req.Label
	}

	builder := graph.New(workflow)

	err = builder.AddNode(node)
	if err != nil {
		return handleServiceError(c, err)
	}

	if len(req.Data) > 0 {
		err = h.patchNode(builder, node.ID, req.SubType, req.Data)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	_, err = h.service.Update(c.Context(), workflow.ID, workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) UpdateNode(c fiber.Ctx) error {
	var req UpdateNodeRequest

	err := json.Unmarshal(c.Body(), &req)
	if err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	workflow, err := h.service.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	node, ok := workflow.NodeByID(c.Params("nodeId"))
	if !ok {
		return notFound(c, "node not found")
	}

	if req.Label != "" {
		node.Label = req.Label
	}

	if len(req.Data) > 0 {
		err = h.patchNode(graph.New(workflow), node.ID, subTypeOf(node), req.Data)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	_, err = h.service.Update(c.Context(), workflow.ID, workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	workflow, err := h.service.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	err = graph.New(workflow).RemoveNode(c.Params("nodeId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	_, err = h.service.Update(c.Context(), workflow.ID, workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateEdge(c fiber.Ctx) error {
	var req CreateEdgeRequest

	err := json.Unmarshal(c.Body(), &req)
	if err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.service.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	edge, err := graph.New(workflow).AddEdge(req.Source, req.Target, req.Branch)
	if err != nil {
		return handleServiceError(c, err)
	}

	_, err = h.service.Update(c.Context(), workflow.ID, workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (h *APIHandlers) DeleteEdge(c fiber.Ctx) error {
	workflow, err := h.service.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	err = graph.New(workflow).RemoveEdge(c.Params("edgeId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	_, err = h.service.Update(c.Context(), workflow.ID, workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTemplates lists the node catalog, optionally filtered by category and,
// for actions, by the trigger type the caller already placed.
func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	category := models.NodeType(c.Query("category"))

	if category == models.NodeTypeAction || category == "" {
		if triggerStr := c.Query("trigger_type"); triggerStr != "" {
			triggerType := models.TriggerType(triggerStr)

			return c.JSON(fiber.Map{"templates": h.registry.CompatibleActions(&triggerType)})
		}
	}

	if category == "" {
		templates := make([]*registry.Template, 0)
		for _, nodeType := range []models.NodeType{
			models.NodeTypeTrigger,
			models.NodeTypeAction,
			models.NodeTypeCondition,
			models.NodeTypeDelay,
		} {
			templates = append(templates, h.registry.Templates(nodeType)...)
		}

		return c.JSON(fiber.Map{"templates": templates})
	}

	return c.JSON(fiber.Map{"templates": h.registry.Templates(category)})
}

// patchNode merges the payload patch into the node and checks the merged
// payload against the template schema before it is persisted.
func (h *APIHandlers) patchNode(builder *graph.Graph, nodeID, subType string, patch map[string]any) error {
	err := builder.UpdateNodeData(nodeID, patch)
	if err != nil {
		return err
	}

	node, _ := builder.Workflow().NodeByID(nodeID)

	raw, err := json.Marshal(node.Data)
	if err != nil {
		return err
	}

	return h.registry.ValidateConfig(node.Type, subType, raw)
}

func subTypeOf(node *models.Node) string {
	switch node.Type {
	case models.NodeTypeTrigger:
		if data := node.Trigger(); data != nil {
			return string(data.TriggerType)
		}
	case models.NodeTypeAction:
		if data := node.Action(); data != nil {
			return string(data.ActionType)
		}
	case models.NodeTypeCondition:
		return "condition"
	case models.NodeTypeDelay:
		return "delay"
	}

	return ""
}
