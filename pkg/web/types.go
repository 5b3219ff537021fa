package web

import "github.com/engagekit/engage/pkg/models"

type CreateWorkflowRequest struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	OrgID       string `json:"org_id"`
	ChannelID   string `json:"channel_id"`
}

type UpdateWorkflowRequest struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	ChannelID   string         `json:"channel_id"`
	Nodes       []*models.Node `json:"nodes"`
	Edges       []*models.Edge `json:"edges"`
}

type CreateNodeRequest struct {
	Category models.NodeType `json:"category" validate:"required"`
	SubType  string          `json:"sub_type" validate:"required"`
	Label    string          `json:"label"`
	Data     map[string]any  `json:"data"`
}

type UpdateNodeRequest struct {
	Label string         `json:"label"`
	Data  map[string]any `json:"data"`
}

type CreateEdgeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Branch string `json:"branch"`
}
