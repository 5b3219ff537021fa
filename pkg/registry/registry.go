// Package registry provides the catalog of instantiable node templates and
// the trigger/action compatibility matrix. A Registry is immutable after
// construction and injected wherever templates are needed, so tests can
// substitute alternate catalogs.
package registry

import (
	"encoding/json"
	"fmt"

	"github.com/engagekit/engage/pkg/models"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// Template is an immutable catalog entry describing one instantiable node
// subtype with its default payload.
type Template struct {
	SubType     string          `json:"sub_type"`
	Category    models.NodeType `json:"category"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	DefaultData models.NodeData `json:"default_data"`
	Schema      map[string]any  `json:"schema,omitempty"`
}

// Registry holds the template catalogs and the compatibility matrix.
type Registry struct {
	catalogs map[models.NodeType][]*Template
	matrix   map[models.TriggerType][]models.ActionType
}

// NewRegistry builds a registry from explicit catalogs and a matrix.
func NewRegistry(catalogs map[models.NodeType][]*Template, matrix map[models.TriggerType][]models.ActionType) *Registry {
	return &Registry{
		catalogs: catalogs,
		matrix:   matrix,
	}
}

// Templates returns the ordered catalog for a node category.
func (r *Registry) Templates(category models.NodeType) []*Template {
	return r.catalogs[category]
}

// TemplateBySubType looks up a single template within a category.
func (r *Registry) TemplateBySubType(category models.NodeType, subType string) (*Template, bool) {
	for _, template := range r.catalogs[category] {
		if template.SubType == subType {
			return template, true
		}
	}

	return nil, false
}

// CompatibleActions returns the action templates permitted for the given
// trigger type. A nil trigger type means no trigger has been chosen yet and
// the full action catalog is returned.
func (r *Registry) CompatibleActions(triggerType *models.TriggerType) []*Template {
	actions := r.catalogs[models.NodeTypeAction]

	if triggerType == nil {
		return actions
	}

	allowed, known := r.matrix[*triggerType]
	if !known {
		return nil
	}

	compatible := make([]*Template, 0, len(allowed))

	for _, template := range actions {
		for _, actionType := range allowed {
			if template.SubType == string(actionType) {
				compatible = append(compatible, template)

				break
			}
		}
	}

	return compatible
}

// IsCompatible reports whether an action subtype may follow a trigger type.
func (r *Registry) IsCompatible(triggerType models.TriggerType, actionType models.ActionType) bool {
	for _, allowed := range r.matrix[triggerType] {
		if allowed == actionType {
			return true
		}
	}

	return false
}

// Instantiate creates a new node from a template with a fresh id and a deep
// copy of the template's default payload.
func (r *Registry) Instantiate(template *Template) *models.Node {
	return &models.Node{
		ID:    uuid.New().String(),
		Type:  template.Category,
		Label: template.Label,
		Data:  template.DefaultData.Clone(),
	}
}

// ValidateConfig checks a raw node payload against the template's JSON
// schema. Used for workflows arriving through import paths that bypass
// template instantiation.
func (r *Registry) ValidateConfig(category models.NodeType, subType string, raw json.RawMessage) error {
	template, found := r.TemplateBySubType(category, subType)
	if !found {
		return fmt.Errorf("unknown %s template %q", category, subType)
	}

	if template.Schema == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(template.Schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			if detail != "" {
				detail += "; "
			}

			detail += desc.String()
		}

		return fmt.Errorf("invalid %s payload: %s", subType, detail)
	}

	return nil
}

// HealthCheck reports whether the registry carries a usable catalog.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.catalogs[models.NodeTypeTrigger]) == 0 || len(r.catalogs[models.NodeTypeAction]) == 0 {
		return "Template registry is missing trigger or action catalogs", false
	}

	return "Template registry is healthy", true
}
