package registry

import "github.com/engagekit/engage/pkg/models"

// NewDefaultRegistry returns the built-in template catalogs and the
// trigger/action compatibility matrix shipped with the product.
func NewDefaultRegistry() *Registry {
	catalogs := map[models.NodeType][]*Template{
		models.NodeTypeTrigger:   triggerTemplates(),
		models.NodeTypeAction:    actionTemplates(),
		models.NodeTypeCondition: conditionTemplates(),
		models.NodeTypeDelay:     delayTemplates(),
	}

	matrix := map[models.TriggerType][]models.ActionType{
		models.TriggerDirectMessage: {
			models.ActionSendMessage,
			models.ActionAIResponse,
			models.ActionWebhook,
		},
		models.TriggerPostComment: {
			models.ActionReplyComment,
			models.ActionAIResponse,
			models.ActionWebhook,
		},
	}

	return NewRegistry(catalogs, matrix)
}

func triggerTemplates() []*Template {
	return []*Template{
		{
			SubType:     string(models.TriggerDirectMessage),
			Category:    models.NodeTypeTrigger,
			Label:       "Direct Message",
			Description: "Fires when a direct message containing one of the keywords arrives",
			DefaultData: &models.TriggerData{
				TriggerType: models.TriggerDirectMessage,
				Keywords:    []string{},
				MatchType:   models.MatchContains,
			},
			Schema: triggerSchema(false),
		},
		{
			SubType:     string(models.TriggerPostComment),
			Category:    models.NodeTypeTrigger,
			Label:       "Post Comment",
			Description: "Fires when a comment containing one of the keywords is left on a post",
			DefaultData: &models.TriggerData{
				TriggerType: models.TriggerPostComment,
				Keywords:    []string{},
				MatchType:   models.MatchContains,
			},
			Schema: triggerSchema(true),
		},
	}
}

func actionTemplates() []*Template {
	return []*Template{
		{
			SubType:     string(models.ActionSendMessage),
			Category:    models.NodeTypeAction,
			Label:       "Send Message",
			Description: "Sends a direct message built from the message template",
			DefaultData: &models.ActionData{
				ActionType:      models.ActionSendMessage,
				MessageTemplate: "Hi {{username}}!",
			},
			Schema: actionSchema("message_template"),
		},
		{
			SubType:     string(models.ActionReplyComment),
			Category:    models.NodeTypeAction,
			Label:       "Reply to Comment",
			Description: "Replies to the matched comment with the message template",
			DefaultData: &models.ActionData{
				ActionType:      models.ActionReplyComment,
				MessageTemplate: "Thanks {{username}}!",
			},
			Schema: actionSchema("message_template"),
		},
		{
			SubType:     string(models.ActionAIResponse),
			Category:    models.NodeTypeAction,
			Label:       "AI Response",
			Description: "Generates a reply from the prompt and sends it on the channel",
			DefaultData: &models.ActionData{
				ActionType: models.ActionAIResponse,
				AIPrompt:   "Reply helpfully to: {{text}}",
				AIModel:    "default",
			},
			Schema: actionSchema("ai_prompt"),
		},
		{
			SubType:     string(models.ActionWebhook),
			Category:    models.NodeTypeAction,
			Label:       "Webhook",
			Description: "Posts the matched event to an external URL",
			DefaultData: &models.ActionData{
				ActionType: models.ActionWebhook,
			},
			Schema: actionSchema("webhook_url"),
		},
	}
}

func conditionTemplates() []*Template {
	return []*Template{
		{
			SubType:     "condition",
			Category:    models.NodeTypeCondition,
			Label:       "Condition",
			Description: "Branches on a field of the inbound event",
			DefaultData: &models.ConditionData{
				Field:      "text",
				Operator:   models.OperatorContains,
				TrueLabel:  "Yes",
				FalseLabel: "No",
			},
			Schema: conditionSchema(),
		},
	}
}

func delayTemplates() []*Template {
	return []*Template{
		{
			SubType:     "delay",
			Category:    models.NodeTypeDelay,
			Label:       "Delay",
			Description: "Waits before running the next node",
			DefaultData: &models.DelayData{
				Duration: 5,
				Unit:     models.DelayUnitMinutes,
			},
			Schema: delaySchema(),
		},
	}
}

func triggerSchema(withPosts bool) map[string]any {
	properties := map[string]any{
		"trigger_type": map[string]any{
			"type": "string",
			"enum": []string{"direct_message", "post_comment"},
		},
		"keywords": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"match_type": map[string]any{
			"type": "string",
			"enum": []string{"contains", "exact", "starts_with"},
		},
		"case_sensitive": map[string]any{"type": "boolean"},
		"channel_id":     map[string]any{"type": "string"},
	}

	if withPosts {
		properties["post_ids"] = map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   []string{"trigger_type", "match_type"},
	}
}

func actionSchema(required string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action_type": map[string]any{
				"type": "string",
				"enum": []string{"send_message", "reply_comment", "ai_response", "webhook"},
			},
			"channel_id":       map[string]any{"type": "string"},
			"message_template": map[string]any{"type": "string"},
			"ai_prompt":        map[string]any{"type": "string"},
			"ai_model":         map[string]any{"type": "string"},
			"webhook_url":      map[string]any{"type": "string", "format": "uri"},
			"delay_seconds":    map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"action_type", required},
	}
}

func conditionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{"type": "string"},
			"operator": map[string]any{
				"type": "string",
				"enum": []string{
					"equals", "not_equals", "contains", "not_contains",
					"greater_than", "less_than", "is_empty", "is_not_empty",
				},
			},
			"value":       map[string]any{"type": "string"},
			"true_label":  map[string]any{"type": "string"},
			"false_label": map[string]any{"type": "string"},
		},
		"required": []string{"field", "operator"},
	}
}

func delaySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration": map[string]any{"type": "integer", "minimum": 1},
			"unit": map[string]any{
				"type": "string",
				"enum": []string{"seconds", "minutes", "hours", "days"},
			},
		},
		"required": []string{"duration", "unit"},
	}
}
