package altgen

import "github.com/waymark-labs/waymark/internal/llm"

// AlternativesSchema defines the JSON schema for LLM alternative-step responses.
var AlternativesSchema = &llm.Schema{
	Name:        "step-alternatives",
	Description: "Replacement steps for a guide step that cannot be completed",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reason_for_change": map[string]any{
				"type":        "string",
				"description": "One sentence explaining why the alternatives take a different route",
			},
			"alternative_steps": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 3,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short imperative title for the step",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "Detailed instructions for completing the step",
						},
						"completion_criteria": map[string]any{
							"type":        "string",
							"description": "How the user knows the step is done",
						},
						"assistance_hints": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Tips for when the user gets stuck",
						},
						"estimated_duration_minutes": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"description": "Realistic estimate of how long the step takes",
						},
						"requires_desktop_monitoring": map[string]any{
							"type":        "boolean",
							"description": "Whether the step should be verified by watching the screen",
						},
						"visual_markers": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "On-screen elements that confirm the user is in the right place",
						},
						"prerequisites": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Step identifiers or conditions that must hold first",
						},
					},
					"required":             []any{"title", "description", "completion_criteria", "estimated_duration_minutes"},
					"additionalProperties": false,
				},
				"description": "2-3 alternative steps that reach the same outcome a different way",
			},
		},
		"required":             []any{"reason_for_change", "alternative_steps"},
		"additionalProperties": false,
	},
}
