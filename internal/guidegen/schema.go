package guidegen

import "github.com/waymark-labs/waymark/internal/llm"

// GuideSchema defines the JSON schema for LLM guide generation responses.
// The document is nested under a "guide" key.
var GuideSchema = &llm.Schema{
	Name:        "guide-tree",
	Description: "A complete step-by-step guide organized into logical sections",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"guide": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Short title for the guide",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "One-paragraph summary of what the guide accomplishes",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Broad category, e.g. software, hardware, productivity",
					},
					"difficulty_level": map[string]any{
						"type":        "string",
						"enum":        []any{"beginner", "intermediate", "advanced"},
						"description": "Difficulty the guide is written for",
					},
					"estimated_duration_minutes": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"description": "Total realistic duration across all steps",
					},
					"sections": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"section_id": map[string]any{
									"type":        "string",
									"description": "Stable identifier in lowercase_underscore form, e.g. setup",
								},
								"section_title": map[string]any{
									"type":        "string",
									"description": "Human-readable section title",
								},
								"section_description": map[string]any{
									"type":        "string",
									"description": "What this group of steps achieves",
								},
								"section_order": map[string]any{
									"type":        "integer",
									"minimum":     0,
									"description": "Position of the section, 0 first",
								},
								"steps": map[string]any{
									"type":     "array",
									"minItems": 1,
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"step_index": map[string]any{
												"type":        "integer",
												"minimum":     1,
												"description": "Global step number across all sections, starting at 1",
											},
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
										"required":             []any{"step_index", "title", "description", "completion_criteria", "estimated_duration_minutes"},
										"additionalProperties": false,
									},
								},
							},
							"required":             []any{"section_id", "section_title", "section_order", "steps"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []any{"title", "description", "category", "difficulty_level", "estimated_duration_minutes", "sections"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"guide"},
		"additionalProperties": false,
	},
}
