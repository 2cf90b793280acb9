package altgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/waymark-labs/waymark/internal/adaptation"
	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// alternativesOutput is the raw LLM response before validation.
type alternativesOutput struct {
	ReasonForChange  string       `json:"reason_for_change"`
	AlternativeSteps []stepOutput `json:"alternative_steps"`
}

type stepOutput struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	CompletionCriteria string   `json:"completion_criteria"`
	Hints              []string `json:"assistance_hints"`
	DurationMinutes    int      `json:"estimated_duration_minutes"`
	RequiresMonitoring bool     `json:"requires_desktop_monitoring"`
	VisualMarkers      []string `json:"visual_markers"`
	Prerequisites      []string `json:"prerequisites"`
}

// Generate proposes replacement steps for the blocked step described by input.
func (g *LLMGenerator) Generate(ctx context.Context, input *adaptation.Context) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "step-alternatives")

	userMsg := buildUserMessage(input)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      AlternativesSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw alternativesOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if len(raw.AlternativeSteps) == 0 {
		return nil, fmt.Errorf("LLM returned no alternative steps")
	}
	if max := g.config.MaxAlternatives; max > 0 && len(raw.AlternativeSteps) > max {
		raw.AlternativeSteps = raw.AlternativeSteps[:max]
	}

	res := &Result{Reason: raw.ReasonForChange}
	for i, st := range raw.AlternativeSteps {
		if st.Title == "" || st.Description == "" {
			return nil, fmt.Errorf("alternative %d is missing a title or description", i+1)
		}
		res.Drafts = append(res.Drafts, guide.StepDraft{
			Title:              st.Title,
			Description:        st.Description,
			CompletionCriteria: st.CompletionCriteria,
			Hints:              st.Hints,
			DurationMinutes:    st.DurationMinutes,
			RequiresMonitoring: st.RequiresMonitoring,
			VisualMarkers:      st.VisualMarkers,
			Prerequisites:      st.Prerequisites,
		})
	}

	return res, nil
}
