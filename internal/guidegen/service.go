package guidegen

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/llm"
)

// Service generates guides with an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a guide generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// guideEnvelope is the raw LLM response. The model returns the document
// nested under a "guide" key.
type guideEnvelope struct {
	Guide guideOutput `json:"guide"`
}

type guideOutput struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	DifficultyLevel string          `json:"difficulty_level"`
	DurationMinutes int             `json:"estimated_duration_minutes"`
	Sections        []sectionOutput `json:"sections"`
}

type sectionOutput struct {
	ID          string       `json:"section_id"`
	Title       string       `json:"section_title"`
	Description string       `json:"section_description"`
	Order       int          `json:"section_order"`
	Steps       []stepOutput `json:"steps"`
}

type stepOutput struct {
	StepIndex          int      `json:"step_index"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	CompletionCriteria string   `json:"completion_criteria"`
	Hints              []string `json:"assistance_hints"`
	DurationMinutes    int      `json:"estimated_duration_minutes"`
	RequiresMonitoring bool     `json:"requires_desktop_monitoring"`
	VisualMarkers      []string `json:"visual_markers"`
	Prerequisites      []string `json:"prerequisites"`
}

// Generate produces a normalized guide for the request. Step identifiers
// are assigned during normalization; the caller assigns the guide ID and
// CreatedAt.
func (s *Service) Generate(ctx context.Context, req Request) (*guide.Guide, error) {
	ctx = llm.WithPurpose(ctx, "guide-generation")

	llmReq := llm.Request{
		System: guideSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGuideUserMessage(req)},
		},
		Schema:      GuideSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("guide generation: %w", err)
	}

	var out guideEnvelope
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse guide response: %w", err)
	}

	return normalize(out.Guide, req)
}

// normalize converts raw LLM output into a guide document through the
// draft pipeline. Sections are put in the model's declared section_order
// before identifiers are assigned, so the global numbering follows the
// intended reading order even if the array arrived shuffled.
func normalize(out guideOutput, req Request) (*guide.Guide, error) {
	sections := make([]sectionOutput, len(out.Sections))
	copy(sections, out.Sections)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})

	draft := guide.Draft{
		Title:           out.Title,
		Description:     out.Description,
		Category:        out.Category,
		Difficulty:      guide.Difficulty(out.DifficultyLevel),
		DurationMinutes: out.DurationMinutes,
	}
	if draft.Category == "" {
		draft.Category = req.Category
	}
	if draft.Difficulty == "" {
		draft.Difficulty = req.Difficulty
	}

	for _, sec := range sections {
		sd := guide.SectionDraft{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
		}
		for _, st := range sec.Steps {
			sd.Steps = append(sd.Steps, guide.StepDraft{
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
		draft.Sections = append(draft.Sections, sd)
	}

	return guide.FromDraft(draft)
}
