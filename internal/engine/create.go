package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/guidegen"
)

// CreateGuide generates a guide for the request and persists it at
// version 1.
func (e *Engine) CreateGuide(ctx context.Context, req guidegen.Request) (*guide.Guide, error) {
	if e.guideGen == nil {
		return nil, fmt.Errorf("guide generation requires a configured LLM provider")
	}

	g, err := e.guideGen.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate guide: %w", err)
	}
	g.ID = uuid.NewString()
	g.CreatedAt = e.now()

	if err := e.guides.Create(ctx, g); err != nil {
		return nil, err
	}
	e.log.Info("guide created",
		"guide_id", g.ID,
		"title", g.Title,
		"sections", g.TotalSections,
		"steps", g.TotalSteps,
		"provider", e.providerName,
	)
	return g, nil
}
