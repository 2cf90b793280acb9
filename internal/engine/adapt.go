package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/waymark-labs/waymark/internal/adaptation"
	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/store"
)

// defaultProblemDescription stands in when the report carries no text.
const defaultProblemDescription = "Step is impossible to complete"

// ReportResult is the outcome of a successful adaptation: the step that
// was blocked, the alternatives spliced in after it, and the step the
// session now points at.
type ReportResult struct {
	Status           string        `json:"status"`
	Message          string        `json:"message"`
	BlockedStep      *guide.Step   `json:"blocked_step"`
	AlternativeSteps []*guide.Step `json:"alternative_steps"`
	CurrentStep      *guide.Step   `json:"current_step"`
}

// ReportImpossibleStep handles "this step cannot be done": the current
// step is marked blocked and that block is persisted before generation
// runs, so a generator failure still leaves the report on record. On
// success the generated alternatives are spliced in, the history entry
// appended, and the session pointed at the first alternative.
//
// A failed generation returns AdaptationFailedError; retrying the report
// mints the next unused suffixes. A concurrent guide change returns
// AdaptationConflictError with the splice unpersisted.
func (e *Engine) ReportImpossibleStep(ctx context.Context, sessionID string, p adaptation.Problem) (*ReportResult, error) {
	if e.alternatives == nil {
		return nil, fmt.Errorf("reporting an impossible step requires a configured LLM provider")
	}

	now := e.now()
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := writeGate(s, "report an impossible step", now); err != nil {
		return nil, err
	}
	g, err := e.guides.Load(ctx, s.GuideID)
	if err != nil {
		return nil, err
	}

	st, _, ok := g.FindStep(s.CurrentIdentifier)
	if !ok {
		return nil, &guide.StepNotFoundError{Identifier: s.CurrentIdentifier}
	}
	if st.IsBlocked() {
		if alts := g.AlternativesFor(st.Identifier); len(alts) > 0 {
			s.MoveTo(alts[0].Identifier, now)
			st, _, _ = g.FindStep(s.CurrentIdentifier)
		}
	}
	blockedID := st.Identifier

	if p.Description == "" {
		p.Description = defaultProblemDescription
	}
	if p.Reason == "" {
		p.Reason = adaptation.ReasonUIChanged
	} else if !p.Reason.Valid() {
		p.Reason = adaptation.ReasonOther
	}

	// Phase one: persist the block on its own, so the report survives a
	// generator failure.
	st.Block(p.Description)
	if err := e.saveGuide(ctx, g); err != nil {
		return nil, err
	}
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("step blocked",
		"session_id", s.ID,
		"guide_id", g.ID,
		"step", blockedID,
		"reason", p.Reason,
		"problem", p.Description,
	)

	// Phase two: generate, splice, persist.
	actx, err := adaptation.BuildContext(g, blockedID, p)
	if err != nil {
		return nil, err
	}
	result, err := e.alternatives.Generate(ctx, actx)
	if err != nil {
		e.log.Error("alternative generation failed",
			"session_id", s.ID,
			"step", blockedID,
			"error", err,
		)
		return nil, &AdaptationFailedError{Err: err}
	}

	ids, err := adaptation.Apply(g, blockedID, result.Drafts, e.providerName, p, now)
	if err != nil {
		return nil, &AdaptationFailedError{Err: err}
	}
	if err := e.saveGuide(ctx, g); err != nil {
		return nil, err
	}

	s.MoveTo(ids[0], now)
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	alts := make([]*guide.Step, 0, len(ids))
	for _, id := range ids {
		if a, _, found := g.FindStep(id); found {
			alts = append(alts, a)
		}
	}
	e.log.Info("guide adapted",
		"session_id", s.ID,
		"guide_id", g.ID,
		"blocked_step", blockedID,
		"alternatives", ids,
		"provider", e.providerName,
	)

	return &ReportResult{
		Status:           "adapted",
		Message:          "Alternative approach generated successfully",
		BlockedStep:      st,
		AlternativeSteps: alts,
		CurrentStep:      alts[0],
	}, nil
}

// saveGuide persists the tree under its version stamp, translating a
// version conflict into the retryable adaptation error.
func (e *Engine) saveGuide(ctx context.Context, g *guide.Guide) error {
	err := e.guides.Save(ctx, g, g.Version)
	var conflict *store.VersionConflictError
	if errors.As(err, &conflict) {
		return &AdaptationConflictError{GuideID: g.ID, Err: err}
	}
	return err
}
