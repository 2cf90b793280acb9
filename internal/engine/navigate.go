package engine

import (
	"context"

	"github.com/waymark-labs/waymark/internal/navigation"
	"github.com/waymark-labs/waymark/internal/progress"
)

// GetCurrentStep resolves the session pointer into the full disclosed
// view of the current step. A pointer resting on a blocked step is healed
// to its first alternative, and the healed position is persisted.
func (e *Engine) GetCurrentStep(ctx context.Context, sessionID string) (*navigation.CurrentStepView, error) {
	now := e.now()
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	activated, err := readGate(s, "view the current step", now)
	if err != nil {
		return nil, err
	}
	g, err := e.guides.Load(ctx, s.GuideID)
	if err != nil {
		return nil, err
	}

	before := s.CurrentIdentifier
	view, err := navigation.Current(g, s, now)
	if err != nil {
		return nil, err
	}
	if activated || s.CurrentIdentifier != before {
		if err := e.sessions.Save(ctx, s); err != nil {
			return nil, err
		}
	}
	if s.CurrentIdentifier != before {
		e.log.Info("pointer healed off blocked step",
			"session_id", s.ID,
			"from", before,
			"to", s.CurrentIdentifier,
		)
	}
	return view, nil
}

// Advance moves the pointer to the next non-blocked step, or completes
// the session when none remains. Notes are free-form completion remarks
// for the departed step; they are logged, not stored.
func (e *Engine) Advance(ctx context.Context, sessionID, notes string) (*navigation.AdvanceResult, error) {
	now := e.now()
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := writeGate(s, "advance", now); err != nil {
		return nil, err
	}
	g, err := e.guides.Load(ctx, s.GuideID)
	if err != nil {
		return nil, err
	}

	departed := s.CurrentIdentifier
	res, err := navigation.Advance(g, s, now)
	if err != nil {
		return nil, err
	}
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	if res.Completed {
		e.log.Info("guide completed",
			"session_id", s.ID,
			"guide_id", g.ID,
			"last_step", departed,
			"notes", notes,
		)
	} else {
		e.log.Info("step advanced",
			"session_id", s.ID,
			"from", departed,
			"to", s.CurrentIdentifier,
			"notes", notes,
		)
	}
	return res, nil
}

// GoBack moves the pointer to the previous step, blocked ones included.
func (e *Engine) GoBack(ctx context.Context, sessionID string) (*navigation.CurrentStepView, error) {
	now := e.now()
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := writeGate(s, "go back", now); err != nil {
		return nil, err
	}
	g, err := e.guides.Load(ctx, s.GuideID)
	if err != nil {
		return nil, err
	}

	from := s.CurrentIdentifier
	view, err := navigation.GoBack(g, s, now)
	if err != nil {
		return nil, err
	}
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("stepped back", "session_id", s.ID, "from", from, "to", s.CurrentIdentifier)
	return view, nil
}

// GetSectionOverview returns the filtered step listing of one section:
// titles and status flags only, never descriptions.
func (e *Engine) GetSectionOverview(ctx context.Context, sessionID, sectionID string) (*navigation.SectionOverview, error) {
	now := e.now()
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	activated, err := readGate(s, "view the section overview", now)
	if err != nil {
		return nil, err
	}
	g, err := e.guides.Load(ctx, s.GuideID)
	if err != nil {
		return nil, err
	}

	view, err := navigation.Overview(g, s, sectionID)
	if err != nil {
		return nil, err
	}
	if activated {
		if err := e.sessions.Save(ctx, s); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// GetProgress computes guide-wide progress plus pace analytics for the
// session. Nothing is stored; every number derives from the tree and the
// pointer.
func (e *Engine) GetProgress(ctx context.Context, sessionID string) (*progress.Analytics, error) {
	now := e.now()
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	activated, err := readGate(s, "view progress", now)
	if err != nil {
		return nil, err
	}
	g, err := e.guides.Load(ctx, s.GuideID)
	if err != nil {
		return nil, err
	}

	a := progress.ComputeAnalytics(g, s.CurrentIdentifier, s.CreatedAt, now)
	if activated {
		if err := e.sessions.Save(ctx, s); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
