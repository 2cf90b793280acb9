package navigation

import (
	"fmt"
	"time"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/identifier"
	"github.com/waymark-labs/waymark/internal/progress"
	"github.com/waymark-labs/waymark/internal/session"
)

// CompletionMessage is returned when an advance moves past the last step.
const CompletionMessage = "Guide completed successfully"

// CannotGoBackError reports a go-back attempt at the first step.
type CannotGoBackError struct {
	Identifier string
}

func (e *CannotGoBackError) Error() string {
	return fmt.Sprintf("cannot go back from %q: already at the first step", e.Identifier)
}

// Current resolves the session pointer into a full step view. A pointer
// resting on a blocked step self-heals: it redirects to the lowest-suffix
// alternative and moves the session pointer as a side effect. This is the
// only place the pointer moves without an explicit user action. A blocked
// step with no alternatives yet (a failed adaptation) is rendered as-is
// so the caller can surface the unresolved state.
func Current(g *guide.Guide, s *session.Session, now time.Time) (*CurrentStepView, error) {
	st, sec, ok := g.FindStep(s.CurrentIdentifier)
	if !ok {
		return nil, &guide.StepNotFoundError{Identifier: s.CurrentIdentifier}
	}

	if st.IsBlocked() {
		if alts := g.AlternativesFor(st.Identifier); len(alts) > 0 {
			s.MoveTo(alts[0].Identifier, now)
			st, sec, _ = g.FindStep(s.CurrentIdentifier)
		}
	}

	view := buildView(g, s, st, sec)
	return view, nil
}

// Advance moves the pointer to the next non-blocked step. Marking the
// departed step completed is the caller's concern; this only moves the
// pointer. Once past the last step the session transitions to Completed.
func Advance(g *guide.Guide, s *session.Session, now time.Time) (*AdvanceResult, error) {
	ids := g.AllIdentifiers(false)
	next, ok := identifier.Next(s.CurrentIdentifier, ids)
	if !ok {
		if err := s.Complete(now); err != nil {
			return nil, err
		}
		return &AdvanceResult{Completed: true, Message: CompletionMessage}, nil
	}

	s.MoveTo(next, now)
	view, err := Current(g, s, now)
	if err != nil {
		return nil, err
	}
	return &AdvanceResult{View: view}, nil
}

// GoBack moves the pointer to the previous step. Backward navigation
// deliberately includes blocked steps so a user can rewind to inspect
// one; forward navigation never lands on them.
func GoBack(g *guide.Guide, s *session.Session, now time.Time) (*CurrentStepView, error) {
	ids := g.AllIdentifiers(true)
	prev, ok := identifier.Previous(s.CurrentIdentifier, ids)
	if !ok {
		return nil, &CannotGoBackError{Identifier: s.CurrentIdentifier}
	}

	s.MoveTo(prev, now)
	return Current(g, s, now)
}

// buildView assembles the disclosed view of st for the session pointer
// as it stands now.
func buildView(g *guide.Guide, s *session.Session, st *guide.Step, sec *guide.Section) *CurrentStepView {
	return &CurrentStepView{
		SessionID: s.ID,
		Guide: GuideInfo{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			Difficulty:  g.Difficulty,
		},
		Section: SectionInfo{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
			Order:       sec.Order,
			Progress:    progress.ComputeSection(sec, st.Identifier),
		},
		Step:     buildStepDetail(g, st),
		Progress: progress.Compute(g, st.Identifier),
		Navigation: NavigationInfo{
			CanGoBack:          canGoBack(g, st.Identifier),
			CanSkip:            canSkip(st),
			NextSectionPreview: nextSectionPreview(g, sec, st),
		},
	}
}

func buildStepDetail(g *guide.Guide, st *guide.Step) StepDetail {
	return StepDetail{
		Identifier:         st.Identifier,
		Number:             g.Position(st.Identifier) + 1,
		Title:              st.Title,
		Description:        st.Description,
		CompletionCriteria: st.CompletionCriteria,
		Hints:              st.Hints,
		DurationMinutes:    st.DurationMinutes,
		RequiresMonitoring: st.RequiresMonitoring,
		VisualMarkers:      st.VisualMarkers,
		Prerequisites:      st.Prerequisites,
		PrerequisitesMet:   prerequisitesMet(st),
		Status:             st.Status,
		IsAlternative:      st.IsAlternative(),
		ReplacesIdentifier: st.ReplacesIdentifier,
		BlockedReason:      st.BlockedReason,
	}
}

// prerequisitesMet checks the identifier-shaped prerequisites of a step:
// each must sort strictly before the step itself, meaning the referenced
// step was already passed. Free-text prerequisites are advisory and count
// as met.
func prerequisitesMet(st *guide.Step) bool {
	for _, p := range st.Prerequisites {
		if !identifier.Valid(p) {
			continue
		}
		if !identifier.Less(p, st.Identifier) {
			return false
		}
	}
	return true
}

// canSkip reports whether the step may be skipped: steps that need
// desktop monitoring cannot be, and alternatives cannot be since they
// are already the workaround.
func canSkip(st *guide.Step) bool {
	return !st.RequiresMonitoring && !st.IsAlternative()
}

func canGoBack(g *guide.Guide, currentID string) bool {
	_, ok := identifier.Previous(currentID, g.AllIdentifiers(true))
	return ok
}

// nextSectionPreview teases the following section, but only when the
// current step is the last non-blocked step of its own section.
func nextSectionPreview(g *guide.Guide, sec *guide.Section, st *guide.Step) *SectionPreview {
	if !lastActiveInSection(sec, st) {
		return nil
	}
	for _, next := range g.Sections {
		if next.Order != sec.Order+1 {
			continue
		}
		count, minutes := 0, 0
		for _, s := range next.Steps {
			if s.IsBlocked() {
				continue
			}
			count++
			minutes += s.DurationMinutes
		}
		return &SectionPreview{
			Title:           next.Title,
			Description:     next.Description,
			StepCount:       count,
			DurationMinutes: minutes,
		}
	}
	return nil
}

func lastActiveInSection(sec *guide.Section, st *guide.Step) bool {
	var last *guide.Step
	for _, s := range sec.Steps {
		if !s.IsBlocked() {
			last = s
		}
	}
	return last != nil && last.Identifier == st.Identifier
}
