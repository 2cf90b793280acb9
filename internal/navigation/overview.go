package navigation

import (
	"sort"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/identifier"
	"github.com/waymark-labs/waymark/internal/session"
)

// Overview builds the filtered view of one section: titles, durations and
// status flags per step, never descriptions. Blocked steps stay visible,
// crossed out, and are excluded from the duration total. The session pointer
// is read but never healed here.
func Overview(g *guide.Guide, s *session.Session, sectionID string) (*SectionOverview, error) {
	sec, ok := g.FindSection(sectionID)
	if !ok {
		return nil, &guide.SectionNotFoundError{ID: sectionID}
	}

	current := s.CurrentIdentifier

	steps := make([]*guide.Step, len(sec.Steps))
	copy(steps, sec.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return identifier.Less(steps[i].Identifier, steps[j].Identifier)
	})

	out := &SectionOverview{
		SectionID:   sec.ID,
		Title:       sec.Title,
		Description: sec.Description,
		Order:       sec.Order,
	}

	for _, st := range steps {
		completed := identifier.Less(st.Identifier, current)
		isCurrent := st.Identifier == current

		sum := StepSummary{
			Identifier:         st.Identifier,
			Title:              st.Title,
			DurationMinutes:    st.DurationMinutes,
			Status:             st.Status,
			Completed:          completed,
			Current:            isCurrent,
			Locked:             !completed && !isCurrent,
			IsBlocked:          st.IsBlocked(),
			IsAlternative:      st.IsAlternative(),
			ReplacesIdentifier: st.ReplacesIdentifier,
		}
		if st.IsBlocked() {
			sum.BlockedReason = st.BlockedReason
			sum.ShowAs = "crossed_out"
		} else {
			out.TotalMinutes += st.DurationMinutes
		}
		out.Steps = append(out.Steps, sum)
	}

	return out, nil
}
