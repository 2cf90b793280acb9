// Package progress derives completion counters and time estimates from a
// guide tree and a session's current identifier. Nothing here is stored;
// every number is recomputed from the tree on demand.
package progress

import (
	"math"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/identifier"
)

// Progress summarizes how far a session has moved through a set of steps.
// Blocked steps never count toward the totals; alternatives do.
type Progress struct {
	CompletedSteps   int     `json:"completed_steps"`
	TotalSteps       int     `json:"total_steps"`
	Percentage       float64 `json:"completion_percentage"`
	RemainingMinutes int     `json:"estimated_time_remaining"`
}

// Compute returns guide-wide progress for the given current identifier.
// A step counts as completed when its identifier sorts strictly before
// the current one. The current step's own duration is not part of the
// remaining time.
func Compute(g *guide.Guide, currentID string) Progress {
	ids := g.AllIdentifiers(false)

	completed := 0
	for _, id := range ids {
		if identifier.Less(id, currentID) {
			completed++
		}
	}

	remaining := 0
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			if st.IsBlocked() {
				continue
			}
			if identifier.Less(currentID, st.Identifier) {
				remaining += st.DurationMinutes
			}
		}
	}

	return Progress{
		CompletedSteps:   completed,
		TotalSteps:       len(ids),
		Percentage:       percentage(completed, len(ids)),
		RemainingMinutes: remaining,
	}
}

// ComputeSection returns the same computation restricted to one section.
func ComputeSection(sec *guide.Section, currentID string) Progress {
	completed, total, remaining := 0, 0, 0
	for _, st := range sec.Steps {
		if st.IsBlocked() {
			continue
		}
		total++
		switch {
		case identifier.Less(st.Identifier, currentID):
			completed++
		case identifier.Less(currentID, st.Identifier):
			remaining += st.DurationMinutes
		}
	}
	return Progress{
		CompletedSteps:   completed,
		TotalSteps:       total,
		Percentage:       percentage(completed, total),
		RemainingMinutes: remaining,
	}
}

// percentage rounds completed/total to one decimal place, 0 when total
// is 0.
func percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
