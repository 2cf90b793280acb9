package guide

import (
	"fmt"
	"strconv"

	"github.com/waymark-labs/waymark/internal/identifier"
)

const (
	// DefaultStepMinutes is assumed when a generator omits a duration.
	DefaultStepMinutes = 5

	// MaxGuideSteps caps how many steps a generated guide may carry.
	MaxGuideSteps = 20

	// DefaultCategory is assumed when a generator omits a category.
	DefaultCategory = "general"
)

// ValidationError reports a draft that cannot be normalized into a guide.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid guide: %s", e.Reason)
}

// FromDraft normalizes a generated draft into a guide tree:
//
//   - a flat step list is wrapped in a single "main" section
//   - step identifiers are assigned globally, "0" upward, in document
//     order across sections
//   - missing durations and the category fall back to defaults
//   - identifier-shaped prerequisites that do not name a strictly earlier
//     step are dropped; free-text prerequisites pass through
//   - denormalized totals are computed
//
// The caller assigns ID and CreatedAt. Drafts with no steps, or with more
// than MaxGuideSteps, are rejected.
func FromDraft(d Draft) (*Guide, error) {
	sections := d.Sections
	if len(sections) == 0 && len(d.Steps) > 0 {
		sections = []SectionDraft{{
			ID:          "main",
			Title:       "Steps",
			Description: "Main steps for this guide",
			Steps:       d.Steps,
		}}
	}

	total := 0
	for _, sec := range sections {
		total += len(sec.Steps)
	}
	if total == 0 {
		return nil, &ValidationError{Reason: "draft contains no steps"}
	}
	if total > MaxGuideSteps {
		return nil, &ValidationError{Reason: fmt.Sprintf("draft has %d steps, limit is %d", total, MaxGuideSteps)}
	}

	category := d.Category
	if category == "" {
		category = DefaultCategory
	}
	difficulty := d.Difficulty
	if difficulty == "" {
		difficulty = DifficultyIntermediate
	}

	g := &Guide{
		Title:       d.Title,
		Description: d.Description,
		Category:    category,
		Difficulty:  difficulty,
	}

	counter := 0
	for order, sec := range sections {
		id := sec.ID
		if id == "" {
			id = "section_" + strconv.Itoa(order+1)
		}
		out := &Section{
			ID:          id,
			Title:       sec.Title,
			Description: sec.Description,
			Order:       order,
		}
		for _, sd := range sec.Steps {
			minutes := sd.DurationMinutes
			if minutes <= 0 {
				minutes = DefaultStepMinutes
			}
			out.Steps = append(out.Steps, &Step{
				Identifier:         strconv.Itoa(counter),
				Title:              sd.Title,
				Description:        sd.Description,
				CompletionCriteria: sd.CompletionCriteria,
				Hints:              sd.Hints,
				DurationMinutes:    minutes,
				RequiresMonitoring: sd.RequiresMonitoring,
				VisualMarkers:      sd.VisualMarkers,
				Prerequisites:      sd.Prerequisites,
				Status:             StatusActive,
			})
			counter++
		}
		g.Sections = append(g.Sections, out)
	}

	repairPrerequisites(g)
	g.RecomputeTotals()

	minutes := d.DurationMinutes
	if minutes <= 0 {
		for _, sec := range g.Sections {
			minutes += sec.DurationMinutes
		}
	}
	g.DurationMinutes = minutes

	return g, nil
}

// repairPrerequisites drops identifier-shaped prerequisites that do not
// resolve to a strictly earlier step. Free-text prerequisites are kept
// as-is; they are advisory.
func repairPrerequisites(g *Guide) {
	known := make(map[string]bool)
	for _, id := range g.AllIdentifiers(true) {
		known[id] = true
	}
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			if len(st.Prerequisites) == 0 {
				continue
			}
			kept := st.Prerequisites[:0]
			for _, p := range st.Prerequisites {
				if identifier.Valid(p) && (!known[p] || !identifier.Less(p, st.Identifier)) {
					continue
				}
				kept = append(kept, p)
			}
			st.Prerequisites = kept
		}
	}
}
