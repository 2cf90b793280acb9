package guide

import (
	"fmt"
	"sort"

	"github.com/waymark-labs/waymark/internal/identifier"
)

// StepNotFoundError reports an identifier that names no step in the guide.
type StepNotFoundError struct {
	Identifier string
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %q not found in guide", e.Identifier)
}

// SectionNotFoundError reports a section id that names no section.
type SectionNotFoundError struct {
	ID string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found in guide", e.ID)
}

// FindStep returns the step with the given identifier and its owning
// section.
func (g *Guide) FindStep(id string) (*Step, *Section, bool) {
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			if st.Identifier == id {
				return st, sec, true
			}
		}
	}
	return nil, nil, false
}

// FindSection returns the section with the given id.
func (g *Guide) FindSection(id string) (*Section, bool) {
	for _, sec := range g.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return nil, false
}

// AllIdentifiers returns every step identifier in natural sorted order.
// Blocked steps are excluded unless includeBlocked is set.
func (g *Guide) AllIdentifiers(includeBlocked bool) []string {
	var ids []string
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			if !includeBlocked && st.IsBlocked() {
				continue
			}
			ids = append(ids, st.Identifier)
		}
	}
	return identifier.SortAll(ids)
}

// FirstIdentifier returns the first identifier in navigation order.
func (g *Guide) FirstIdentifier(includeBlocked bool) (string, bool) {
	ids := g.AllIdentifiers(includeBlocked)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// AlternativesFor returns the alternative steps minted for the given
// blocked identifier, sorted by suffix.
func (g *Guide) AlternativesFor(blockedID string) []*Step {
	var alts []*Step
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			if st.IsAlternative() && st.ReplacesIdentifier == blockedID {
				alts = append(alts, st)
			}
		}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return identifier.Less(alts[i].Identifier, alts[j].Identifier)
	})
	return alts
}

// SuffixesInUse returns the letter suffixes already taken for a numeric
// base anywhere in the guide. Minting consults this so repeated
// adaptation of the same base never reuses a letter.
func (g *Guide) SuffixesInUse(base int) map[string]bool {
	used := make(map[string]bool)
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			k := identifier.Parse(st.Identifier)
			if k.Base == base && k.Suffix != "" {
				used[k.Suffix] = true
			}
		}
	}
	return used
}

// InsertAlternatives splices steps into the section owning the named
// step, then re-sorts that section so its slice order stays the natural
// identifier order. Denormalized totals are recomputed afterwards.
func (g *Guide) InsertAlternatives(afterID string, alts []*Step) error {
	for _, sec := range g.Sections {
		for i, st := range sec.Steps {
			if st.Identifier != afterID {
				continue
			}
			expanded := make([]*Step, 0, len(sec.Steps)+len(alts))
			expanded = append(expanded, sec.Steps[:i+1]...)
			expanded = append(expanded, alts...)
			expanded = append(expanded, sec.Steps[i+1:]...)
			sort.SliceStable(expanded, func(a, b int) bool {
				return identifier.Less(expanded[a].Identifier, expanded[b].Identifier)
			})
			sec.Steps = expanded
			g.RecomputeTotals()
			return nil
		}
	}
	return &StepNotFoundError{Identifier: afterID}
}

// Position returns the zero-based position of an identifier in the
// flattened non-blocked order, or -1 when absent. The global step number
// is always derived this way, never stored.
func (g *Guide) Position(id string) int {
	for i, other := range g.AllIdentifiers(false) {
		if other == id {
			return i
		}
	}
	return -1
}

// RecomputeTotals refreshes the denormalized step and section counts and
// per-section duration sums. Blocked steps stay in the step count; they
// are excluded from duration totals like everywhere else.
func (g *Guide) RecomputeTotals() {
	total := 0
	for _, sec := range g.Sections {
		total += len(sec.Steps)
		minutes := 0
		for _, st := range sec.Steps {
			if st.IsBlocked() {
				continue
			}
			minutes += st.DurationMinutes
		}
		sec.DurationMinutes = minutes
	}
	g.TotalSteps = total
	g.TotalSections = len(g.Sections)
}
