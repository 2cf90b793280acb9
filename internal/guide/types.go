// Package guide holds the tree model for a generated guide: ordered
// sections owning ordered steps, addressed by step identifier. The
// serialized tree is the single source of truth for a guide; counters and
// positions are derived from it, never stored independently.
package guide

import "time"

// StepStatus tracks the lifecycle of a single step.
type StepStatus string

const (
	StatusActive      StepStatus = "active"
	StatusCompleted   StepStatus = "completed"
	StatusBlocked     StepStatus = "blocked"
	StatusAlternative StepStatus = "alternative"
)

// Difficulty is the declared difficulty of a guide.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Step is one actionable unit of a guide. A blocked step keeps its
// identifier and carries the reason it was blocked; an alternative step
// carries a pointer to the identifier it replaces. Steps are never
// removed from the tree.
type Step struct {
	Identifier         string     `json:"step_identifier"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	CompletionCriteria string     `json:"completion_criteria"`
	Hints              []string   `json:"assistance_hints,omitempty"`
	DurationMinutes    int        `json:"estimated_duration_minutes"`
	RequiresMonitoring bool       `json:"requires_desktop_monitoring,omitempty"`
	VisualMarkers      []string   `json:"visual_markers,omitempty"`
	Prerequisites      []string   `json:"prerequisites,omitempty"`
	Status             StepStatus `json:"status"`
	BlockedReason      string     `json:"blocked_reason,omitempty"`
	ReplacesIdentifier string     `json:"replaces_step_identifier,omitempty"`
}

// Block marks the step blocked with the given reason. Blocking an already
// blocked step keeps the original reason.
func (s *Step) Block(reason string) {
	if s.Status == StatusBlocked {
		return
	}
	s.Status = StatusBlocked
	s.BlockedReason = reason
}

// IsBlocked reports whether the step has been blocked.
func (s *Step) IsBlocked() bool { return s.Status == StatusBlocked }

// IsAlternative reports whether the step replaces a blocked one.
func (s *Step) IsAlternative() bool { return s.Status == StatusAlternative }

// NewAlternative builds an alternative step from a draft, carrying the
// minted identifier and the identifier of the blocked step it replaces.
func NewAlternative(d StepDraft, id, replaces string) *Step {
	minutes := d.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultStepMinutes
	}
	return &Step{
		Identifier:         id,
		Title:              d.Title,
		Description:        d.Description,
		CompletionCriteria: d.CompletionCriteria,
		Hints:              d.Hints,
		DurationMinutes:    minutes,
		RequiresMonitoring: d.RequiresMonitoring,
		VisualMarkers:      d.VisualMarkers,
		Prerequisites:      d.Prerequisites,
		Status:             StatusAlternative,
		ReplacesIdentifier: replaces,
	}
}

// Section groups related steps. Order and membership are fixed at
// generation time; adaptation only inserts steps within a section.
type Section struct {
	ID              string  `json:"section_id"`
	Title           string  `json:"section_title"`
	Description     string  `json:"section_description"`
	Order           int     `json:"section_order"`
	DurationMinutes int     `json:"estimated_duration_minutes"`
	Steps           []*Step `json:"steps"`
}

// AdaptationRecord is one append-only history entry describing a blocked
// step and the alternatives spliced in for it.
type AdaptationRecord struct {
	Timestamp         time.Time `json:"timestamp"`
	BlockedIdentifier string    `json:"blocked_step_identifier"`
	Reason            string    `json:"reason_category"`
	Detail            string    `json:"blocked_reason,omitempty"`
	NewIdentifiers    []string  `json:"alternatives_added"`
	GeneratorUsed     string    `json:"llm_provider"`
}

// Guide is the root of the tree. TotalSteps and TotalSections are
// denormalized and recomputed after every adaptation. Version is the
// optimistic-concurrency stamp managed by the store, not part of the
// serialized document.
type Guide struct {
	ID              string             `json:"guide_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	Difficulty      Difficulty         `json:"difficulty_level"`
	DurationMinutes int                `json:"estimated_duration_minutes"`
	TotalSteps      int                `json:"total_steps"`
	TotalSections   int                `json:"total_sections"`
	Sections        []*Section         `json:"sections"`
	History         []AdaptationRecord `json:"adaptation_history,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	LastAdaptedAt   *time.Time         `json:"last_adapted_at,omitempty"`

	Version int `json:"-"`
}

// StepDraft is a step proposal coming out of a generator, before an
// identifier and a status are assigned.
type StepDraft struct {
	Title              string
	Description        string
	CompletionCriteria string
	Hints              []string
	DurationMinutes    int
	RequiresMonitoring bool
	VisualMarkers      []string
	Prerequisites      []string
}

// SectionDraft is a generated section before normalization.
type SectionDraft struct {
	ID          string
	Title       string
	Description string
	Steps       []StepDraft
}

// Draft is a whole generated guide before normalization. Either Sections
// or the flat Steps list is populated; FromDraft wraps flat steps in a
// single default section.
type Draft struct {
	Title           string
	Description     string
	Category        string
	Difficulty      Difficulty
	DurationMinutes int
	Sections        []SectionDraft
	Steps           []StepDraft
}
