// Package navigation resolves a session's current step, moves the
// pointer forward and backward, and builds the filtered views that keep
// progressive disclosure intact: full detail for the current step only,
// titles and status for everything else.
package navigation

import (
	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/progress"
)

// GuideInfo is the slim guide header attached to a current-step view.
type GuideInfo struct {
	ID          string           `json:"guide_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Difficulty  guide.Difficulty `json:"difficulty_level"`
}

// SectionInfo describes the section owning the current step, with
// progress scoped to that section.
type SectionInfo struct {
	ID          string            `json:"section_id"`
	Title       string            `json:"section_title"`
	Description string            `json:"section_description"`
	Order       int               `json:"section_order"`
	Progress    progress.Progress `json:"section_progress"`
}

// StepDetail is the full disclosure of a single step. Only the current
// step is ever rendered this way.
type StepDetail struct {
	Identifier         string           `json:"step_identifier"`
	Number             int              `json:"step_number"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	CompletionCriteria string           `json:"completion_criteria"`
	Hints              []string         `json:"assistance_hints,omitempty"`
	DurationMinutes    int              `json:"estimated_duration_minutes"`
	RequiresMonitoring bool             `json:"requires_desktop_monitoring"`
	VisualMarkers      []string         `json:"visual_markers,omitempty"`
	Prerequisites      []string         `json:"prerequisites,omitempty"`
	PrerequisitesMet   bool             `json:"prerequisites_met"`
	Status             guide.StepStatus `json:"status"`
	IsAlternative      bool             `json:"is_alternative"`
	ReplacesIdentifier string           `json:"replaces_step_identifier,omitempty"`
	BlockedReason      string           `json:"blocked_reason,omitempty"`
}

// SectionPreview teases the next section when the current step is the
// last of its own.
type SectionPreview struct {
	Title           string `json:"section_title"`
	Description     string `json:"section_description"`
	StepCount       int    `json:"step_count"`
	DurationMinutes int    `json:"estimated_duration"`
}

// NavigationInfo carries the movement hints shown beside the current
// step.
type NavigationInfo struct {
	CanGoBack          bool            `json:"can_go_back"`
	CanSkip            bool            `json:"can_skip"`
	NextSectionPreview *SectionPreview `json:"next_section_preview,omitempty"`
}

// CurrentStepView is the full answer to "where am I": guide header,
// owning section, the disclosed step, progress, and movement hints.
type CurrentStepView struct {
	SessionID  string            `json:"session_id"`
	Guide      GuideInfo         `json:"guide"`
	Section    SectionInfo       `json:"current_section"`
	Step       StepDetail        `json:"current_step"`
	Progress   progress.Progress `json:"progress"`
	Navigation NavigationInfo    `json:"navigation"`
}

// AdvanceResult is returned by Advance: either the next step's view or a
// completion notice when the pointer moved past the last step.
type AdvanceResult struct {
	Completed bool             `json:"completed"`
	Message   string           `json:"message,omitempty"`
	View      *CurrentStepView `json:"current,omitempty"`
}

// StepSummary is the filtered per-step line of a section overview. It
// never carries a description.
type StepSummary struct {
	Identifier         string           `json:"step_identifier"`
	Title              string           `json:"title"`
	DurationMinutes    int              `json:"estimated_duration_minutes"`
	Status             guide.StepStatus `json:"status"`
	Completed          bool             `json:"completed"`
	Current            bool             `json:"current"`
	Locked             bool             `json:"locked"`
	IsBlocked          bool             `json:"is_blocked"`
	IsAlternative      bool             `json:"is_alternative"`
	BlockedReason      string           `json:"blocked_reason,omitempty"`
	ReplacesIdentifier string           `json:"replaces_step_identifier,omitempty"`
	ShowAs             string           `json:"show_as,omitempty"`
}

// SectionOverview lists a section's steps with status flags and an
// aggregate duration that excludes blocked steps.
type SectionOverview struct {
	SectionID    string        `json:"section_id"`
	Title        string        `json:"section_title"`
	Description  string        `json:"section_description"`
	Order        int           `json:"section_order"`
	Steps        []StepSummary `json:"step_overview"`
	TotalMinutes int           `json:"total_estimated_minutes"`
}
