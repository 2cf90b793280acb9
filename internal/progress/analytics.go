package progress

import (
	"time"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/identifier"
)

// Analytics extends Progress with pace metrics derived from how long the
// session has been running.
type Analytics struct {
	Progress

	ElapsedMinutes    float64 `json:"session_duration_minutes"`
	AvgMinutesPerStep float64 `json:"average_time_per_completed_step"`
	StepsPerHour      float64 `json:"steps_per_hour"`

	// BaseRemainingMinutes sums the declared durations of the steps not
	// yet completed, the current one included. AdjustedRemainingMinutes
	// projects the user's own pace over the remaining count; the estimate
	// takes the larger of the two.
	BaseRemainingMinutes      int       `json:"base_estimate_minutes"`
	AdjustedRemainingMinutes  float64   `json:"adjusted_estimate_minutes"`
	EstimatedRemainingMinutes float64   `json:"estimated_time_remaining_minutes"`
	EstimatedCompletionAt     time.Time `json:"estimated_completion_time"`
}

// ComputeAnalytics derives pace metrics for a session that started at
// startedAt and currently points at currentID.
func ComputeAnalytics(g *guide.Guide, currentID string, startedAt, now time.Time) Analytics {
	p := Compute(g, currentID)

	elapsed := now.Sub(startedAt).Minutes()
	if elapsed < 0 {
		elapsed = 0
	}

	base := 0
	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			if st.IsBlocked() {
				continue
			}
			if !identifier.Less(st.Identifier, currentID) {
				base += st.DurationMinutes
			}
		}
	}

	a := Analytics{
		Progress:             p,
		ElapsedMinutes:       elapsed,
		BaseRemainingMinutes: base,
	}

	remainingCount := p.TotalSteps - p.CompletedSteps
	if p.CompletedSteps > 0 {
		a.AvgMinutesPerStep = elapsed / float64(p.CompletedSteps)
		a.AdjustedRemainingMinutes = float64(remainingCount) * a.AvgMinutesPerStep
	}
	if elapsed > 0 {
		a.StepsPerHour = float64(p.CompletedSteps) / (elapsed / 60)
	}

	// The estimate never undercuts the declared durations.
	a.EstimatedRemainingMinutes = float64(base)
	if a.AdjustedRemainingMinutes > a.EstimatedRemainingMinutes {
		a.EstimatedRemainingMinutes = a.AdjustedRemainingMinutes
	}
	a.EstimatedCompletionAt = now.Add(time.Duration(a.EstimatedRemainingMinutes * float64(time.Minute)))

	return a
}
