package navigation

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/session"
)

var t0 = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// installGuide builds two sections: setup (0,1) and execution (2,3).
func installGuide() *guide.Guide {
	g := &guide.Guide{
		ID:          "guide-1",
		Title:       "Install the tool",
		Description: "Full walkthrough",
		Difficulty:  guide.DifficultyBeginner,
		Sections: []*guide.Section{
			{
				ID: "setup", Title: "Setup", Description: "Prepare", Order: 0,
				Steps: []*guide.Step{
					{Identifier: "0", Title: "Download", Description: "Get the installer", CompletionCriteria: "File on disk", DurationMinutes: 5, Status: guide.StatusActive},
					{Identifier: "1", Title: "Verify", Description: "Check the hash", CompletionCriteria: "Hash matches", DurationMinutes: 3, Status: guide.StatusActive},
				},
			},
			{
				ID: "execution", Title: "Execution", Description: "Install", Order: 1,
				Steps: []*guide.Step{
					{Identifier: "2", Title: "Run installer", Description: "Double click", CompletionCriteria: "Wizard opens", DurationMinutes: 10, Status: guide.StatusActive},
					{Identifier: "3", Title: "Confirm", Description: "Check version", CompletionCriteria: "Version prints", DurationMinutes: 2, Status: guide.StatusActive},
				},
			},
		},
	}
	g.RecomputeTotals()
	return g
}

func activeSession(g *guide.Guide) *session.Session {
	first, _ := g.FirstIdentifier(true)
	s := session.New("sess-1", "user-1", g.ID, first, t0)
	if err := s.Activate(t0); err != nil {
		panic(err)
	}
	return s
}

func blockWithAlternatives(t *testing.T, g *guide.Guide, id string, n int) {
	t.Helper()
	st, _, ok := g.FindStep(id)
	if !ok {
		t.Fatalf("fixture step %q missing", id)
	}
	st.Block("reported impossible")
	var alts []*guide.Step
	for i := 0; i < n; i++ {
		suffix := string(rune('a' + i))
		alts = append(alts, guide.NewAlternative(
			guide.StepDraft{Title: "Alt " + suffix, Description: "workaround", DurationMinutes: 4},
			id+suffix, id))
	}
	if err := g.InsertAlternatives(id, alts); err != nil {
		t.Fatalf("InsertAlternatives: %v", err)
	}
}

func TestCurrentBasicView(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}

	if view.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", view.SessionID)
	}
	if view.Guide.Title != "Install the tool" {
		t.Errorf("guide title = %q", view.Guide.Title)
	}
	if view.Section.ID != "setup" {
		t.Errorf("section = %q, want setup", view.Section.ID)
	}
	if view.Step.Identifier != "0" || view.Step.Number != 1 {
		t.Errorf("step = %q number %d, want 0 number 1", view.Step.Identifier, view.Step.Number)
	}
	if view.Step.Description != "Get the installer" {
		t.Errorf("description = %q", view.Step.Description)
	}
	if view.Progress.TotalSteps != 4 || view.Progress.CompletedSteps != 0 {
		t.Errorf("progress = %+v", view.Progress)
	}
	if view.Navigation.CanGoBack {
		t.Error("CanGoBack should be false at the first step")
	}
	if !view.Navigation.CanSkip {
		t.Error("CanSkip should be true for a plain step")
	}
	if view.Navigation.NextSectionPreview != nil {
		t.Error("no preview expected mid-section")
	}
}

func TestCurrentIdempotent(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	first, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	second, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two reads without movement should be identical")
	}
}

func TestCurrentSelfHealsBlockedPointer(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("1", t0)
	blockWithAlternatives(t, g, "1", 2)

	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if view.Step.Identifier != "1a" {
		t.Errorf("step = %q, want 1a", view.Step.Identifier)
	}
	if !view.Step.IsAlternative || view.Step.ReplacesIdentifier != "1" {
		t.Errorf("alternative flags = %v/%q", view.Step.IsAlternative, view.Step.ReplacesIdentifier)
	}
	// The pointer heals as a side effect.
	if s.CurrentIdentifier != "1a" {
		t.Errorf("pointer = %q, want 1a", s.CurrentIdentifier)
	}
}

func TestCurrentBlockedWithoutAlternatives(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("1", t0)
	st, _, _ := g.FindStep("1")
	st.Block("generator was down")

	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	// Unresolved block: the step renders as-is so the caller can see it.
	if view.Step.Status != guide.StatusBlocked {
		t.Errorf("status = %q, want blocked", view.Step.Status)
	}
	if view.Step.BlockedReason != "generator was down" {
		t.Errorf("reason = %q", view.Step.BlockedReason)
	}
	if s.CurrentIdentifier != "1" {
		t.Errorf("pointer moved to %q", s.CurrentIdentifier)
	}
}

func TestCurrentUnknownPointer(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("9", t0)

	_, err := Current(g, s, t0)
	var nf *guide.StepNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *StepNotFoundError", err)
	}
}

func TestAdvanceLinearWalk(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	for _, want := range []string{"1", "2", "3"} {
		res, err := Advance(g, s, t0)
		if err != nil {
			t.Fatalf("Advance to %s: %v", want, err)
		}
		if res.Completed {
			t.Fatalf("unexpected completion before %s", want)
		}
		if res.View.Step.Identifier != want {
			t.Errorf("step = %q, want %q", res.View.Step.Identifier, want)
		}
	}

	res, err := Advance(g, s, t0)
	if err != nil {
		t.Fatalf("final Advance: %v", err)
	}
	if !res.Completed || res.Message != CompletionMessage {
		t.Errorf("result = %+v, want completion", res)
	}
	if s.Status != session.StatusCompleted {
		t.Errorf("session status = %q, want completed", s.Status)
	}
	if s.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestAdvanceSkipsBlocked(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	st, _, _ := g.FindStep("1")
	st.Block("impossible")

	res, err := Advance(g, s, t0)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.View.Step.Identifier != "2" {
		t.Errorf("step = %q, want 2 (skipping blocked 1)", res.View.Step.Identifier)
	}
}

func TestAdvanceIntoAlternatives(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	blockWithAlternatives(t, g, "1", 2)

	res, err := Advance(g, s, t0)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.View.Step.Identifier != "1a" {
		t.Errorf("step = %q, want 1a", res.View.Step.Identifier)
	}
}

func TestAdvanceFromBlockedPointer(t *testing.T) {
	// A failed adaptation leaves the pointer on a blocked step with no
	// alternatives. Advancing must continue to the next active step, not
	// fake a completion.
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("1", t0)
	st, _, _ := g.FindStep("1")
	st.Block("impossible")

	res, err := Advance(g, s, t0)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.Completed {
		t.Fatal("must not complete with steps remaining")
	}
	if res.View.Step.Identifier != "2" {
		t.Errorf("step = %q, want 2", res.View.Step.Identifier)
	}
}

func TestGoBack(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("2", t0)

	view, err := GoBack(g, s, t0)
	if err != nil {
		t.Fatalf("GoBack: %v", err)
	}
	if view.Step.Identifier != "1" {
		t.Errorf("step = %q, want 1", view.Step.Identifier)
	}
}

func TestGoBackAtFirstStep(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	_, err := GoBack(g, s, t0)
	var cgb *CannotGoBackError
	if !errors.As(err, &cgb) {
		t.Fatalf("err = %v, want *CannotGoBackError", err)
	}
	if cgb.Identifier != "0" {
		t.Errorf("Identifier = %q, want 0", cgb.Identifier)
	}
}

func TestGoBackRevisitsBlockedStep(t *testing.T) {
	// Backward navigation includes blocked steps on purpose: the user may
	// rewind to inspect one. The view then heals onto its alternative.
	g := installGuide()
	s := activeSession(g)
	blockWithAlternatives(t, g, "1", 1)
	s.MoveTo("2", t0)

	view, err := GoBack(g, s, t0)
	if err != nil {
		t.Fatalf("GoBack: %v", err)
	}
	// Previous in the blocked-inclusive order is "1a" (between "1" and "2").
	if view.Step.Identifier != "1a" {
		t.Errorf("step = %q, want 1a", view.Step.Identifier)
	}

	// One more step back lands on the blocked "1", which self-heals to "1a"...
	view, err = GoBack(g, s, t0)
	if err != nil {
		t.Fatalf("second GoBack: %v", err)
	}
	if view.Step.Identifier != "1a" {
		t.Errorf("step = %q, want 1a after healing", view.Step.Identifier)
	}
}

func TestCanSkipRules(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	st, _, _ := g.FindStep("0")
	st.RequiresMonitoring = true
	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if view.Navigation.CanSkip {
		t.Error("monitored steps cannot be skipped")
	}

	blockWithAlternatives(t, g, "1", 1)
	s.MoveTo("1a", t0)
	view, err = Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if view.Navigation.CanSkip {
		t.Error("alternative steps cannot be skipped")
	}
}

func TestNextSectionPreview(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("1", t0) // last step of setup

	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	preview := view.Navigation.NextSectionPreview
	if preview == nil {
		t.Fatal("expected a preview at the last step of a section")
	}
	if preview.Title != "Execution" || preview.StepCount != 2 || preview.DurationMinutes != 12 {
		t.Errorf("preview = %+v", preview)
	}

	// No preview at the end of the last section.
	s.MoveTo("3", t0)
	view, err = Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if view.Navigation.NextSectionPreview != nil {
		t.Error("no preview expected in the last section")
	}
}

func TestPrerequisitesMet(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	st, _, _ := g.FindStep("2")
	st.Prerequisites = []string{"0", "Have admin rights"}
	s.MoveTo("2", t0)

	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !view.Step.PrerequisitesMet {
		t.Error("prerequisites naming earlier steps should be met")
	}

	st.Prerequisites = []string{"3"}
	view, err = Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if view.Step.PrerequisitesMet {
		t.Error("a prerequisite naming a later step is not met")
	}
}

func TestSectionProgressInView(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("3", t0)

	view, err := Current(g, s, t0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	sp := view.Section.Progress
	if sp.CompletedSteps != 1 || sp.TotalSteps != 2 {
		t.Errorf("section progress = %+v, want 1/2", sp)
	}
	if view.Progress.CompletedSteps != 3 {
		t.Errorf("guide progress completed = %d, want 3", view.Progress.CompletedSteps)
	}
}
