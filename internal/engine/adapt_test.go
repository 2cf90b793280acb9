package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/waymark-labs/waymark/internal/adaptation"
)

func printerProblem() adaptation.Problem {
	return adaptation.Problem{
		Description:        "The installer window never opens",
		Reason:             adaptation.ReasonUIChanged,
		WhatUserSees:       "A blank dialog with a spinner",
		AttemptedSolutions: []string{"rebooted", "re-downloaded the file"},
	}
}

func TestReportImpossibleStep(t *testing.T) {
	alt := &fakeAltGen{drafts: twoDrafts()}
	e, st := newTestEngine(t, alt, nil)
	g, s := seedSession(t, e, st)
	ctx := context.Background()

	// Move onto step "1" first.
	if _, err := e.Advance(ctx, s.ID, ""); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	res, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem())
	if err != nil {
		t.Fatalf("ReportImpossibleStep: %v", err)
	}

	if res.Status != "adapted" {
		t.Errorf("status = %q", res.Status)
	}
	if res.Message != "Alternative approach generated successfully" {
		t.Errorf("message = %q", res.Message)
	}
	if res.BlockedStep.Identifier != "1" || !res.BlockedStep.IsBlocked() {
		t.Errorf("blocked step = %+v", res.BlockedStep)
	}
	if len(res.AlternativeSteps) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(res.AlternativeSteps))
	}
	if res.AlternativeSteps[0].Identifier != "1a" || res.AlternativeSteps[1].Identifier != "1b" {
		t.Errorf("alternative ids = %q, %q", res.AlternativeSteps[0].Identifier, res.AlternativeSteps[1].Identifier)
	}
	if res.CurrentStep.Identifier != "1a" {
		t.Errorf("current = %q, want 1a", res.CurrentStep.Identifier)
	}

	// Generation context described the blocked position.
	if alt.lastInput.Goal != g.Title {
		t.Errorf("context goal = %q", alt.lastInput.Goal)
	}
	if alt.lastInput.BlockedStep.Identifier != "1" {
		t.Errorf("context blocked step = %q", alt.lastInput.BlockedStep.Identifier)
	}
	if len(alt.lastInput.Completed) != 1 || alt.lastInput.Completed[0].Identifier != "0" {
		t.Errorf("context completed = %+v", alt.lastInput.Completed)
	}

	// Both guide mutations persisted.
	stored, err := st.Guides().Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load guide: %v", err)
	}
	blocked, _, ok := stored.FindStep("1")
	if !ok || !blocked.IsBlocked() {
		t.Fatalf("stored step 1 = %+v", blocked)
	}
	if blocked.BlockedReason != "The installer window never opens" {
		t.Errorf("blocked reason = %q", blocked.BlockedReason)
	}
	if got := stored.AlternativesFor("1"); len(got) != 2 {
		t.Errorf("stored alternatives = %d", len(got))
	}
	if len(stored.History) != 1 {
		t.Fatalf("history = %+v", stored.History)
	}
	rec := stored.History[0]
	if rec.BlockedIdentifier != "1" || rec.Reason != "ui_changed" || rec.GeneratorUsed != "mock" {
		t.Errorf("history record = %+v", rec)
	}
	if len(rec.NewIdentifiers) != 2 || rec.NewIdentifiers[0] != "1a" {
		t.Errorf("history identifiers = %v", rec.NewIdentifiers)
	}
	if stored.LastAdaptedAt == nil {
		t.Error("LastAdaptedAt should be set")
	}
	// Create, block, splice.
	if stored.Version != 3 {
		t.Errorf("version = %d, want 3", stored.Version)
	}

	// Session points at the first alternative.
	loaded, err := st.Sessions().Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load session: %v", err)
	}
	if loaded.CurrentIdentifier != "1a" {
		t.Errorf("pointer = %q, want 1a", loaded.CurrentIdentifier)
	}
}

func TestReportImpossibleStepGeneratorFailure(t *testing.T) {
	alt := &fakeAltGen{err: errors.New("model timeout")}
	e, st := newTestEngine(t, alt, nil)
	g, s := seedSession(t, e, st)
	ctx := context.Background()

	_, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem())
	var af *AdaptationFailedError
	if !errors.As(err, &af) {
		t.Fatalf("err = %v, want *AdaptationFailedError", err)
	}

	// The block survives the failure; nothing else does.
	stored, err := st.Guides().Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load guide: %v", err)
	}
	blocked, _, _ := stored.FindStep("0")
	if !blocked.IsBlocked() {
		t.Error("step 0 should stay blocked after a failed generation")
	}
	if got := stored.AlternativesFor("0"); len(got) != 0 {
		t.Errorf("alternatives = %d, want none", len(got))
	}
	if len(stored.History) != 0 {
		t.Errorf("history = %+v, want empty", stored.History)
	}

	loaded, err := st.Sessions().Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load session: %v", err)
	}
	if loaded.CurrentIdentifier != "0" {
		t.Errorf("pointer = %q, want unmoved", loaded.CurrentIdentifier)
	}

	// Retrying the report mints the suffixes the first attempt never used.
	alt.err = nil
	alt.drafts = twoDrafts()
	res, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.AlternativeSteps[0].Identifier != "0a" || res.AlternativeSteps[1].Identifier != "0b" {
		t.Errorf("retry ids = %q, %q", res.AlternativeSteps[0].Identifier, res.AlternativeSteps[1].Identifier)
	}
}

func TestReportImpossibleStepDefaults(t *testing.T) {
	alt := &fakeAltGen{drafts: twoDrafts()}
	e, st := newTestEngine(t, alt, nil)
	g, s := seedSession(t, e, st)
	ctx := context.Background()

	if _, err := e.ReportImpossibleStep(ctx, s.ID, adaptation.Problem{}); err != nil {
		t.Fatalf("ReportImpossibleStep: %v", err)
	}

	p := alt.lastInput.Problem
	if p.Description != "Step is impossible to complete" {
		t.Errorf("description = %q", p.Description)
	}
	if p.Reason != adaptation.ReasonUIChanged {
		t.Errorf("reason = %q", p.Reason)
	}
	if p.WhatUserSees != "Not specified" {
		t.Errorf("what user sees = %q", p.WhatUserSees)
	}
	if p.AttemptedSolutions == nil || len(p.AttemptedSolutions) != 0 {
		t.Errorf("attempted = %#v", p.AttemptedSolutions)
	}

	stored, err := st.Guides().Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load guide: %v", err)
	}
	blocked, _, _ := stored.FindStep("0")
	if blocked.BlockedReason != "Step is impossible to complete" {
		t.Errorf("blocked reason = %q", blocked.BlockedReason)
	}
}

func TestReportImpossibleStepUnknownReason(t *testing.T) {
	alt := &fakeAltGen{drafts: twoDrafts()}
	e, st := newTestEngine(t, alt, nil)
	_, s := seedSession(t, e, st)

	p := printerProblem()
	p.Reason = adaptation.Reason("cosmic rays")
	if _, err := e.ReportImpossibleStep(context.Background(), s.ID, p); err != nil {
		t.Fatalf("ReportImpossibleStep: %v", err)
	}
	if alt.lastInput.Problem.Reason != adaptation.ReasonOther {
		t.Errorf("reason = %q, want other", alt.lastInput.Problem.Reason)
	}
}

func TestReportImpossibleStepVersionConflict(t *testing.T) {
	e, st := newTestEngine(t, nil, nil)
	g, s := seedSession(t, e, st)
	ctx := context.Background()

	// Another writer touches the guide while generation is in flight.
	alt := &fakeAltGen{
		drafts: twoDrafts(),
		hook: func() {
			other, err := st.Guides().Load(ctx, g.ID)
			if err != nil {
				t.Fatalf("hook load: %v", err)
			}
			if err := st.Guides().Save(ctx, other, other.Version); err != nil {
				t.Fatalf("hook save: %v", err)
			}
		},
	}
	e.alternatives = alt

	_, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem())
	var ac *AdaptationConflictError
	if !errors.As(err, &ac) {
		t.Fatalf("err = %v, want *AdaptationConflictError", err)
	}

	// The block from phase one stands; the splice was never persisted.
	stored, err := st.Guides().Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load guide: %v", err)
	}
	blocked, _, _ := stored.FindStep("0")
	if !blocked.IsBlocked() {
		t.Error("step 0 should stay blocked")
	}
	if got := stored.AlternativesFor("0"); len(got) != 0 {
		t.Errorf("alternatives = %d, want none", len(got))
	}
	if len(stored.History) != 0 {
		t.Errorf("history = %+v, want empty", stored.History)
	}
}

func TestReportImpossibleStepRepeatedMintsFreshSuffixes(t *testing.T) {
	alt := &fakeAltGen{drafts: twoDrafts()}
	e, st := newTestEngine(t, alt, nil)
	_, s := seedSession(t, e, st)
	ctx := context.Background()

	first, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem())
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	if first.CurrentStep.Identifier != "0a" {
		t.Fatalf("current = %q", first.CurrentStep.Identifier)
	}

	// The first alternative turns out to be impossible too.
	second, err := e.ReportImpossibleStep(ctx, s.ID, adaptation.Problem{
		Description: "The package manager is not installed either",
		Reason:      adaptation.ReasonFeatureMissing,
	})
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if second.BlockedStep.Identifier != "0a" {
		t.Errorf("second blocked = %q, want 0a", second.BlockedStep.Identifier)
	}
	if second.AlternativeSteps[0].Identifier != "0c" || second.AlternativeSteps[1].Identifier != "0d" {
		t.Errorf("second ids = %q, %q",
			second.AlternativeSteps[0].Identifier, second.AlternativeSteps[1].Identifier)
	}
	if second.CurrentStep.Identifier != "0c" {
		t.Errorf("current = %q, want 0c", second.CurrentStep.Identifier)
	}
}

func TestReportImpossibleStepHealsPointerFirst(t *testing.T) {
	alt := &fakeAltGen{drafts: twoDrafts()}
	e, st := newTestEngine(t, alt, nil)
	_, s := seedSession(t, e, st)
	ctx := context.Background()

	if _, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem()); err != nil {
		t.Fatalf("first report: %v", err)
	}

	// Drag the pointer back onto the blocked step by hand.
	loaded, err := st.Sessions().Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load session: %v", err)
	}
	loaded.MoveTo("0", time.Now())
	if err := st.Sessions().Save(ctx, loaded); err != nil {
		t.Fatalf("Save session: %v", err)
	}

	// The report resolves to the healed position, not the blocked step.
	res, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem())
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if res.BlockedStep.Identifier != "0a" {
		t.Errorf("blocked = %q, want healed 0a", res.BlockedStep.Identifier)
	}
}

func TestReportImpossibleStepWithoutGenerator(t *testing.T) {
	e, st := newTestEngine(t, nil, nil)
	g, s := seedSession(t, e, st)
	ctx := context.Background()

	if _, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem()); err == nil {
		t.Fatal("report without a generator should fail")
	}

	// Nothing was touched, the step is not even blocked.
	stored, err := st.Guides().Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load guide: %v", err)
	}
	step, _, _ := stored.FindStep("0")
	if step.IsBlocked() {
		t.Error("step should not be blocked when no generator is configured")
	}
}

func TestGetCurrentStepHealsOffBlockedStep(t *testing.T) {
	alt := &fakeAltGen{drafts: twoDrafts()}
	e, st := newTestEngine(t, alt, nil)
	_, s := seedSession(t, e, st)
	ctx := context.Background()

	if _, err := e.ReportImpossibleStep(ctx, s.ID, printerProblem()); err != nil {
		t.Fatalf("report: %v", err)
	}

	loaded, err := st.Sessions().Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load session: %v", err)
	}
	loaded.MoveTo("0", time.Now())
	if err := st.Sessions().Save(ctx, loaded); err != nil {
		t.Fatalf("Save session: %v", err)
	}

	view, err := e.GetCurrentStep(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetCurrentStep: %v", err)
	}
	if view.Step.Identifier != "0a" {
		t.Errorf("view = %q, want healed 0a", view.Step.Identifier)
	}

	after, err := st.Sessions().Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load session: %v", err)
	}
	if after.CurrentIdentifier != "0a" {
		t.Errorf("persisted pointer = %q, want 0a", after.CurrentIdentifier)
	}
}
