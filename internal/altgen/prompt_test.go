package altgen

import (
	"strings"
	"testing"

	"github.com/waymark-labs/waymark/internal/adaptation"
	"github.com/waymark-labs/waymark/internal/guide"
)

func TestBuildUserMessage_FullContext(t *testing.T) {
	msg := buildUserMessage(printerContext())

	if !strings.Contains(msg, "Original goal: Set Up a Network Printer") {
		t.Error("missing goal")
	}
	if !strings.Contains(msg, "Guide description: Connect and configure an office printer over WiFi") {
		t.Error("missing guide description")
	}
	if !strings.Contains(msg, "- Unbox the printer: Remove all packaging and tape") {
		t.Error("missing first completed step")
	}
	if !strings.Contains(msg, "Blocked step: Open Devices and Printers") {
		t.Error("missing blocked step title")
	}
	if !strings.Contains(msg, "Description: Open the classic Devices and Printers control panel page.") {
		t.Error("missing blocked step description")
	}
	if !strings.Contains(msg, "Steps remaining after it: 3") {
		t.Error("missing remaining count")
	}
	if !strings.Contains(msg, "Problem encountered: The Devices and Printers page no longer exists") {
		t.Error("missing problem description")
	}
	if !strings.Contains(msg, "Reason category: ui_changed") {
		t.Error("missing reason category")
	}
	if !strings.Contains(msg, "Attempted solutions: searched control panel, rebooted") {
		t.Error("missing attempted solutions")
	}
}

func TestBuildUserMessage_EmptyOptionalFields(t *testing.T) {
	input := &adaptation.Context{
		Goal: "Install the app",
		BlockedStep: &guide.Step{
			Identifier: "0",
			Title:      "Download installer",
		},
		Problem: adaptation.Problem{
			Description: "Download link is gone",
			Reason:      adaptation.ReasonFeatureMissing,
		},
	}
	msg := buildUserMessage(input)

	if strings.Contains(msg, "Guide description:") {
		t.Error("empty guide description should be omitted")
	}
	if !strings.Contains(msg, "Steps completed successfully:\nNone") {
		t.Error("expected 'None' for completed steps")
	}
	if !strings.Contains(msg, "Description: No description") {
		t.Error("expected placeholder for missing blocked description")
	}
	if !strings.Contains(msg, "Attempted solutions: None") {
		t.Error("expected 'None' for attempted solutions")
	}
}

func TestBuildCompleted_Ordering(t *testing.T) {
	steps := []adaptation.CompletedStep{
		{Identifier: "0", Title: "First", Description: "one"},
		{Identifier: "1", Title: "Second", Description: "two"},
		{Identifier: "1a", Title: "Third", Description: "three"},
	}
	out := buildCompleted(steps)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "- First: one" || lines[2] != "- Third: three" {
		t.Errorf("unexpected formatting: %q", out)
	}
}
