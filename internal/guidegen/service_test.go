package guidegen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/llm"
)

func validGuideJSON() json.RawMessage {
	return json.RawMessage(`{
		"guide": {
			"title": "How to set up a network printer",
			"description": "A beginner-level guide for connecting an office printer over WiFi",
			"category": "hardware",
			"difficulty_level": "beginner",
			"estimated_duration_minutes": 18,
			"sections": [
				{
					"section_id": "setup",
					"section_title": "Setup",
					"section_description": "Initial preparation steps",
					"section_order": 0,
					"steps": [
						{
							"step_index": 1,
							"title": "Unbox the printer",
							"description": "Remove all packaging and protective tape.",
							"completion_criteria": "Printer is free of packaging",
							"assistance_hints": ["Check inside the paper tray for tape"],
							"estimated_duration_minutes": 5,
							"requires_desktop_monitoring": false,
							"visual_markers": [],
							"prerequisites": []
						},
						{
							"step_index": 2,
							"title": "Power on",
							"description": "Plug in the power cable and press the power button.",
							"completion_criteria": "Status light is on",
							"assistance_hints": [],
							"estimated_duration_minutes": 2,
							"requires_desktop_monitoring": false,
							"visual_markers": [],
							"prerequisites": []
						}
					]
				},
				{
					"section_id": "execution",
					"section_title": "Execution",
					"section_description": "Main action steps",
					"section_order": 1,
					"steps": [
						{
							"step_index": 3,
							"title": "Join the WiFi network",
							"description": "Use the printer panel to select your network and enter the password.",
							"completion_criteria": "Printer shows a connected status",
							"assistance_hints": ["The password is case sensitive"],
							"estimated_duration_minutes": 6,
							"requires_desktop_monitoring": true,
							"visual_markers": ["WiFi icon", "network list"],
							"prerequisites": ["1"]
						},
						{
							"step_index": 4,
							"title": "Print a test page",
							"description": "From the computer, print the test page to confirm the connection.",
							"completion_criteria": "Test page prints",
							"assistance_hints": [],
							"estimated_duration_minutes": 5,
							"requires_desktop_monitoring": true,
							"visual_markers": ["Print dialog"],
							"prerequisites": ["2"]
						}
					]
				}
			]
		}
	}`)
}

func TestService_GeneratesGuide(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validGuideJSON()})
	svc := NewService(mock, DefaultConfig())

	g, err := svc.Generate(context.Background(), Request{Goal: "set up a network printer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Title != "How to set up a network printer" {
		t.Errorf("unexpected title: %q", g.Title)
	}
	if g.Category != "hardware" {
		t.Errorf("unexpected category: %q", g.Category)
	}
	if g.Difficulty != guide.DifficultyBeginner {
		t.Errorf("unexpected difficulty: %q", g.Difficulty)
	}
	if len(g.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(g.Sections))
	}
	if g.TotalSteps != 4 {
		t.Errorf("expected 4 total steps, got %d", g.TotalSteps)
	}

	ids := g.AllIdentifiers(true)
	want := []string{"0", "1", "2", "3"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d identifiers, got %v", len(want), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("identifier %d: expected %q, got %q", i, id, ids[i])
		}
	}

	wifi, sec, ok := g.FindStep("2")
	if !ok {
		t.Fatal("step 2 not found")
	}
	if wifi.Title != "Join the WiFi network" {
		t.Errorf("unexpected step 2 title: %q", wifi.Title)
	}
	if sec.ID != "execution" {
		t.Errorf("expected step 2 in execution section, got %q", sec.ID)
	}
	if !wifi.RequiresMonitoring {
		t.Error("expected WiFi step to require monitoring")
	}
}

func TestService_SectionsSortedByDeclaredOrder(t *testing.T) {
	raw := json.RawMessage(`{
		"guide": {
			"title": "Shuffled",
			"description": "Sections arrive out of order",
			"category": "general",
			"difficulty_level": "beginner",
			"estimated_duration_minutes": 10,
			"sections": [
				{
					"section_id": "validation",
					"section_title": "Validation",
					"section_order": 1,
					"steps": [
						{"step_index": 2, "title": "Verify", "description": "Check the result.", "completion_criteria": "Looks right", "estimated_duration_minutes": 5}
					]
				},
				{
					"section_id": "setup",
					"section_title": "Setup",
					"section_order": 0,
					"steps": [
						{"step_index": 1, "title": "Prepare", "description": "Get ready.", "completion_criteria": "Ready", "estimated_duration_minutes": 5}
					]
				}
			]
		}
	}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	svc := NewService(mock, DefaultConfig())

	g, err := svc.Generate(context.Background(), Request{Goal: "anything"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Sections[0].ID != "setup" || g.Sections[1].ID != "validation" {
		t.Fatalf("sections not reordered: %q, %q", g.Sections[0].ID, g.Sections[1].ID)
	}
	prepare, _, _ := g.FindStep("0")
	if prepare == nil || prepare.Title != "Prepare" {
		t.Errorf("expected identifier 0 on the setup step, got %+v", prepare)
	}
}

func TestService_RequestDefaultsApplied(t *testing.T) {
	raw := json.RawMessage(`{
		"guide": {
			"title": "Bare",
			"description": "Model omitted category and difficulty",
			"sections": [
				{
					"section_id": "main",
					"section_title": "Main",
					"section_order": 0,
					"steps": [
						{"step_index": 1, "title": "Do it", "description": "Just do it.", "completion_criteria": "Done", "estimated_duration_minutes": 3}
					]
				}
			]
		}
	}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	svc := NewService(mock, DefaultConfig())

	g, err := svc.Generate(context.Background(), Request{
		Goal:       "anything",
		Category:   "productivity",
		Difficulty: guide.DifficultyAdvanced,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Category != "productivity" {
		t.Errorf("expected request category to fill the gap, got %q", g.Category)
	}
	if g.Difficulty != guide.DifficultyAdvanced {
		t.Errorf("expected request difficulty to fill the gap, got %q", g.Difficulty)
	}
}

func TestService_NoSteps(t *testing.T) {
	raw := json.RawMessage(`{
		"guide": {
			"title": "Empty",
			"description": "No sections at all",
			"category": "general",
			"difficulty_level": "beginner",
			"estimated_duration_minutes": 0,
			"sections": []
		}
	}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), Request{Goal: "anything"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var valErr *guide.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *guide.ValidationError, got %T", err)
	}
}

func TestService_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validGuideJSON()})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), Request{Goal: "set up a network printer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	call := mock.Calls[0]
	if call.Schema == nil || call.Schema.Name != "guide-tree" {
		t.Errorf("expected guide-tree schema, got %+v", call.Schema)
	}
	if call.MaxTokens != 2000 {
		t.Errorf("expected MaxTokens 2000, got %d", call.MaxTokens)
	}
	if call.Temperature != 0.7 {
		t.Errorf("expected Temperature 0.7, got %f", call.Temperature)
	}
	if !strings.Contains(call.System, "step-by-step guides") {
		t.Error("expected system prompt to describe the guide task")
	}
	if !strings.Contains(call.Messages[0].Content, "Create a beginner-level guide for: set up a network printer") {
		t.Errorf("unexpected user message: %q", call.Messages[0].Content)
	}
}

func TestService_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("API error")})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), Request{Goal: "anything"})
	if err == nil {
		t.Fatal("expected error from provider")
	}
	if !strings.Contains(err.Error(), "guide generation") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestService_MalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"guide": [1,2]}`)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), Request{Goal: "anything"})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse guide response") {
		t.Errorf("unexpected error message: %v", err)
	}
}
