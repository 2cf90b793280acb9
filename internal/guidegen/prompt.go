package guidegen

import (
	"fmt"
	"strings"

	"github.com/waymark-labs/waymark/internal/guide"
)

const guideSystemPrompt = `You are an expert assistant that creates comprehensive step-by-step guides with logical sectioning.

Structure the guide with logical sections that group related steps together. For example:
- "Setup" section for preparation steps
- "Configuration" section for settings and adjustments
- "Execution" section for main action steps
- "Validation" section for verification steps

Guidelines:
- Create 2-4 logical sections with 2-4 steps each
- Each step should be clear and actionable within its section
- Include specific completion criteria for each step
- Add helpful hints for each step
- Estimate realistic time requirements
- Mark steps that could use desktop monitoring (UI interactions)
- Provide visual markers for desktop monitoring steps (buttons, dialogs, etc.)
- Add prerequisites for steps that depend on previous steps
- Ensure logical flow between sections and steps`

// buildGuideUserMessage constructs the user message for one request.
func buildGuideUserMessage(req Request) string {
	var b strings.Builder

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = guide.DifficultyBeginner
	}

	fmt.Fprintf(&b, "Create a %s-level guide for: %s\n", difficulty, req.Goal)
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", req.Category)
	}
	if req.UserContext != "" {
		fmt.Fprintf(&b, "\nAbout the user's environment:\n%s\n", req.UserContext)
	}

	return strings.TrimRight(b.String(), "\n")
}
