package altgen

import (
	"fmt"
	"strings"

	"github.com/waymark-labs/waymark/internal/adaptation"
)

const systemPrompt = `You are an expert problem-solver for step-by-step guides.

The user is working through a guide and is stuck on a step that cannot be completed as written. Generate 2-3 ALTERNATIVE steps to achieve the same outcome as the blocked step, given the changed circumstances.

Guidelines:
- Generate 2-3 practical alternatives.
- Account for what the user actually sees.
- Work around the specific problem reported, do not restate the blocked approach.
- Be specific and actionable.
- Achieve the same end goal as the blocked step.
- Give each alternative a realistic duration estimate in whole minutes.`

// buildUserMessage constructs the user message from the adaptation context.
func buildUserMessage(input *adaptation.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Original goal: %s\n", input.Goal)
	if input.GuideDescription != "" {
		fmt.Fprintf(&b, "Guide description: %s\n", input.GuideDescription)
	}

	b.WriteString("\nSteps completed successfully:\n")
	b.WriteString(buildCompleted(input.Completed))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\nBlocked step: %s\n", input.BlockedStep.Title)
	fmt.Fprintf(&b, "Description: %s\n", blockedDescription(input.BlockedStep.Description))
	fmt.Fprintf(&b, "Steps remaining after it: %d\n", input.RemainingCount)

	fmt.Fprintf(&b, "\nProblem encountered: %s\n", input.Problem.Description)
	fmt.Fprintf(&b, "Reason category: %s\n", input.Problem.Reason)
	fmt.Fprintf(&b, "What the user actually sees: %s\n", input.Problem.WhatUserSees)
	fmt.Fprintf(&b, "Attempted solutions: %s", buildAttempted(input.Problem.AttemptedSolutions))

	return b.String()
}

// buildCompleted formats the completed steps as a bulleted list.
func buildCompleted(steps []adaptation.CompletedStep) string {
	if len(steps) == 0 {
		return "None"
	}

	var b strings.Builder
	for _, st := range steps {
		fmt.Fprintf(&b, "- %s: %s\n", st.Title, st.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildAttempted joins the user's attempted solutions for the prompt.
func buildAttempted(attempts []string) string {
	if len(attempts) == 0 {
		return "None"
	}
	return strings.Join(attempts, ", ")
}

func blockedDescription(desc string) string {
	if desc == "" {
		return "No description"
	}
	return desc
}
