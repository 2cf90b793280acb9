package adaptation

import (
	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/identifier"
)

// completedDescriptionLimit caps how much of each finished step's
// description is carried into the generation context.
const completedDescriptionLimit = 100

// Problem is the user's report of why the current step cannot be done.
type Problem struct {
	Description        string
	Reason             Reason
	WhatUserSees       string
	AttemptedSolutions []string
}

// CompletedStep is the trimmed record of a step already behind the user,
// included in the generation context.
type CompletedStep struct {
	Identifier  string
	Title       string
	Description string
}

// Context carries everything the generator needs to propose replacement
// steps: where the user is, what worked so far, and what went wrong.
type Context struct {
	Goal             string
	GuideDescription string
	Completed        []CompletedStep
	BlockedStep      *guide.Step
	RemainingCount   int
	Problem          Problem
}

// BuildContext assembles the generation context for the step at
// currentID. Steps strictly before it count as completed regardless of
// status; everything after it, blocked or not, counts toward the
// remaining total.
func BuildContext(g *guide.Guide, currentID string, p Problem) (*Context, error) {
	blocked, _, ok := g.FindStep(currentID)
	if !ok {
		return nil, &guide.StepNotFoundError{Identifier: currentID}
	}

	if p.WhatUserSees == "" {
		p.WhatUserSees = "Not specified"
	}
	if p.AttemptedSolutions == nil {
		p.AttemptedSolutions = []string{}
	}

	ctx := &Context{
		Goal:             g.Title,
		GuideDescription: g.Description,
		BlockedStep:      blocked,
		Problem:          p,
	}

	for _, sec := range g.Sections {
		for _, st := range sec.Steps {
			switch {
			case identifier.Less(st.Identifier, currentID):
				ctx.Completed = append(ctx.Completed, CompletedStep{
					Identifier:  st.Identifier,
					Title:       st.Title,
					Description: truncate(st.Description, completedDescriptionLimit),
				})
			case identifier.Less(currentID, st.Identifier):
				ctx.RemainingCount++
			}
		}
	}

	return ctx, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
