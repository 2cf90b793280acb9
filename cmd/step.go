package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waymark-labs/waymark/internal/adaptation"
	"github.com/waymark-labs/waymark/internal/engine"
	"github.com/waymark-labs/waymark/internal/navigation"
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Walk through a guide step by step",
}

var stepCurrentCmd = &cobra.Command{
	Use:   "current <session-id>",
	Short: "Show the current step in full detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.Engine.GetCurrentStep(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printCurrentView(view)
		return nil
	},
}

var stepAdvanceCmd = &cobra.Command{
	Use:   "advance <session-id>",
	Short: "Mark the current step done and move to the next",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Engine.Advance(cmd.Context(), args[0], notes)
		if err != nil {
			return err
		}
		if res.Completed {
			fmt.Printf("🎉 %s\n", res.Message)
			return nil
		}
		printCurrentView(res.View)
		return nil
	},
}

var stepBackCmd = &cobra.Command{
	Use:   "back <session-id>",
	Short: "Move back to the previous step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.Engine.GoBack(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printCurrentView(view)
		return nil
	},
}

var stepOverviewCmd = &cobra.Command{
	Use:   "overview <session-id> [section-id]",
	Short: "Show a section's steps as titles and statuses only",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sectionID := ""
		if len(args) == 2 {
			sectionID = args[1]
		} else {
			// No section named: default to the one the session is in.
			view, err := a.Engine.GetCurrentStep(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sectionID = view.Section.ID
		}

		ov, err := a.Engine.GetSectionOverview(cmd.Context(), args[0], sectionID)
		if err != nil {
			return err
		}
		printSectionOverview(ov)
		return nil
	},
}

var stepReportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Report the current step as impossible and get alternatives",
	Long: `Report that the current step cannot be completed as written.

The step is marked blocked immediately, then the LLM generates alternative
steps that are spliced into the guide right after it. If generation fails
the block is kept and the command can simply be run again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		problemVal, _ := cmd.Flags().GetString("problem")
		reasonVal, _ := cmd.Flags().GetString("reason")
		seesVal, _ := cmd.Flags().GetString("sees")
		triedVal, _ := cmd.Flags().GetStringArray("tried")

		var reason adaptation.Reason
		if reasonVal != "" {
			r, err := adaptation.ParseReason(reasonVal)
			if err != nil {
				return err
			}
			reason = r
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Engine.ReportImpossibleStep(cmd.Context(), args[0], adaptation.Problem{
			Description:        problemVal,
			Reason:             reason,
			WhatUserSees:       seesVal,
			AttemptedSolutions: triedVal,
		})
		if err != nil {
			var failed *engine.AdaptationFailedError
			if errors.As(err, &failed) {
				return fmt.Errorf("the step was marked blocked but no alternatives could be generated (%v); run the command again to retry", failed.Err)
			}
			return err
		}

		fmt.Printf("Step %s (%s) marked blocked.\n", res.BlockedStep.Identifier, res.BlockedStep.Title)
		fmt.Printf("\n%d alternative step(s) added:\n", len(res.AlternativeSteps))
		for _, st := range res.AlternativeSteps {
			fmt.Printf("  [%s] %s (~%d min)\n", st.Identifier, st.Title, st.DurationMinutes)
		}
		fmt.Printf("\nNow at step %s. View it with: waymark step current %s\n",
			res.CurrentStep.Identifier, args[0])
		return nil
	},
}

// printCurrentView renders the full disclosure of the current step:
// everything else in the guide stays titles-only.
func printCurrentView(v *navigation.CurrentStepView) {
	st := v.Step

	fmt.Printf("%s\n", v.Guide.Title)
	fmt.Printf("Section %d: %s (%d/%d done)\n",
		v.Section.Order+1, v.Section.Title,
		v.Section.Progress.CompletedSteps, v.Section.Progress.TotalSteps)
	fmt.Println(strings.Repeat("─", 64))

	fmt.Printf("Step %d of %d  [%s]  %s  (~%d min)\n",
		st.Number, v.Progress.TotalSteps, st.Identifier, st.Title, st.DurationMinutes)
	if st.IsAlternative {
		fmt.Printf("Alternative for step %s\n", st.ReplacesIdentifier)
	}
	fmt.Println()
	fmt.Printf("%s\n", st.Description)
	if st.CompletionCriteria != "" {
		fmt.Printf("\nDone when: %s\n", st.CompletionCriteria)
	}
	if len(st.Hints) > 0 {
		fmt.Println("\nHints:")
		for _, h := range st.Hints {
			fmt.Printf("  • %s\n", h)
		}
	}
	if len(st.Prerequisites) > 0 {
		state := "met"
		if !st.PrerequisitesMet {
			state = "NOT met"
		}
		fmt.Printf("\nPrerequisites (%s): %s\n", state, strings.Join(st.Prerequisites, ", "))
	}
	if st.RequiresMonitoring {
		fmt.Println("\nThis step benefits from screen monitoring.")
	}

	fmt.Println(strings.Repeat("─", 64))
	fmt.Printf("Progress: %d/%d steps (%.1f%%), ~%d min remaining\n",
		v.Progress.CompletedSteps, v.Progress.TotalSteps,
		v.Progress.Percentage, v.Progress.RemainingMinutes)
	if !v.Navigation.CanGoBack {
		fmt.Println("This is the first step.")
	}
	if p := v.Navigation.NextSectionPreview; p != nil {
		fmt.Printf("Next section: %s (%d steps, ~%d min)\n",
			p.Title, p.StepCount, p.DurationMinutes)
	}
}

func printSectionOverview(ov *navigation.SectionOverview) {
	fmt.Printf("Section %d: %s\n", ov.Order+1, ov.Title)
	if ov.Description != "" {
		fmt.Printf("%s\n", ov.Description)
	}
	fmt.Println(strings.Repeat("─", 64))

	for _, st := range ov.Steps {
		marker := " "
		switch {
		case st.Completed:
			marker = "✓"
		case st.Current:
			marker = ">"
		case st.IsBlocked:
			marker = "✗"
		}
		duration := fmt.Sprintf("%4dm", st.DurationMinutes)
		if st.IsBlocked {
			duration = "    -"
		}
		fmt.Printf("  %s %-4s %-44s %s\n", marker, st.Identifier, truncate(st.Title, 44), duration)
		if st.IsBlocked && st.BlockedReason != "" {
			fmt.Printf("           blocked: %s\n", truncate(st.BlockedReason, 60))
		}
		if st.IsAlternative {
			fmt.Printf("           replaces step %s\n", st.ReplacesIdentifier)
		}
	}

	fmt.Println(strings.Repeat("─", 64))
	fmt.Printf("Estimated: %d min (blocked steps excluded)\n", ov.TotalMinutes)
}

func init() {
	stepAdvanceCmd.Flags().String("notes", "", "Optional note about how the step went")

	stepReportCmd.Flags().String("problem", "", "What is wrong with the step")
	stepReportCmd.Flags().String("reason", "", "Category: ui_changed, feature_missing, access_denied or other")
	stepReportCmd.Flags().String("sees", "", "What is currently on screen")
	stepReportCmd.Flags().StringArray("tried", nil, "A solution already attempted (repeatable)")

	stepCmd.AddCommand(stepCurrentCmd)
	stepCmd.AddCommand(stepAdvanceCmd)
	stepCmd.AddCommand(stepBackCmd)
	stepCmd.AddCommand(stepOverviewCmd)
	stepCmd.AddCommand(stepReportCmd)
}
