package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <session-id>",
	Short: "Show progress and pace analytics for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		an, err := a.Engine.GetProgress(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Progress: %d/%d steps (%.1f%%)\n",
			an.CompletedSteps, an.TotalSteps, an.Percentage)
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Elapsed:         %.0f min\n", an.ElapsedMinutes)
		if an.CompletedSteps > 0 {
			fmt.Printf("Avg per step:    %.1f min\n", an.AvgMinutesPerStep)
			fmt.Printf("Pace:            %.1f steps/hour\n", an.StepsPerHour)
		}
		fmt.Printf("Remaining:       ~%.0f min (declared: %d min)\n",
			an.EstimatedRemainingMinutes, an.BaseRemainingMinutes)
		fmt.Printf("Est. completion: %s\n",
			an.EstimatedCompletionAt.Local().Format("15:04"))
		return nil
	},
}
