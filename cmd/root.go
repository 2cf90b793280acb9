package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waymark-labs/waymark/internal/app"
	"github.com/waymark-labs/waymark/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "waymark",
	Short: "Adaptive step-by-step guides in the terminal",
	Long: "Waymark generates multi-section task guides, walks you through them one\n" +
		"step at a time, and reworks the plan when a step turns out to be\n" +
		"impossible in your environment.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WAYMARK_DB env var)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(llmCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then WAYMARK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openApp wires the store, logger and engine for one command run. The
// caller closes it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	a, err := app.New(cmd.Context(), dbPath)
	if err != nil {
		return nil, err
	}
	return a, nil
}
