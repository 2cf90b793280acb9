package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/guidegen"
	"github.com/waymark-labs/waymark/internal/llm"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Create and inspect guides",
}

var guideCreateCmd = &cobra.Command{
	Use:   "create <goal>",
	Short: "Generate a new guide for a goal and store it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := guideRequestFromFlags(cmd, args)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Provider == nil {
			return fmt.Errorf("guide generation needs an LLM provider; set WAYMARK_LLM_PROVIDER or an API key env var")
		}

		fmt.Println("Generating guide, this can take a moment...")
		g, err := a.Engine.CreateGuide(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Println()
		printGuide(g)
		fmt.Printf("\nStart it with: waymark session start %s\n", g.ID)
		return nil
	},
}

var guidePreviewCmd = &cobra.Command{
	Use:   "preview <goal>",
	Short: "Generate a guide and print it without storing anything",
	Long: `Generate a guide for a goal and print the tree.

This is a stateless developer tool: no database, no session, no audit events.
Useful for evaluating guide quality and prompt changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := guideRequestFromFlags(cmd, args)
		if err != nil {
			return err
		}

		// No event repo, so the audit layer is skipped.
		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, nil)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		fmt.Println("Generating guide, this can take a moment...")
		g, err := guidegen.NewService(provider, guidegen.DefaultConfig()).Generate(ctx, req)
		if err != nil {
			return err
		}

		fmt.Println()
		printGuide(g)
		return nil
	},
}

var guideListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored guides",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		guides, err := a.Store.Guides().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list guides: %w", err)
		}
		if len(guides) == 0 {
			fmt.Println("No guides yet. Create one with: waymark guide create <goal>")
			return nil
		}

		fmt.Printf("%-36s  %-40s  %-12s  %5s  %s\n",
			"ID", "Title", "Difficulty", "Steps", "Created")
		fmt.Println(strings.Repeat("─", 110))
		for _, g := range guides {
			fmt.Printf("%-36s  %-40s  %-12s  %5d  %s\n",
				g.ID,
				truncate(g.Title, 40),
				g.Difficulty,
				g.TotalSteps,
				g.CreatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		fmt.Printf("\n%d guides\n", len(guides))
		return nil
	},
}

var guideShowCmd = &cobra.Command{
	Use:   "show <guide-id>",
	Short: "Print a guide's full tree with step statuses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.Store.Guides().Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printGuide(g)
		return nil
	},
}

var guideHistoryCmd = &cobra.Command{
	Use:   "history <guide-id>",
	Short: "Show a guide's adaptation history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.Store.Guides().Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(g.History) == 0 {
			fmt.Println("No adaptations recorded for this guide.")
			return nil
		}

		fmt.Printf("Adaptation history for %q\n", g.Title)
		fmt.Println(strings.Repeat("─", 90))
		for _, rec := range g.History {
			fmt.Printf("%s  step %-4s  %-16s  -> %s  (via %s)\n",
				rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
				rec.BlockedIdentifier,
				rec.Reason,
				strings.Join(rec.NewIdentifiers, ", "),
				rec.GeneratorUsed,
			)
			if rec.Detail != "" {
				fmt.Printf("    %s\n", truncate(rec.Detail, 84))
			}
		}
		fmt.Printf("\n%d adaptations\n", len(g.History))
		return nil
	},
}

// guideRequestFromFlags assembles a generation request from the shared
// create/preview flag set.
func guideRequestFromFlags(cmd *cobra.Command, args []string) (guidegen.Request, error) {
	category, _ := cmd.Flags().GetString("category")
	difficultyVal, _ := cmd.Flags().GetString("difficulty")
	userContext, _ := cmd.Flags().GetString("context")

	difficulty, err := parseDifficulty(difficultyVal)
	if err != nil {
		return guidegen.Request{}, err
	}
	return guidegen.Request{
		Goal:        strings.Join(args, " "),
		Category:    category,
		Difficulty:  difficulty,
		UserContext: userContext,
	}, nil
}

func parseDifficulty(s string) (guide.Difficulty, error) {
	switch guide.Difficulty(s) {
	case "", guide.DifficultyBeginner, guide.DifficultyIntermediate, guide.DifficultyAdvanced:
		return guide.Difficulty(s), nil
	default:
		return "", fmt.Errorf("invalid difficulty %q: must be beginner, intermediate or advanced", s)
	}
}

// printGuide renders the header and the full tree of a guide.
func printGuide(g *guide.Guide) {
	fmt.Printf("%s\n", g.Title)
	if g.Description != "" {
		fmt.Printf("%s\n", g.Description)
	}
	fmt.Printf("ID: %s\n", g.ID)
	fmt.Printf("Category: %s   Difficulty: %s   Steps: %d   Estimated: %d min\n",
		g.Category, g.Difficulty, g.TotalSteps, g.DurationMinutes)
	if g.LastAdaptedAt != nil {
		fmt.Printf("Adapted %d time(s), last %s\n",
			len(g.History), g.LastAdaptedAt.Local().Format("2006-01-02 15:04"))
	}

	for _, sec := range g.Sections {
		fmt.Printf("\nSection %d: %s\n", sec.Order+1, sec.Title)
		if sec.Description != "" {
			fmt.Printf("  %s\n", sec.Description)
		}
		for _, st := range sec.Steps {
			marker := " "
			switch {
			case st.IsBlocked():
				marker = "✗"
			case st.IsAlternative():
				marker = "→"
			}
			fmt.Printf("  %s %-4s %-48s %4dm\n",
				marker, st.Identifier, truncate(st.Title, 48), st.DurationMinutes)
			if st.IsBlocked() && st.BlockedReason != "" {
				fmt.Printf("           blocked: %s\n", truncate(st.BlockedReason, 70))
			}
			if st.IsAlternative() {
				fmt.Printf("           replaces step %s\n", st.ReplacesIdentifier)
			}
		}
	}
}

func init() {
	for _, c := range []*cobra.Command{guideCreateCmd, guidePreviewCmd} {
		c.Flags().String("category", "", "Guide category (e.g. deployment, setup)")
		c.Flags().String("difficulty", "", "Difficulty level: beginner, intermediate or advanced")
		c.Flags().String("context", "", "Notes about the user's environment, passed to the generator")
	}

	guideCmd.AddCommand(guideCreateCmd)
	guideCmd.AddCommand(guidePreviewCmd)
	guideCmd.AddCommand(guideListCmd)
	guideCmd.AddCommand(guideShowCmd)
	guideCmd.AddCommand(guideHistoryCmd)
}
