package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waymark-labs/waymark/internal/engine"
	"github.com/waymark-labs/waymark/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start and manage guide sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <guide-id>",
	Short: "Start a new session on a guide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.Engine.Start(cmd.Context(), user, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Session %s started at step %s.\n", s.ID, s.CurrentIdentifier)
		fmt.Printf("View the first step with: waymark step current %s\n", s.ID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		statusVal, _ := cmd.Flags().GetString("status")

		status, err := parseSessionStatus(statusVal)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.Engine.ListByUser(cmd.Context(), user, status)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Printf("No sessions for user %q.\n", user)
			return nil
		}

		// Resolve guide titles so the table reads as more than uuids.
		titles := map[string]string{}
		if guides, err := a.Store.Guides().List(cmd.Context()); err == nil {
			for _, g := range guides {
				titles[g.ID] = g.Title
			}
		}

		fmt.Printf("%-36s  %-32s  %-9s  %-6s  %s\n",
			"ID", "Guide", "Status", "Step", "Updated")
		fmt.Println(strings.Repeat("─", 104))
		for _, s := range sessions {
			title := titles[s.GuideID]
			if title == "" {
				title = s.GuideID
			}
			fmt.Printf("%-36s  %-32s  %-9s  %-6s  %s\n",
				s.ID,
				truncate(title, 32),
				s.Status,
				s.CurrentIdentifier,
				s.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		fmt.Printf("\n%d sessions\n", len(sessions))
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's status and position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.Engine.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Session %s\n", s.ID)
		fmt.Printf("User:    %s\n", s.UserID)
		fmt.Printf("Guide:   %s\n", s.GuideID)
		fmt.Printf("Status:  %s\n", s.Status)
		fmt.Printf("Step:    %s\n", s.CurrentIdentifier)
		fmt.Printf("Started: %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Updated: %s\n", s.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if s.CompletedAt != nil {
			fmt.Printf("Completed: %s\n", s.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sessionPauseCmd = &cobra.Command{
	Use:   "pause <session-id>",
	Short: "Pause an active session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionTransition(cmd, args[0], "paused",
			func(ctx context.Context, e *engine.Engine, id string) (*session.Session, error) {
				return e.Pause(ctx, id)
			})
	},
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Resume a paused session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionTransition(cmd, args[0], "resumed",
			func(ctx context.Context, e *engine.Engine, id string) (*session.Session, error) {
				return e.Resume(ctx, id)
			})
	},
}

var sessionFailCmd = &cobra.Command{
	Use:   "fail <session-id>",
	Short: "Mark a session as failed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionTransition(cmd, args[0], "marked failed",
			func(ctx context.Context, e *engine.Engine, id string) (*session.Session, error) {
				return e.Fail(ctx, id)
			})
	},
}

var sessionRestartCmd = &cobra.Command{
	Use:   "restart <session-id>",
	Short: "Restart a failed session from where it stopped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessionTransition(cmd, args[0], "restarted",
			func(ctx context.Context, e *engine.Engine, id string) (*session.Session, error) {
				return e.Restart(ctx, id)
			})
	},
}

func runSessionTransition(cmd *cobra.Command, id, verb string,
	fn func(context.Context, *engine.Engine, string) (*session.Session, error)) error {

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := fn(cmd.Context(), a.Engine, id)
	if err != nil {
		return err
	}
	fmt.Printf("Session %s %s (status: %s, step %s).\n", s.ID, verb, s.Status, s.CurrentIdentifier)
	return nil
}

func parseSessionStatus(s string) (session.Status, error) {
	switch session.Status(s) {
	case "", session.StatusCreated, session.StatusActive, session.StatusPaused,
		session.StatusCompleted, session.StatusFailed:
		return session.Status(s), nil
	default:
		return "", fmt.Errorf("invalid status %q: must be created, active, paused, completed or failed", s)
	}
}

func init() {
	sessionStartCmd.Flags().String("user", "local", "User the session belongs to")
	sessionListCmd.Flags().String("user", "local", "User whose sessions to list")
	sessionListCmd.Flags().String("status", "", "Only show sessions with this status")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionPauseCmd)
	sessionCmd.AddCommand(sessionResumeCmd)
	sessionCmd.AddCommand(sessionFailCmd)
	sessionCmd.AddCommand(sessionRestartCmd)
}
