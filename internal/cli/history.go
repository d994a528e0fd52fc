package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sessions",
	Long:  `Display the most recent journal sessions with their move counts and whether the secret was entered.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of sessions to display")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	db, err := openDB(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return writeHistory(cmd.OutOrStdout(), db, historyLimit)
}

func writeHistory(w io.Writer, db *storage.DB, limit int) error {
	repo := storage.NewSessionRepository(db)
	sessions, err := repo.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet")
		fmt.Fprintln(w, "Start one with: cubelock play")
		return nil
	}

	fmt.Fprintf(w, "Recent sessions (showing %d):\n", len(sessions))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-36s  %-19s  %-10s  %-6s  %s\n", "ID", "Started", "Duration", "Moves", "Unlocked")
	fmt.Fprintln(w, "------------------------------------  -------------------  ----------  ------  --------")

	for _, s := range sessions {
		duration := "-"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}

		moves := "-"
		if n, err := repo.GetMoveCount(s.SessionID); err == nil && n > 0 {
			moves = fmt.Sprintf("%d", n)
		}

		unlocked := "no"
		if s.Unlocked {
			unlocked = "yes"
		}

		status := ""
		if s.EndedAt == nil {
			status = " (open)"
		}

		fmt.Fprintf(w, "%-36s  %-19s  %-10s  %-6s  %s%s\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			moves,
			unlocked,
			status,
		)
	}

	return nil
}
