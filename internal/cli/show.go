package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var (
	showLast   bool
	showFormat string
	showOutput string
)

var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the moves of a session",
	Long: `Display a journal session: its timing, every move in order and any
unlock events.

Examples:
  cubelock show --last
  cubelock show <session-id> --format json
  cubelock show --last --format txt -o moves.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")
	showCmd.Flags().StringVar(&showFormat, "format", "txt", "Output format (txt, json)")
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "Output file (default: stdout)")
}

// sessionJSON is the json export of a session.
type sessionJSON struct {
	SessionID  string      `json:"session_id"`
	StartedAt  time.Time   `json:"started_at"`
	EndedAt    *time.Time  `json:"ended_at,omitempty"`
	DurationMs *int64      `json:"duration_ms,omitempty"`
	Unlocked   bool        `json:"unlocked"`
	Moves      []moveJSON  `json:"moves"`
	Events     []eventJSON `json:"events"`
}

type moveJSON struct {
	MoveIndex int    `json:"move_index"`
	TsMs      int64  `json:"ts_ms"`
	Notation  string `json:"notation"`
	Label     string `json:"label"`
}

type eventJSON struct {
	TsMs    int64           `json:"ts_ms"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	db, err := openDB(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := sessionArg(db, args, showLast)
	if err != nil {
		return err
	}

	var b strings.Builder
	if err := writeSession(&b, db, session, showFormat); err != nil {
		return err
	}

	if showOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), b.String())
		return nil
	}

	dir := filepath.Dir(showOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(showOutput, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported session %s to %s\n", session.SessionID, showOutput)
	return nil
}

func writeSession(w io.Writer, db *storage.DB, s *storage.Session, format string) error {
	moves, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	events, err := storage.NewEventRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}

	switch strings.ToLower(format) {
	case "txt":
		writeSessionText(w, s, moves, events)
		return nil

	case "json":
		out := sessionJSON{
			SessionID:  s.SessionID,
			StartedAt:  s.StartedAt,
			EndedAt:    s.EndedAt,
			DurationMs: s.DurationMs,
			Unlocked:   s.Unlocked,
			Moves:      make([]moveJSON, 0, len(moves)),
			Events:     make([]eventJSON, 0, len(events)),
		}
		for _, m := range moves {
			out.Moves = append(out.Moves, moveJSON{
				MoveIndex: m.MoveIndex,
				TsMs:      m.TsMs,
				Notation:  m.Rotation().Notation(),
				Label:     m.Label,
			})
		}
		for _, e := range events {
			ej := eventJSON{TsMs: e.TsMs, Type: e.EventType}
			if json.Valid([]byte(e.PayloadJSON)) {
				ej.Payload = json.RawMessage(e.PayloadJSON)
			}
			out.Events = append(out.Events, ej)
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil

	default:
		return fmt.Errorf("unknown format: %s (use txt or json)", format)
	}
}

func writeSessionText(w io.Writer, s *storage.Session, moves []storage.MoveRecord, events []storage.Event) {
	fmt.Fprintln(w, "Session Details")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "ID:       %s\n", s.SessionID)
	fmt.Fprintf(w, "Started:  %s\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if s.EndedAt != nil {
		fmt.Fprintf(w, "Ended:    %s\n", s.EndedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if s.DurationMs != nil {
		fmt.Fprintf(w, "Duration: %s\n", formatDuration(time.Duration(*s.DurationMs)*time.Millisecond))
	}
	fmt.Fprintf(w, "Moves:    %d\n", len(moves))
	fmt.Fprintf(w, "Unlocked: %v\n", s.Unlocked)
	fmt.Fprintln(w)

	if len(moves) == 0 {
		fmt.Fprintln(w, "No moves recorded")
		return
	}

	unlockAt := map[int]bool{}
	for _, e := range events {
		if e.EventType != storage.EventUnlock {
			continue
		}
		var p struct {
			MoveIndex int `json:"move_index"`
		}
		if err := json.Unmarshal([]byte(e.PayloadJSON), &p); err == nil {
			unlockAt[p.MoveIndex] = true
		}
	}

	fmt.Fprintf(w, "%5s  %9s  %-5s  %s\n", "#", "Time", "Turn", "Label")
	for _, m := range moves {
		line := fmt.Sprintf("%5d  %9s  %-5s  %s", m.MoveIndex+1,
			formatDuration(time.Duration(m.TsMs)*time.Millisecond),
			m.Rotation().Notation(), m.Label)
		if unlockAt[m.MoveIndex] {
			line += "  <- unlock"
		}
		fmt.Fprintln(w, line)
	}
}
