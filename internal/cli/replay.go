package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubelock"
	"github.com/SeamusWaldron/cubelock/internal/config"
	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var (
	replayLast  bool
	replayQuiet bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Replay a journaled session headlessly",
	Long: `Feed the moves of a journal session through a fresh cube, engine and
secret watcher without opening the TUI. Prints every move, each unlock and
the final cube net.

Usage:
  cubelock replay --last
  cubelock replay <session-id>
  cubelock replay --last --quiet    # only the summary and final net`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "Only print the summary")
}

// replayResult summarizes a headless replay.
type replayResult struct {
	Moves    int
	Unlocks  []int // move indexes that completed the secret
	Rejected int
	Store    *cubelock.Store
}

func runReplay(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	db, err := openDB(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := sessionArg(db, args, replayLast)
	if err != nil {
		return err
	}

	records, err := storage.NewMoveRepository(db).GetBySession(session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Replaying session %s (%d moves)\n\n", session.SessionID, len(records))

	var progress io.Writer = out
	if replayQuiet {
		progress = io.Discard
	}
	res, err := replayMoves(progress, records, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Moves:    %d\n", res.Moves)
	fmt.Fprintf(out, "Unlocks:  %d\n", len(res.Unlocks))
	if res.Rejected > 0 {
		fmt.Fprintf(out, "Rejected: %d\n", res.Rejected)
	}
	fmt.Fprintf(out, "Solved:   %v\n", res.Store.IsSolved())
	fmt.Fprintln(out)
	fmt.Fprint(out, res.Store.String())
	return nil
}

// replayMoves applies journaled moves to a solved cube through the engine
// so the watcher sees exactly what the TUI saw.
func replayMoves(w io.Writer, records []storage.MoveRecord, cfg config.Config, logger *log.Logger) (replayResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	store := cubelock.NewStore()
	engine := cubelock.NewEngine(store,
		cubelock.WithAnimationSteps(cfg.Engine.AnimationSteps),
		cubelock.WithLogger(logger),
	)
	res := replayResult{Store: store}

	current := 0
	watcher := cubelock.NewWatcher(cfg.Secret.Sequence, func() {
		res.Unlocks = append(res.Unlocks, current)
	})
	engine.OnMove(func(m cubelock.Move) {
		watcher.Observe(m)
	})

	for i, rec := range records {
		current = i
		rot := rec.Rotation()
		ok, err := engine.Apply(rot)
		if err != nil {
			logger.Warn("skipping invalid move", "index", rec.MoveIndex, "error", err)
			res.Rejected++
			continue
		}
		if !ok {
			res.Rejected++
			continue
		}
		res.Moves++

		line := fmt.Sprintf("%4d  %-5s %s", i+1, rot.Notation(), rot.Label())
		if n := len(res.Unlocks); n > 0 && res.Unlocks[n-1] == i {
			line += "  ** unlocked **"
		}
		fmt.Fprintln(w, line)
	}

	if err := store.Validate(); err != nil {
		return res, fmt.Errorf("replay left the cube inconsistent: %w", err)
	}
	return res, nil
}
