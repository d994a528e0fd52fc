package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubelock/internal/audio"
	"github.com/SeamusWaldron/cubelock/internal/recorder"
	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var (
	noAudio    bool
	noBackdrop bool
	noJournal  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the cube",
	Long: `Start the interactive cube in the terminal.

Keyboard shortcuts:
  r l u d f b   - Turn the right, left, up, down, front or back face
  arrows        - Orbit the camera
  0             - Reset the camera
  ?             - Toggle full help
  q             - Quit

Drag a sticker with the mouse to turn the layer under it, or click the
turn buttons under the cube. Logs are written
to ~/.cubelock/cubelock.log while the cube is open.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Disable the preview track")
	cmd.Flags().BoolVar(&noBackdrop, "no-backdrop", false, "Disable the matrix rain")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not journal moves")
}

// openLogFile opens ~/.cubelock/cubelock.log for appending. The TUI owns
// the terminal, so nothing may be logged to stderr while it runs.
func openLogFile() (io.WriteCloser, error) {
	dir, err := storage.DefaultDir()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "cubelock.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	var logOut io.Writer = io.Discard
	if f, err := openLogFile(); err == nil {
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut)

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if noAudio {
		cfg.Audio.Enabled = false
	}
	if noBackdrop {
		cfg.Backdrop.Enabled = false
	}
	if noJournal {
		cfg.Journal.Enabled = false
	}

	var journal *recorder.Session
	if cfg.Journal.Enabled {
		if db, err := openDB(cfg.Journal.DBPath); err != nil {
			logger.Warn("journal disabled", "error", err)
		} else {
			defer db.Close()
			journal = newJournal(db, logger)
		}
	}

	player := audio.NewPlayer(audio.Options{
		Enabled:  cfg.Audio.Enabled,
		Volume:   cfg.Audio.Volume,
		TempoBPM: cfg.Audio.TempoBPM,
	}, logger)
	defer player.Close()

	model := newAppModel(cfg, logger, journal, player)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	logger.Info("cube opened", "version", version)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	logger.Info("cube closed")
	return nil
}

// newJournal creates the session journal on db. It also remembers db in
// the state file so an interrupted session can be closed on the next run.
func newJournal(db *storage.DB, logger *log.Logger) *recorder.Session {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		logger.Warn("state file unavailable", "error", err)
		stateFile = nil
	}
	if stateFile != nil {
		if err := stateFile.SetDBPath(db.Path()); err != nil {
			logger.Warn("failed to update state file", "error", err)
		}
	}

	return recorder.NewSession(db, stateFile, logger)
}
