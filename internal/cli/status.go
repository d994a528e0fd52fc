package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubelock/internal/config"
	"github.com/SeamusWaldron/cubelock/internal/recorder"
	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and journal information",
	Long:  `Display where the configuration was loaded from, the journal database and its sessions, and any session left open by an interrupted run.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, source, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}

	fmt.Fprintln(out, "cubelock Status")
	fmt.Fprintln(out, "===============")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config:    %s\n", source)
	fmt.Fprintf(out, "Secret:    %d moves\n", len(cfg.Secret.Sequence))
	fmt.Fprintf(out, "Backdrop:  %s\n", onOff(cfg.Backdrop.Enabled))
	fmt.Fprintf(out, "Audio:     %s\n", onOff(cfg.Audio.Enabled))
	fmt.Fprintf(out, "Journal:   %s\n", onOff(cfg.Journal.Enabled))
	fmt.Fprintln(out)

	path := cfg.Journal.DBPath
	if path == "" {
		path, _ = storage.DefaultDBPath()
	}
	fmt.Fprintf(out, "Database:  %s\n", path)

	db, err := storage.Open(path)
	if err == nil {
		defer db.Close()
		if v, err := db.CurrentVersion(); err == nil {
			fmt.Fprintf(out, "Schema:    v%d\n", v)
		}

		repo := storage.NewSessionRepository(db)
		if last, _ := repo.GetLast(); last != nil {
			fmt.Fprintf(out, "Last session: %s\n", last.StartedAt.Local().Format(time.RFC3339))
		}
		all, _ := repo.List(10000)
		unlocked := 0
		for _, s := range all {
			if s.Unlocked {
				unlocked++
			}
		}
		fmt.Fprintf(out, "Total sessions: %d (%d unlocked)\n", len(all), unlocked)
	} else {
		fmt.Fprintf(out, "Journal unavailable: %v\n", err)
	}

	fmt.Fprintln(out)

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if id := stateFile.ActiveSessionID(); id != "" {
		fmt.Fprintf(out, "Open session: %s\n", id)
		fmt.Fprintln(out, "  (left by an interrupted run; it is closed the next time the cube starts)")
	} else {
		fmt.Fprintln(out, "No open session")
	}

	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
