// Package cli implements the command-line interface for cubelock.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubelock/internal/config"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubelock",
	Short: "A terminal Rubik's cube with a secret",
	Long: `cubelock renders a 3x3x3 cube in the terminal. Turn faces with the
keyboard or by dragging stickers with the mouse.

Somewhere on the cube there is a hint. Enter the right sequence of turns
and something else opens up.

Running cubelock without a subcommand starts the cube.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.cubelock/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Journal database path (default: ~/.cubelock/journal.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	addPlayFlags(rootCmd)
}

// newLogger builds the command logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cubelock",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig loads the config and applies the global flag overrides.
func loadConfig(logger *log.Logger) (config.Config, error) {
	cfg, source, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	logger.Debug("config loaded", "source", source)

	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	return cfg, nil
}
