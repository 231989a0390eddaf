// ABOUTME: Root Cobra command for healthlog CLI.
// ABOUTME: Handles config, repository and preference lifecycle via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthlog/internal/config"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *log.Logger
	repos  *storage.Repositories
	store  *prefs.Store

	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "healthlog",
	Short: "Local blood pressure, weight and step count log",
	Long: `healthlog keeps a local log of blood pressure, weight and daily step counts.

WHAT IT TRACKS:

  bp        Blood pressure: systolic, diastolic, pulse, medication, note
  weight    Body weight in kg or lb
  steps     One step count per day, with a daily goal

QUICK START:

  $ healthlog bp add 120 80 62              # Log blood pressure and pulse
  $ healthlog weight add 82.5               # Log your weight
  $ healthlog steps add 8500                # Log today's steps
  $ healthlog weight list                   # Newest first
  $ healthlog bp day 2025-01-31             # Everything from one day
  $ healthlog steps goal 12000              # Change the default daily goal

PREFERENCES:

  $ healthlog prefs show                    # Units, theme and widget flags
  $ healthlog prefs set units.weight lb     # Display weights in pounds
  $ healthlog prefs set widget.weight.enabled false

MCP INTEGRATION:

  Run 'healthlog mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "healthlog": { "command": "healthlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Each widget has its own SQLite database in ~/.local/share/healthlog
  (blood_pressure.db, weight.db, step_count.db); preferences live in
  ~/.local/share/healthlog/prefs. Settings are read from
  ~/.config/healthlog/config.yaml and HEALTHLOG_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}

		logger, err = cfg.Logger(os.Stderr)
		if err != nil {
			return err
		}

		repos = cfg.OpenRepositories(logger)
		store, err = cfg.OpenPreferences(logger)
		if err != nil {
			_ = repos.Close()
			repos = nil
			return fmt.Errorf("failed to open preferences: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStores()
	},
}

// closeStores releases the repositories and preference store.
func closeStores() error {
	var errs []error
	if repos != nil {
		errs = append(errs, repos.Close())
		repos = nil
	}
	if store != nil {
		errs = append(errs, store.Close())
		store = nil
	}
	return errors.Join(errs...)
}

func init() {
	// PersistentPostRunE is skipped when a command fails.
	cobra.OnFinalize(func() { _ = closeStores() })
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (overrides config and HEALTHLOG_DATA_DIR)")
}
