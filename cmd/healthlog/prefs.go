// ABOUTME: CLI commands for viewing and changing preferences.
// ABOUTME: Units, theme, widget enable flags and step goal announcements.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Aliases: []string{"preferences"},
	Short:   "Show and change preferences",
	Long: `Show and change preferences.

KEYS:

  theme                          system, light or dark
  units.blood_pressure           mmHg or kPa
  units.weight                   kg or lb
  steps.goal_notifications       true or false
  widget.<widget>.enabled        true or false (blood_pressure, weight, step_count)

A disabled widget refuses new records.`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := store.All()
		if err != nil {
			return err
		}
		faint := color.New(color.Faint)
		for _, key := range prefs.Keys() {
			marker := ""
			if def, _ := prefs.Default(key); all[key] == def {
				marker = faint.Sprint(" (default)")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s\n", padRight(key, 30), all[key], marker)
		}
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Set(args[0], args[1]); err != nil {
			return err
		}
		color.Green("✓ %s = %s", args[0], args[1])
		return nil
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore a preference's default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Reset(args[0]); err != nil {
			return err
		}
		def, _ := prefs.Default(args[0])
		color.Green("✓ %s = %s", args[0], def)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd, prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}
