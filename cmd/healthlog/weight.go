// ABOUTME: CLI commands for weight records.
// ABOUTME: Adds measurements and shows them in the preferred unit.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	weightAt   string
	weightUnit string
)

var weightCmd = &cobra.Command{
	Use:     "weight",
	Aliases: []string{"w"},
	Short:   "Weight records",
}

var weightAddCmd = &cobra.Command{
	Use:     "add <value>",
	Aliases: []string{"a"},
	Short:   "Add a weight measurement",
	Long: `Add a weight measurement in the preferred unit unless --unit is given.

Examples:
  healthlog weight add 82.5
  healthlog weight add 181.9 --unit lb
  healthlog weight add 82.1 --at "2025-01-31 07:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireEnabled(prefs.WidgetWeight); err != nil {
			return err
		}

		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[0])
		}

		unit := store.WeightUnit()
		if weightUnit != "" {
			if unit, err = models.ParseWeightUnit(weightUnit); err != nil {
				return err
			}
		}
		at, err := parseAt(weightAt)
		if err != nil {
			return err
		}

		r := models.NewWeightRecord(value, unit).WithTime(at)
		if err := repos.Weight.CreateOrUpdate(r); err != nil {
			return fmt.Errorf("failed to add weight: %w", err)
		}

		color.Green("✓ Added weight")
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatWeight(r))
		return nil
	},
}

func formatWeight(r *models.WeightRecord) string {
	c := r.In(store.WeightUnit())
	faint := color.New(color.Faint)
	return fmt.Sprintf("%s %s %s %s",
		faint.Sprint(c.ID),
		faint.Sprint(c.TimeOfMeasurement.Format("2006-01-02 15:04")),
		formatValue(c.Value),
		c.Unit)
}

func init() {
	weightAddCmd.Flags().StringVar(&weightAt, "at", "", "measurement time (YYYY-MM-DD HH:MM)")
	weightAddCmd.Flags().StringVar(&weightUnit, "unit", "", "kg or lb (default: preferred unit)")
	weightCmd.AddCommand(weightAddCmd)

	widgetCommands[models.WeightRecord, uuid.UUID]{
		label:    "weight",
		keyHelp:  "<id>",
		repo:     func() storage.Repository[models.WeightRecord, uuid.UUID] { return repos.Weight },
		parseKey: parseID,
		format:   formatWeight,
	}.attach(weightCmd)

	rootCmd.AddCommand(weightCmd)
}
