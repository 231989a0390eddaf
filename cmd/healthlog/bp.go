// ABOUTME: CLI commands for blood pressure records.
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
	bpAt         string
	bpUnit       string
	bpMedication string
	bpNote       string
)

var bpCmd = &cobra.Command{
	Use:     "bp",
	Aliases: []string{"blood-pressure"},
	Short:   "Blood pressure records",
}

var bpAddCmd = &cobra.Command{
	Use:     "add <systolic> <diastolic> <pulse>",
	Aliases: []string{"a"},
	Short:   "Add a blood pressure measurement",
	Long: `Add a blood pressure measurement. Values are in the preferred unit
(see 'healthlog prefs') unless --unit is given.

Examples:
  healthlog bp add 120 80 62
  healthlog bp add 16 10.7 62 --unit kPa
  healthlog bp add 135 88 70 --medication not_taken --note "forgot pill"
  healthlog bp add 118 76 58 --at "2025-01-31 07:30"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireEnabled(prefs.WidgetBloodPressure); err != nil {
			return err
		}

		sys, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid systolic value: %s", args[0])
		}
		dia, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid diastolic value: %s", args[1])
		}
		pulse, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid pulse: %s", args[2])
		}

		unit := store.BloodPressureUnit()
		if bpUnit != "" {
			if unit, err = models.ParseBloodPressureUnit(bpUnit); err != nil {
				return err
			}
		}
		medication := models.MedicationNone
		if bpMedication != "" {
			if medication, err = models.ParseMedicationState(bpMedication); err != nil {
				return err
			}
		}
		at, err := parseAt(bpAt)
		if err != nil {
			return err
		}

		r := models.NewBloodPressureRecord(sys, dia, pulse, unit).
			WithTime(at).
			WithMedication(medication).
			WithNote(bpNote)
		if err := repos.BloodPressure.CreateOrUpdate(r); err != nil {
			return fmt.Errorf("failed to add blood pressure: %w", err)
		}

		color.Green("✓ Added blood pressure")
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatBloodPressure(r))
		return nil
	},
}

func formatBloodPressure(r *models.BloodPressureRecord) string {
	c := r.In(store.BloodPressureUnit())
	faint := color.New(color.Faint)

	line := fmt.Sprintf("%s %s %s/%s %s  pulse %d",
		faint.Sprint(c.ID),
		faint.Sprint(c.TimeOfMeasurement.Format("2006-01-02 15:04")),
		formatValue(c.Systolic),
		formatValue(c.Diastolic),
		padRight(string(c.Unit), 4),
		c.Pulse)
	if c.Medication != models.MedicationNone {
		line += "  medication " + string(c.Medication)
	}
	if c.Note != nil && *c.Note != "" {
		line += faint.Sprintf(" (%s)", truncate(*c.Note, 30))
	}
	return line
}

// formatValue rounds a converted measurement for display.
func formatValue(v float64) string {
	return strconv.FormatFloat(models.RoundHalfAwayFromZero(v, 1), 'f', -1, 64)
}

func init() {
	bpAddCmd.Flags().StringVar(&bpAt, "at", "", "measurement time (YYYY-MM-DD HH:MM)")
	bpAddCmd.Flags().StringVar(&bpUnit, "unit", "", "mmHg or kPa (default: preferred unit)")
	bpAddCmd.Flags().StringVar(&bpMedication, "medication", "", "none, taken or not_taken")
	bpAddCmd.Flags().StringVar(&bpNote, "note", "", "free-form note")
	bpCmd.AddCommand(bpAddCmd)

	widgetCommands[models.BloodPressureRecord, uuid.UUID]{
		label:    "blood pressure",
		keyHelp:  "<id>",
		repo:     func() storage.Repository[models.BloodPressureRecord, uuid.UUID] { return repos.BloodPressure },
		parseKey: parseID,
		format:   formatBloodPressure,
	}.attach(bpCmd)

	rootCmd.AddCommand(bpCmd)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid record ID %q: use the full ID shown by 'list'", s)
	}
	return id, nil
}
