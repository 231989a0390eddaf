// ABOUTME: CLI commands for daily step counts and the default step goal.
// ABOUTME: A later count for the same day replaces the earlier one.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	stepsAt   string
	stepsGoal int
)

var stepsCmd = &cobra.Command{
	Use:     "steps",
	Aliases: []string{"step-count"},
	Short:   "Daily step counts",
}

var stepsAddCmd = &cobra.Command{
	Use:     "add <steps>",
	Aliases: []string{"a"},
	Short:   "Record the step count for a day",
	Long: `Record the step count for a day. Each day holds one count; adding
another count for the same day replaces it.

Examples:
  healthlog steps add 8500
  healthlog steps add 12000 --goal 15000
  healthlog steps add 4300 --at 2025-01-30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireEnabled(prefs.WidgetStepCount); err != nil {
			return err
		}

		steps, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count: %s", args[0])
		}

		goal := stepsGoal
		if !cmd.Flags().Changed("goal") {
			if goal, err = repos.StepCount.DefaultGoal(); err != nil {
				return fmt.Errorf("failed to read default goal: %w", err)
			}
		}
		at, err := parseAt(stepsAt)
		if err != nil {
			return err
		}

		r := models.NewStepCountRecord(steps, goal).WithTime(at)
		if err := repos.StepCount.CreateOrUpdate(r); err != nil {
			return fmt.Errorf("failed to add steps: %w", err)
		}

		color.Green("✓ Recorded steps")
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", formatStepCount(r))
		if store.StepGoalNotifications() && r.StepCount >= r.Goal {
			color.Cyan("★ Goal reached for %s", r.Day())
		}
		return nil
	},
}

var stepsGoalCmd = &cobra.Command{
	Use:   "goal [steps]",
	Short: "Show or set the default daily step goal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			goal, err := repos.StepCount.DefaultGoal()
			if err != nil {
				return fmt.Errorf("failed to read default goal: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), goal)
			return nil
		}

		goal, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid goal: %s", args[0])
		}
		if err := repos.StepCount.SetDefaultGoal(goal); err != nil {
			return fmt.Errorf("failed to set default goal: %w", err)
		}
		color.Green("✓ Default step goal set to %d", goal)
		return nil
	},
}

func formatStepCount(r *models.StepCountRecord) string {
	faint := color.New(color.Faint)
	return fmt.Sprintf("%s %s / %d  %d%%",
		faint.Sprint(r.Day()),
		padRight(strconv.Itoa(r.StepCount), 6),
		r.Goal,
		r.GoalReached())
}

func init() {
	stepsAddCmd.Flags().StringVar(&stepsAt, "at", "", "measurement time (YYYY-MM-DD [HH:MM])")
	stepsAddCmd.Flags().IntVar(&stepsGoal, "goal", 0, "daily goal (default: stored default goal)")
	stepsCmd.AddCommand(stepsAddCmd, stepsGoalCmd)

	widgetCommands[models.StepCountRecord, models.Day]{
		label:    "step count",
		keyHelp:  "<YYYY-MM-DD>",
		repo:     func() storage.Repository[models.StepCountRecord, models.Day] { return repos.StepCount },
		parseKey: models.ParseDay,
		format:   formatStepCount,
	}.attach(stepsCmd)

	rootCmd.AddCommand(stepsCmd)
}
