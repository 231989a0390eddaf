// ABOUTME: Subcommands shared by every widget: list, day, get, delete, clear and count.
// ABOUTME: Built once per record kind over the generic storage.Repository contract.
package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthlog/internal/config"
	"github.com/harperreed/healthlog/internal/models"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/spf13/cobra"
)

// widgetCommands describes how the CLI reads and prints one record kind.
type widgetCommands[R any, K comparable] struct {
	label    string // "blood pressure"
	keyHelp  string // "<id>" or "<YYYY-MM-DD>"
	repo     func() storage.Repository[R, K]
	parseKey func(string) (K, error)
	format   func(r *R) string
}

// attach adds the shared subcommands to parent.
func (w widgetCommands[R, K]) attach(parent *cobra.Command) {
	var (
		offset  int
		count   int
		confirm bool
	)

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   fmt.Sprintf("List %s records, newest first", w.label),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") {
				count = cfg.GetPageSize()
			}
			records, err := w.repo().ListDescending(offset, count)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", w.label, err)
			}
			w.print(cmd.OutOrStdout(), records, "No records found.")
			return nil
		},
	}
	listCmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	listCmd.Flags().IntVarP(&count, "count", "n", config.DefaultPageSize, "max number of results")

	dayCmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: fmt.Sprintf("List %s records for one day (default today)", w.label),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := models.Today()
			if len(args) == 1 {
				d, err := models.ParseDay(args[0])
				if err != nil {
					return err
				}
				day = d
			}
			records, err := w.repo().ListForDay(day)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", w.label, err)
			}
			w.print(cmd.OutOrStdout(), records, fmt.Sprintf("No records for %s.", day))
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get " + w.keyHelp,
		Short: fmt.Sprintf("Show one %s record", w.label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := w.parseKey(args[0])
			if err != nil {
				return err
			}
			r, err := w.repo().Get(key)
			if err != nil {
				return w.notFound(args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), w.format(r))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete " + w.keyHelp,
		Aliases: []string{"del", "rm"},
		Short:   fmt.Sprintf("Delete one %s record", w.label),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := w.parseKey(args[0])
			if err != nil {
				return err
			}
			// Show what we're deleting.
			r, err := w.repo().Get(key)
			if err != nil {
				return w.notFound(args[0], err)
			}
			if err := w.repo().Delete(key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", w.label, err)
			}
			color.Yellow("✗ Deleted %s", w.label)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", w.format(r))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Delete every %s record", w.label),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete all %s records without --yes", w.label)
			}
			if err := w.repo().DeleteAll(); err != nil {
				return fmt.Errorf("failed to clear %s: %w", w.label, err)
			}
			color.Yellow("✗ Deleted all %s records", w.label)
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&confirm, "yes", "y", false, "confirm deleting every record")

	countCmd := &cobra.Command{
		Use:   "count",
		Short: fmt.Sprintf("Count %s records", w.label),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := w.repo().Count()
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", w.label, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	parent.AddCommand(listCmd, dayCmd, getCmd, deleteCmd, clearCmd, countCmd)
}

func (w widgetCommands[R, K]) print(out io.Writer, records []*R, empty string) {
	if len(records) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	for _, r := range records {
		fmt.Fprintln(out, w.format(r))
	}
}

func (w widgetCommands[R, K]) notFound(key string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s record not found: %s", w.label, key)
	}
	return fmt.Errorf("failed to read %s: %w", w.label, err)
}

// requireEnabled refuses writes to a widget switched off in preferences.
func requireEnabled(w prefs.Widget) error {
	if !store.WidgetEnabled(w) {
		return fmt.Errorf("%s is disabled (enable with: healthlog prefs set %s true)", w, prefs.WidgetEnabledKey(w))
	}
	return nil
}

// parseAt parses an --at flag; an empty flag means now.
func parseAt(at string) (time.Time, error) {
	if at == "" {
		return time.Now().Truncate(time.Second), nil
	}
	return models.ParseMeasurementTime(at)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
