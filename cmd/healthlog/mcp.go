// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server over the healthlog repositories.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/healthlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

AVAILABLE TOOLS:

  add_blood_pressure   Record a blood pressure measurement
  add_weight           Record a weight measurement
  add_steps            Record the step count for a day
  list_records         List one widget's records, newest first
  records_for_day      List one widget's records for a day
  delete_record        Delete a record by ID or day
  count_records        Count one widget's records
  step_goal_progress   Percentage of the step goal reached on a day

AVAILABLE RESOURCES:

  healthlog://today     Today's records for every enabled widget
  healthlog://recent    Last 5 records per widget
  healthlog://summary   Latest record and count per widget`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repos, store, logger)
		if err != nil {
			return err
		}
		server.SetPageSize(cfg.GetPageSize())

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
