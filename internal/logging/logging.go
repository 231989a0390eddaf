// ABOUTME: Logging sink shared by the CLI, MCP server and repositories.
// ABOUTME: Wraps charmbracelet/log with a fixed prefix and level parsing.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by healthlog.
const Prefix = "healthlog"

// New returns a timestamped logger writing to w at the named level
// ("debug", "info", "warn", "error"). An empty level means "warn".
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.WarnLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		ReportTimestamp: true,
		Level:           lvl,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
