// ABOUTME: MCP server setup for the healthlog record repositories.
// ABOUTME: Wraps the MCP server with repository and preference access.
package mcp

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthlog/internal/logging"
	"github.com/harperreed/healthlog/internal/prefs"
	"github.com/harperreed/healthlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultPageSize bounds list_records when no count is given.
const defaultPageSize = 20

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repos     *storage.Repositories
	prefs     *prefs.Store
	logger    *log.Logger
	pageSize  int
}

// NewServer creates a new MCP server over the given repositories and preferences.
func NewServer(repos *storage.Repositories, store *prefs.Store, logger *log.Logger) (*Server, error) {
	if repos == nil {
		return nil, errors.New("repositories are required")
	}
	if store == nil {
		return nil, errors.New("preference store is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repos:     repos,
		prefs:     store,
		logger:    logger.With("component", "mcp"),
		pageSize:  defaultPageSize,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// SetPageSize changes the default list_records page size.
func (s *Server) SetPageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
