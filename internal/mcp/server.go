package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/dshills/linkstash/internal/app"
)

const (
	// ServerName is the MCP server name
	ServerName = "linkstash"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	app    *app.App
	logger zerolog.Logger
}

// NewServer creates a new MCP server instance over a
func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("app is required")
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:    mcpServer,
		app:    a,
		logger: a.Logger.With().Str("component", "mcp").Logger(),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts background work and the MCP server on stdio, blocking until shutdown
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.app.RunBackground(ctx)
	s.logger.Info().Str("version", ServerVersion).Msg("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Note lifecycle
	s.mcp.AddTool(saveNoteTool(), s.handleSaveNote)
	s.mcp.AddTool(noteStatusTool("archive_note", "Archive a note so it no longer appears in search"), s.handleArchiveNote)
	s.mcp.AddTool(noteStatusTool("unarchive_note", "Restore an archived note to search"), s.handleUnarchiveNote)
	s.mcp.AddTool(noteStatusTool("delete_note", "Permanently delete an archived note and its links"), s.handleDeleteNote)

	// Search
	s.mcp.AddTool(searchTool("search_notes", "Fuzzy search an owner's active notes by content and attached links"), s.handleSearchNotes)
	s.mcp.AddTool(searchTool("search_links", "Fuzzy search saved links by title, URL and description"), s.handleSearchLinks)
	s.mcp.AddTool(searchTool("search", "Search notes and links together, merged by relevance"), s.handleUnifiedSearch)

	// Maintenance
	s.mcp.AddTool(enrichLinksTool(), s.handleEnrichLinks)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
