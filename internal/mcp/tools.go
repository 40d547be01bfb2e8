package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/linkstash/internal/enricher"
	"github.com/dshills/linkstash/internal/searcher"
	"github.com/dshills/linkstash/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error, including failed data access
	ErrorCodeNotFound         = -32001 // Note does not exist
	ErrorCodeEnrichInProgress = -32002 // Another enrichment run is already active
	ErrorCodeNoteNotArchived  = -32003 // Delete attempted on an active note
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// handleSaveNote handles the save_note tool invocation
func (s *Server) handleSaveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	ownerID, err := requireOwner(args)
	if err != nil {
		return nil, err
	}

	content := getStringDefault(args, "content", "")
	urls, err := getStringSlice(args, "urls")
	if err != nil {
		return nil, err
	}

	note, err := s.app.SaveNote(ctx, ownerID, content, urls)
	if err != nil {
		return nil, s.toMCPError("failed to save note", err)
	}

	return mcp.NewToolResultText(formatJSON(note)), nil
}

func (s *Server) handleArchiveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setNoteStatus(ctx, request, true)
}

func (s *Server) handleUnarchiveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setNoteStatus(ctx, request, false)
}

func (s *Server) setNoteStatus(ctx context.Context, request mcp.CallToolRequest, archived bool) (*mcp.CallToolResult, error) {
	noteID, err := requireNoteID(request)
	if err != nil {
		return nil, err
	}

	if err := s.app.SetArchived(ctx, noteID, archived); err != nil {
		return nil, s.toMCPError("failed to update note", err)
	}

	status := types.NoteActive
	if archived {
		status = types.NoteArchived
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"ok":      true,
		"note_id": noteID,
		"status":  status,
	})), nil
}

// handleDeleteNote handles the delete_note tool invocation
func (s *Server) handleDeleteNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID, err := requireNoteID(request)
	if err != nil {
		return nil, err
	}

	if err := s.app.DeleteNote(ctx, noteID); err != nil {
		return nil, s.toMCPError("failed to delete note", err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"ok":      true,
		"note_id": noteID,
		"status":  "deleted",
	})), nil
}

func (s *Server) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := s.searchRequest(request)
	if err != nil {
		return nil, err
	}

	page, err := s.app.Searcher.SearchNotes(ctx, req)
	if err != nil {
		return nil, s.toMCPError("search failed", err)
	}
	return mcp.NewToolResultText(formatJSON(page)), nil
}

func (s *Server) handleSearchLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := s.searchRequest(request)
	if err != nil {
		return nil, err
	}

	page, err := s.app.Searcher.SearchLinks(ctx, req)
	if err != nil {
		return nil, s.toMCPError("search failed", err)
	}
	return mcp.NewToolResultText(formatJSON(page)), nil
}

func (s *Server) handleUnifiedSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := s.searchRequest(request)
	if err != nil {
		return nil, err
	}

	page, err := s.app.Searcher.UnifiedSearch(ctx, req)
	if err != nil {
		return nil, s.toMCPError("search failed", err)
	}
	return mcp.NewToolResultText(formatJSON(page)), nil
}

// handleEnrichLinks handles the enrich_links tool invocation
func (s *Server) handleEnrichLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	limit := getIntDefault(args, "limit", 0)
	if limit < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be positive", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	stats, err := s.app.Enrich(ctx, limit)
	if err != nil {
		return nil, s.toMCPError("enrichment failed", err)
	}

	response := map[string]interface{}{
		"links_processed": stats.LinksProcessed,
		"links_enriched":  stats.LinksEnriched,
		"links_failed":    stats.LinksFailed,
		"duration_ms":     stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		// Include first few errors
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	ownerID, err := requireOwner(args)
	if err != nil {
		return nil, err
	}

	status, err := s.app.Status(ctx, ownerID)
	if err != nil {
		return nil, s.toMCPError("failed to get status", err)
	}

	response := map[string]interface{}{
		"owner_id": status.OwnerID,
		"statistics": map[string]interface{}{
			"active_notes":   status.ActiveNotes,
			"archived_notes": status.ArchivedNotes,
			"links":          status.Links,
			"pending_links":  status.PendingLinks,
		},
		"schema_version": status.SchemaVersion,
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"build_mode":          status.Health.BuildMode,
			"driver":              status.Health.Driver,
		},
		"checked_at": time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// searchRequest extracts search arguments, defaulting page and page_size
func (s *Server) searchRequest(request mcp.CallToolRequest) (searcher.SearchRequest, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return searcher.SearchRequest{}, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	ownerID, err := requireOwner(args)
	if err != nil {
		return searcher.SearchRequest{}, err
	}

	query, _ := args["query"].(string)
	return searcher.SearchRequest{
		OwnerID:  ownerID,
		Query:    query,
		Page:     getIntDefault(args, "page", 1),
		PageSize: getIntDefault(args, "page_size", s.app.Config.Search.DefaultPageSize),
	}, nil
}

// Helper functions

// toMCPError maps domain errors onto MCP error codes
func (s *Server) toMCPError(message string, err error) error {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		code := ErrorCodeInvalidParams
		if verr.Field == "query" {
			code = ErrorCodeEmptyQuery
		}
		return newMCPError(code, verr.Error(), map[string]interface{}{
			"param":  verr.Field,
			"reason": verr.Reason,
		})
	case errors.Is(err, types.ErrNotFound):
		return newMCPError(ErrorCodeNotFound, "note not found", nil)
	case errors.Is(err, types.ErrNoteNotArchived):
		return newMCPError(ErrorCodeNoteNotArchived, types.ErrNoteNotArchived.Error(), nil)
	case errors.Is(err, enricher.ErrAlreadyRunning):
		return newMCPError(ErrorCodeEnrichInProgress, enricher.ErrAlreadyRunning.Error(), nil)
	default:
		s.logger.Error().Err(err).Msg(message)
		return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// requireOwner extracts a positive owner_id
func requireOwner(args map[string]interface{}) (int64, error) {
	ownerID := int64(getIntDefault(args, "owner_id", 0))
	if ownerID <= 0 {
		return 0, newMCPError(ErrorCodeInvalidParams, "owner_id parameter is required", map[string]interface{}{
			"param":  "owner_id",
			"reason": "missing or not a positive integer",
		})
	}
	return ownerID, nil
}

// requireNoteID extracts a non-empty note_id
func requireNoteID(request mcp.CallToolRequest) (string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	noteID, ok := args["note_id"].(string)
	if !ok || noteID == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "note_id parameter is required", map[string]interface{}{
			"param":  "note_id",
			"reason": "missing or empty",
		})
	}
	return noteID, nil
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts an optional array of strings
func getStringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, newMCPError(ErrorCodeInvalidParams, key+" must contain only strings", map[string]interface{}{
					"param": key,
				})
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, key+" must be an array of strings", map[string]interface{}{
			"param": key,
		})
	}
}
