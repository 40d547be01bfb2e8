package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ownerProperty is shared by every owner-scoped tool
func ownerProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Owner whose notes are read or written",
		"minimum":     1,
	}
}

// saveNoteTool returns the tool definition for save_note
func saveNoteTool() mcp.Tool {
	return mcp.Tool{
		Name:        "save_note",
		Description: "Save a note with optional links. Link titles and descriptions are fetched later by enrich_links",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": ownerProperty(),
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Note text, may be empty when urls are given",
				},
				"urls": map[string]interface{}{
					"type":        "array",
					"description": "Absolute http(s) URLs to attach",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"owner_id"},
		},
	}
}

// noteStatusTool returns a tool definition taking only a note_id
func noteStatusTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"note_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the note",
				},
			},
			Required: []string{"note_id"},
		},
	}
}

// searchTool returns the shared definition of the three search tools
func searchTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": ownerProperty(),
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text, typos are tolerated",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "1-based page, clamped to the last page",
					"default":     1,
					"minimum":     1,
				},
				"page_size": map[string]interface{}{
					"type":        "integer",
					"description": "Results per page (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"owner_id", "query"},
		},
	}
}

// enrichLinksTool returns the tool definition for enrich_links
func enrichLinksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "enrich_links",
		Description: "Fetch titles, descriptions and preview images for links saved without them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum links to process in this run (defaults to the configured batch size)",
					"minimum":     1,
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Note and link counts for an owner plus database health",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"owner_id": ownerProperty(),
			},
			Required: []string{"owner_id"},
		},
	}
}
