// Package mcp implements the Model Context Protocol (MCP) server for linkstash.
//
// The server exposes the note lifecycle and fuzzy search to MCP clients:
//   - save_note: Store a note with optional links
//   - archive_note, unarchive_note, delete_note: Manage note status
//   - search_notes: Search active notes by content and attached links
//   - search_links: Search links by title, URL and description
//   - search: Notes and links merged into one relevance-ordered page
//   - enrich_links: Fetch page metadata for links saved without it
//   - get_status: Note and link counts plus database health
//
// # Basic Usage
//
// The server is started by the serve command and speaks JSON-RPC 2.0 on stdio:
//
//	linkstash serve
//
// # Tool: search
//
//	Request:
//	{
//	  "name": "search",
//	  "arguments": {
//	    "owner_id": 1,
//	    "query": "reactt",
//	    "page": 1,
//	    "page_size": 5
//	  }
//	}
//
//	Response:
//	{
//	  "items": [
//	    {
//	      "type": "link",
//	      "id": "5b0c...",
//	      "note_id": "9e1f...",
//	      "url": "https://react.dev/learn",
//	      "title": "React Hooks Guide",
//	      "created_at": "2026-10-01T09:30:00Z",
//	      "relevance_score": 0.625
//	    }
//	  ],
//	  "totalCount": 1,
//	  "currentPage": 1,
//	  "totalPages": 1,
//	  "query": "reactt",
//	  "noteCount": 0,
//	  "linkCount": 1
//	}
//
// search_notes and search_links return the same page without the two counts.
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "linkstash": {
//	      "command": "/usr/local/bin/linkstash",
//	      "args": ["serve"],
//	      "env": {
//	        "LINKSTASH_STORAGE_PATH": "~/.linkstash/linkstash.db"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// Failures are returned as JSON-RPC errors carrying the offending field:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "invalid page_size: must be between 1 and 100, got 500",
//	    "data": {
//	      "param": "page_size",
//	      "reason": "must be between 1 and 100, got 500"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params
//   - -32603: Internal error, including failed data access
//   - -32001: Note not found
//   - -32002: Enrichment already running
//   - -32003: Note must be archived before deletion
//   - -32004: Empty query
//
// # Logging
//
// Stdout is reserved for the protocol. Logs go to stderr through zerolog:
//
//	LINKSTASH_LOG_LEVEL=debug linkstash serve
package mcp
