// Package types provides the shared domain types for linkstash.
//
// Note and Link are the stored entities. ScorableNote and ScorableLink are
// the read-only projections storage hands to search, carrying only the fields
// that are scored or displayed:
//
//	note := &types.Note{
//	    OwnerID: 42,
//	    Content: "Remember to review Redux patterns tomorrow",
//	    Links:   []types.Link{{URL: "https://redux.js.org"}},
//	}
//
// Search returns SearchCandidate values tagged with a ResultKind, collected
// into a SearchResultPage (or a UnifiedResultPage for merged searches):
//
//	{
//	  "items": [{"type": "note", "id": "...", "relevance_score": 1}],
//	  "totalCount": 1,
//	  "currentPage": 1,
//	  "totalPages": 1,
//	  "query": "redux"
//	}
//
// # Errors
//
// ValidationError and DataAccessError separate bad input from failed reads.
// Both match the taxonomy roots with errors.Is:
//
//	if errors.Is(err, types.ErrValidation) { ... } // reject, never retry
//	if errors.Is(err, types.ErrDataAccess) { ... } // "search temporarily unavailable"
//
// A search that matches nothing is not an error: it is a page with
// TotalCount 0 and TotalPages 1.
package types
