// Package searcher implements fuzzy search over an owner's saved notes and links.
//
// Every search scores the owner's full candidate pool in memory, drops records at
// or below the admission threshold, sorts what is left and returns one page:
//
//	s, err := searcher.NewSearcher(store, rk, searcher.DefaultConfig(), log)
//
//	page, err := s.SearchNotes(ctx, searcher.SearchRequest{
//	    OwnerID:  42,
//	    Query:    "reactt",
//	    Page:     1,
//	    PageSize: 5,
//	})
//
// # Search Kinds
//
// SearchNotes scores each active note as the best of its own content score and
// the scores of its attached links, so a note surfaces when any part of it
// matches. Results carry all of the note's links.
//
// SearchLinks scores links on title, url and description only. Note content
// plays no part.
//
// UnifiedSearch runs both concurrently, each over a pool of MergePoolSize
// results, merges them by relevance and paginates the merged list. A source
// with more qualifying records than MergePoolSize loses its tail.
//
// # Errors
//
// Invalid input returns a *types.ValidationError before any data is read.
// A failed fetch returns a *types.DataAccessError, never an empty page. A query
// that matches nothing is a normal page with TotalCount 0 and TotalPages 1.
package searcher
