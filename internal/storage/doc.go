// Package storage provides SQLite-based persistence for notes and their links.
//
// The storage layer manages:
//   - Notes (owner, content, lifecycle status)
//   - Links attached to notes, with metadata fetched later by the enricher
//   - The read-only scoring projections consumed by the searcher
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migration versions
//   - notes: Note content, owner and status (active/archived)
//   - links: URLs with optional title/description/image, cascade-deleted with their note
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.linkstash/linkstash.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	note := &types.Note{
//	    OwnerID: 42,
//	    Content: "Read later",
//	    Links:   []types.Link{{URL: "https://go.dev/blog"}},
//	}
//	if err := db.CreateNote(ctx, note); err != nil {
//	    return err
//	}
//
// # Scoring Projections
//
// FetchScorableNotes and FetchScorableLinks return only rows reachable from
// active notes. Both read inside a single transaction so notes and their links
// come from one consistent snapshot. Rows are converted to typed values here;
// nothing above this package sees untyped rows.
//
// # Note Lifecycle
//
//	db.SetNoteStatus(ctx, id, types.NoteArchived) // hidden from search
//	db.SetNoteStatus(ctx, id, types.NoteActive)   // visible again
//	db.DeleteNote(ctx, id)                        // only once archived
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO Build (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
package storage
