package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/linkstash/pkg/types"
)

// ErrNotFound is returned when a requested entity doesn't exist
var ErrNotFound = types.ErrNotFound

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys so links cascade with their note
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx runs fn inside a transaction, committing only if fn succeeds
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Note operations

func (s *SQLiteStorage) CreateNote(ctx context.Context, note *types.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}

	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if note.Status == "" {
		note.Status = types.NoteActive
	}
	if !note.Status.Valid() {
		return fmt.Errorf("invalid note status %q", note.Status)
	}

	return s.withTx(ctx, func(q querier) error {
		query := `
			INSERT INTO notes (id, owner_id, content, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err := q.ExecContext(ctx, query,
			note.ID, note.OwnerID, note.Content, string(note.Status), note.CreatedAt, note.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		for i := range note.Links {
			link := &note.Links[i]
			link.NoteID = note.ID
			if link.CreatedAt.IsZero() {
				link.CreatedAt = note.CreatedAt
			}
			if err := insertLink(ctx, q, link); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) GetNote(ctx context.Context, noteID string) (*types.Note, error) {
	query := `
		SELECT id, owner_id, content, status, created_at
		FROM notes
		WHERE id = ?
	`
	var note types.Note
	var status string
	err := s.db.QueryRowContext(ctx, query, noteID).Scan(
		&note.ID, &note.OwnerID, &note.Content, &status, &note.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	note.Status = types.NoteStatus(status)

	links, err := s.listLinks(ctx, s.db, "WHERE l.note_id = ?", noteID)
	if err != nil {
		return nil, err
	}
	note.Links = links[noteID]

	return &note, nil
}

func (s *SQLiteStorage) ListNotes(ctx context.Context, ownerID int64, status types.NoteStatus) ([]*types.Note, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid note status %q", status)
	}

	query := `
		SELECT id, owner_id, content, status, created_at
		FROM notes
		WHERE owner_id = ? AND status = ?
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notes := make([]*types.Note, 0)
	for rows.Next() {
		var note types.Note
		var st string
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Content, &st, &note.CreatedAt); err != nil {
			return nil, err
		}
		note.Status = types.NoteStatus(st)
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := s.listLinks(ctx, s.db,
		"JOIN notes n ON n.id = l.note_id WHERE n.owner_id = ? AND n.status = ?", ownerID, string(status))
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		note.Links = links[note.ID]
	}

	return notes, nil
}

func (s *SQLiteStorage) SetNoteStatus(ctx context.Context, noteID string, status types.NoteStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid note status %q", status)
	}

	query := `UPDATE notes SET status = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, string(status), time.Now().UTC(), noteID)
	if err != nil {
		return fmt.Errorf("failed to update note status: %w", err)
	}
	return requireAffected(result)
}

// DeleteNote removes an archived note and, by cascade, its links
func (s *SQLiteStorage) DeleteNote(ctx context.Context, noteID string) error {
	return s.withTx(ctx, func(q querier) error {
		var status string
		err := q.QueryRowContext(ctx, "SELECT status FROM notes WHERE id = ?", noteID).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read note status: %w", err)
		}
		if types.NoteStatus(status) != types.NoteArchived {
			return types.ErrNoteNotArchived
		}

		if _, err := q.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", noteID); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}
		return nil
	})
}

// Link operations

// insertLink writes a single link row
func insertLink(ctx context.Context, q querier, link *types.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO links (id, note_id, url, title, description, image_url, created_at, metadata_fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	var fetchedAt sql.NullTime
	if link.MetadataFetchedAt != nil {
		fetchedAt = sql.NullTime{Time: *link.MetadataFetchedAt, Valid: true}
	}
	_, err := q.ExecContext(ctx, query,
		link.ID, link.NoteID, link.URL,
		nullString(link.Title), nullString(link.Description), nullString(link.ImageURL),
		link.CreatedAt, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to insert link: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) AddLink(ctx context.Context, link *types.Link) error {
	return s.withTx(ctx, func(q querier) error {
		var exists int
		err := q.QueryRowContext(ctx, "SELECT 1 FROM notes WHERE id = ?", link.NoteID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check note: %w", err)
		}
		return insertLink(ctx, q, link)
	})
}

// ListLinksPendingMetadata returns the oldest links whose metadata was never fetched
func (s *SQLiteStorage) ListLinksPendingMetadata(ctx context.Context, limit int) ([]*types.Link, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, note_id, url, title, description, image_url, created_at, metadata_fetched_at
		FROM links
		WHERE metadata_fetched_at IS NULL
		ORDER BY created_at, id
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	links := make([]*types.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

// UpdateLinkMetadata stores fetched metadata and marks the link as fetched.
// Empty fields keep their current value, so an empty LinkMetadata only records
// the attempt.
func (s *SQLiteStorage) UpdateLinkMetadata(ctx context.Context, linkID string, meta types.LinkMetadata) error {
	query := `
		UPDATE links
		SET title = COALESCE(NULLIF(?, ''), title),
		    description = COALESCE(NULLIF(?, ''), description),
		    image_url = COALESCE(NULLIF(?, ''), image_url),
		    metadata_fetched_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		meta.Title, meta.Description, meta.ImageURL, time.Now().UTC(), linkID)
	if err != nil {
		return fmt.Errorf("failed to update link metadata: %w", err)
	}
	return requireAffected(result)
}

// listLinks loads links matching the clause, grouped by note ID
func (s *SQLiteStorage) listLinks(ctx context.Context, q querier, clause string, args ...interface{}) (map[string][]types.Link, error) {
	query := `
		SELECT l.id, l.note_id, l.url, l.title, l.description, l.image_url, l.created_at, l.metadata_fetched_at
		FROM links l
	` + clause + `
		ORDER BY l.created_at, l.id
	`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	grouped := make(map[string][]types.Link)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		grouped[link.NoteID] = append(grouped[link.NoteID], link)
	}
	return grouped, rows.Err()
}

// scanLink reads one full link row
func scanLink(rows *sql.Rows) (types.Link, error) {
	var link types.Link
	var title, description, imageURL sql.NullString
	var fetchedAt sql.NullTime
	err := rows.Scan(&link.ID, &link.NoteID, &link.URL, &title, &description, &imageURL,
		&link.CreatedAt, &fetchedAt)
	if err != nil {
		return types.Link{}, err
	}
	link.Title = title.String
	link.Description = description.String
	link.ImageURL = imageURL.String
	if fetchedAt.Valid {
		t := fetchedAt.Time
		link.MetadataFetchedAt = &t
	}
	return link, nil
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, ownerID int64) (*Status, error) {
	status := &Status{
		OwnerID: ownerID,
		Health: HealthStatus{
			BuildMode: BuildMode,
			Driver:    DriverName,
		},
	}

	if err := s.db.PingContext(ctx); err != nil {
		return status, fmt.Errorf("database not accessible: %w", err)
	}
	status.Health.DatabaseAccessible = true

	counts := []struct {
		dest  *int
		query string
	}{
		{&status.ActiveNotes, "SELECT COUNT(*) FROM notes WHERE owner_id = ? AND status = 'active'"},
		{&status.ArchivedNotes, "SELECT COUNT(*) FROM notes WHERE owner_id = ? AND status = 'archived'"},
		{&status.Links, "SELECT COUNT(*) FROM links l JOIN notes n ON n.id = l.note_id WHERE n.owner_id = ?"},
		{&status.PendingLinks, "SELECT COUNT(*) FROM links l JOIN notes n ON n.id = l.note_id WHERE n.owner_id = ? AND l.metadata_fetched_at IS NULL"},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, ownerID).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	version, err := SchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version

	return status, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err means the entity does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
