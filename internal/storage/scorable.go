package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dshills/linkstash/pkg/types"
)

// FetchScorableNotes returns the owner's active notes with their links
func (s *SQLiteStorage) FetchScorableNotes(ctx context.Context, ownerID int64) ([]types.ScorableNote, error) {
	var notes []types.ScorableNote

	err := s.withTx(ctx, func(q querier) error {
		query := `
			SELECT id, content, created_at
			FROM notes
			WHERE owner_id = ? AND status = 'active'
			ORDER BY created_at DESC, id
		`
		rows, err := q.QueryContext(ctx, query, ownerID)
		if err != nil {
			return fmt.Errorf("failed to query scorable notes: %w", err)
		}
		defer func() { _ = rows.Close() }()

		notes = make([]types.ScorableNote, 0)
		index := make(map[string]int)
		for rows.Next() {
			var note types.ScorableNote
			if err := rows.Scan(&note.ID, &note.Content, &note.CreatedAt); err != nil {
				return err
			}
			index[note.ID] = len(notes)
			notes = append(notes, note)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		_ = rows.Close()

		links, err := fetchScorableLinks(ctx, q, ownerID)
		if err != nil {
			return err
		}
		for _, link := range links {
			if i, ok := index[link.NoteID]; ok {
				notes[i].Links = append(notes[i].Links, link)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// FetchScorableLinks returns every link whose parent note is active
func (s *SQLiteStorage) FetchScorableLinks(ctx context.Context, ownerID int64) ([]types.ScorableLink, error) {
	return fetchScorableLinks(ctx, s.db, ownerID)
}

func fetchScorableLinks(ctx context.Context, q querier, ownerID int64) ([]types.ScorableLink, error) {
	query := `
		SELECT l.id, l.note_id, l.url, l.title, l.description, l.created_at
		FROM links l
		JOIN notes n ON n.id = l.note_id
		WHERE n.owner_id = ? AND n.status = 'active'
		ORDER BY l.created_at, l.id
	`
	rows, err := q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorable links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	links := make([]types.ScorableLink, 0)
	for rows.Next() {
		var link types.ScorableLink
		var title, description sql.NullString
		if err := rows.Scan(&link.ID, &link.NoteID, &link.URL, &title, &description, &link.CreatedAt); err != nil {
			return nil, err
		}
		link.Title = title.String
		link.Description = description.String
		links = append(links, link)
	}
	return links, rows.Err()
}
