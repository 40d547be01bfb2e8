package storage

import (
	"context"

	"github.com/dshills/linkstash/pkg/types"
)

// Storage defines the interface for persisting notes and links and for
// reading the scoring projections used by search
type Storage interface {
	// Note operations
	CreateNote(ctx context.Context, note *types.Note) error
	GetNote(ctx context.Context, noteID string) (*types.Note, error)
	ListNotes(ctx context.Context, ownerID int64, status types.NoteStatus) ([]*types.Note, error)
	SetNoteStatus(ctx context.Context, noteID string, status types.NoteStatus) error
	DeleteNote(ctx context.Context, noteID string) error

	// Link operations
	AddLink(ctx context.Context, link *types.Link) error
	ListLinksPendingMetadata(ctx context.Context, limit int) ([]*types.Link, error)
	UpdateLinkMetadata(ctx context.Context, linkID string, meta types.LinkMetadata) error

	// Search projections
	FetchScorableNotes(ctx context.Context, ownerID int64) ([]types.ScorableNote, error)
	FetchScorableLinks(ctx context.Context, ownerID int64) ([]types.ScorableLink, error)

	// Status operations
	GetStatus(ctx context.Context, ownerID int64) (*Status, error)

	// Database operations
	Close() error
}

// Status contains statistics about one owner's stored data
type Status struct {
	OwnerID       int64
	ActiveNotes   int
	ArchivedNotes int
	Links         int
	PendingLinks  int // Links whose metadata was never fetched
	SchemaVersion string
	Health        HealthStatus
}

// HealthStatus represents the health of the database
type HealthStatus struct {
	DatabaseAccessible bool
	BuildMode          string
	Driver             string
}
