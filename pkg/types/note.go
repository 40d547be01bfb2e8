package types

import (
	"strings"
	"time"
)

// NoteStatus represents the lifecycle state of a note
type NoteStatus string

const (
	NoteActive   NoteStatus = "active"
	NoteArchived NoteStatus = "archived"
)

// Valid reports whether the status is a known lifecycle state
func (s NoteStatus) Valid() bool {
	return s == NoteActive || s == NoteArchived
}

// Note represents a user-authored text entry with zero or more attached links
type Note struct {
	// Identification
	ID      string `json:"id"`
	OwnerID int64  `json:"owner_id"`

	// Content
	Content string `json:"content"`
	Links   []Link `json:"links,omitempty"`

	// Lifecycle
	Status    NoteStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Validate checks if the note can be persisted
func (n *Note) Validate() error {
	if n.OwnerID == 0 {
		return ErrInvalidOwner
	}

	if strings.TrimSpace(n.Content) == "" && len(n.Links) == 0 {
		return ErrEmptyContent
	}

	for i := range n.Links {
		if err := n.Links[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Link represents a saved URL with optional fetched metadata
type Link struct {
	ID     string `json:"id"`
	NoteID string `json:"note_id"`

	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	CreatedAt         time.Time  `json:"created_at"`
	MetadataFetchedAt *time.Time `json:"metadata_fetched_at,omitempty"` // Nullable - nil until enrichment ran
}

// Validate checks if the link can be persisted
func (l *Link) Validate() error {
	if strings.TrimSpace(l.URL) == "" {
		return ErrEmptyURL
	}
	return nil
}

// LinkMetadata holds the fields fetched from a link's target page
type LinkMetadata struct {
	Title       string
	Description string
	ImageURL    string
}

// Empty reports whether nothing useful was extracted
func (m LinkMetadata) Empty() bool {
	return m.Title == "" && m.Description == "" && m.ImageURL == ""
}

// ScorableNote is the read-only projection of an active note used for scoring
type ScorableNote struct {
	ID        string
	Content   string
	CreatedAt time.Time
	Links     []ScorableLink
}

// ScorableLink is the read-only projection of a link whose parent note is active
type ScorableLink struct {
	ID          string
	NoteID      string
	URL         string
	Title       string
	Description string
	CreatedAt   time.Time
}

// ToLink converts the scorable projection back into a display link
func (l ScorableLink) ToLink() Link {
	return Link{
		ID:          l.ID,
		NoteID:      l.NoteID,
		URL:         l.URL,
		Title:       l.Title,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}
