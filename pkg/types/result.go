package types

import "time"

// ResultKind identifies which entity a search candidate represents
type ResultKind string

const (
	KindNote ResultKind = "note"
	KindLink ResultKind = "link"
)

// SearchCandidate is a single scored search result. It is built fresh for every
// search call and never cached.
type SearchCandidate struct {
	// Identification
	Kind   ResultKind `json:"type"`
	ID     string     `json:"id"`
	NoteID string     `json:"note_id,omitempty"` // Parent note, set for link results

	// Display fields
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Links       []Link `json:"links,omitempty"` // Every link of a note result, not only the matching one

	CreatedAt time.Time `json:"created_at"`

	// Scoring
	RelevanceScore float64 `json:"relevance_score"`
}

// Validate checks if the search candidate is valid
func (c *SearchCandidate) Validate() error {
	if c.ID == "" {
		return ErrInvalidCandidateID
	}

	if c.Kind != KindNote && c.Kind != KindLink {
		return ErrInvalidResultKind
	}

	if c.RelevanceScore < 0 || c.RelevanceScore > 1 {
		return ErrInvalidRelevanceScore
	}

	return nil
}

// SearchResultPage is one page of relevance-sorted candidates
type SearchResultPage struct {
	Items       []SearchCandidate `json:"items"`
	TotalCount  int               `json:"totalCount"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	Query       string            `json:"query"`
}

// Empty reports whether the search matched nothing
func (p *SearchResultPage) Empty() bool {
	return p.TotalCount == 0
}

// UnifiedResultPage is a merged notes+links page. TotalCount counts the merged
// pool; NoteCount and LinkCount are the full qualifying totals of each source.
type UnifiedResultPage struct {
	SearchResultPage
	NoteCount int `json:"noteCount"`
	LinkCount int `json:"linkCount"`
}
