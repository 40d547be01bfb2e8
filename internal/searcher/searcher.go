package searcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/linkstash/internal/metrics"
	"github.com/dshills/linkstash/internal/paginate"
	"github.com/dshills/linkstash/internal/ranker"
	"github.com/dshills/linkstash/pkg/types"
)

// Search kinds, used as metric labels
const (
	KindNotes   = "notes"
	KindLinks   = "links"
	KindUnified = "unified"
)

// Source is the read-only data contract the searcher needs. Both methods must
// only return records under active notes.
type Source interface {
	FetchScorableNotes(ctx context.Context, ownerID int64) ([]types.ScorableNote, error)
	FetchScorableLinks(ctx context.Context, ownerID int64) ([]types.ScorableLink, error)
}

// Config bounds request sizes
type Config struct {
	MaxPageSize   int // Largest page size a caller may request
	MergePoolSize int // Per-source pool fetched by UnifiedSearch before merging
}

// DefaultConfig returns a max page size of 100 and a merge pool of 100
func DefaultConfig() Config {
	return Config{
		MaxPageSize:   100,
		MergePoolSize: 100,
	}
}

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	OwnerID  int64
	Query    string
	Page     int // 1-based, clamped to the last page when too large
	PageSize int
}

// Searcher runs note, link and unified searches. It keeps no state between calls.
type Searcher struct {
	source Source
	ranker *ranker.Ranker
	cfg    Config
	logger zerolog.Logger
}

// NewSearcher creates a new Searcher instance
func NewSearcher(source Source, rk *ranker.Ranker, cfg Config, logger zerolog.Logger) (*Searcher, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if rk == nil {
		return nil, fmt.Errorf("ranker is required")
	}
	if cfg.MaxPageSize <= 0 {
		return nil, fmt.Errorf("max page size must be positive, got %d", cfg.MaxPageSize)
	}
	if cfg.MergePoolSize <= 0 {
		return nil, fmt.Errorf("merge pool size must be positive, got %d", cfg.MergePoolSize)
	}

	return &Searcher{
		source: source,
		ranker: rk,
		cfg:    cfg,
		logger: logger.With().Str("component", "searcher").Logger(),
	}, nil
}

// SearchNotes returns one page of the owner's active notes matching the query
func (s *Searcher) SearchNotes(ctx context.Context, req SearchRequest) (*types.SearchResultPage, error) {
	return s.run(ctx, KindNotes, req, s.rankNotes)
}

// SearchLinks returns one page of links under the owner's active notes
func (s *Searcher) SearchLinks(ctx context.Context, req SearchRequest) (*types.SearchResultPage, error) {
	return s.run(ctx, KindLinks, req, s.rankLinks)
}

// UnifiedSearch merges note and link results into one relevance-ordered list
func (s *Searcher) UnifiedSearch(ctx context.Context, req SearchRequest) (*types.UnifiedResultPage, error) {
	started := time.Now()
	if err := s.validateRequest(req); err != nil {
		metrics.ObserveSearch(KindUnified, metrics.OutcomeInvalid, 0, started)
		return nil, err
	}

	var notes, links []types.SearchCandidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notes, err = s.rankNotes(gctx, req.OwnerID, req.Query)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.rankLinks(gctx, req.OwnerID, req.Query)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.ObserveSearch(KindUnified, metrics.OutcomeError, 0, started)
		s.logger.Error().Err(err).Int64("owner_id", req.OwnerID).Msg("unified search failed")
		return nil, err
	}

	notePool := notes[:min(len(notes), s.cfg.MergePoolSize)]
	linkPool := links[:min(len(links), s.cfg.MergePoolSize)]

	merged := make([]types.SearchCandidate, 0, len(notePool)+len(linkPool))
	merged = append(merged, notePool...)
	merged = append(merged, linkPool...)

	// Both pools are already score-then-recency ordered; a stable sort on score
	// alone keeps that order for ties
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	page := paginate.Paginate(merged, req.Page, req.PageSize)
	result := &types.UnifiedResultPage{
		SearchResultPage: types.SearchResultPage{
			Items:       page.Items,
			TotalCount:  page.TotalCount,
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
			Query:       req.Query,
		},
		NoteCount: len(notes),
		LinkCount: len(links),
	}

	s.observe(KindUnified, req, &result.SearchResultPage, started)
	s.logger.Debug().
		Int("notes", result.NoteCount).
		Int("links", result.LinkCount).
		Int("merged", len(merged)).
		Msg("merged unified results")

	return result, nil
}

type rankFunc func(ctx context.Context, ownerID int64, query string) ([]types.SearchCandidate, error)

// run validates, ranks and paginates a single-source search
func (s *Searcher) run(ctx context.Context, kind string, req SearchRequest, rank rankFunc) (*types.SearchResultPage, error) {
	started := time.Now()
	if err := s.validateRequest(req); err != nil {
		metrics.ObserveSearch(kind, metrics.OutcomeInvalid, 0, started)
		return nil, err
	}

	candidates, err := rank(ctx, req.OwnerID, req.Query)
	if err != nil {
		metrics.ObserveSearch(kind, metrics.OutcomeError, 0, started)
		s.logger.Error().Err(err).Str("kind", kind).Int64("owner_id", req.OwnerID).Msg("search failed")
		return nil, err
	}

	page := paginate.Paginate(candidates, req.Page, req.PageSize)
	result := &types.SearchResultPage{
		Items:       page.Items,
		TotalCount:  page.TotalCount,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		Query:       req.Query,
	}

	s.observe(kind, req, result, started)
	return result, nil
}

// rankNotes returns every admitted note candidate, sorted
func (s *Searcher) rankNotes(ctx context.Context, ownerID int64, query string) ([]types.SearchCandidate, error) {
	notes, err := s.source.FetchScorableNotes(ctx, ownerID)
	if err != nil {
		return nil, types.NewDataAccessError("fetch scorable notes", err)
	}

	candidates := make([]types.SearchCandidate, 0)
	for _, note := range notes {
		score := s.ranker.ScoreNote(query, note)
		if !s.ranker.Admit(score) {
			continue
		}

		links := make([]types.Link, 0, len(note.Links))
		for _, l := range note.Links {
			links = append(links, l.ToLink())
		}
		candidates = append(candidates, types.SearchCandidate{
			Kind:           types.KindNote,
			ID:             note.ID,
			Content:        note.Content,
			Links:          links,
			CreatedAt:      note.CreatedAt,
			RelevanceScore: score,
		})
	}

	ranker.SortCandidates(candidates)
	return candidates, nil
}

// rankLinks returns every admitted link candidate, sorted
func (s *Searcher) rankLinks(ctx context.Context, ownerID int64, query string) ([]types.SearchCandidate, error) {
	links, err := s.source.FetchScorableLinks(ctx, ownerID)
	if err != nil {
		return nil, types.NewDataAccessError("fetch scorable links", err)
	}

	candidates := make([]types.SearchCandidate, 0)
	for _, link := range links {
		score := s.ranker.ScoreLink(query, link)
		if !s.ranker.Admit(score) {
			continue
		}
		candidates = append(candidates, types.SearchCandidate{
			Kind:           types.KindLink,
			ID:             link.ID,
			NoteID:         link.NoteID,
			URL:            link.URL,
			Title:          link.Title,
			Description:    link.Description,
			CreatedAt:      link.CreatedAt,
			RelevanceScore: score,
		})
	}

	ranker.SortCandidates(candidates)
	return candidates, nil
}

// validateRequest rejects bad input before any data access
func (s *Searcher) validateRequest(req SearchRequest) error {
	if req.OwnerID <= 0 {
		return types.NewValidationError("owner_id", fmt.Sprintf("must be positive, got %d", req.OwnerID))
	}
	if strings.TrimSpace(req.Query) == "" {
		return types.NewValidationError("query", "cannot be empty")
	}
	if req.Page <= 0 {
		return types.NewValidationError("page", fmt.Sprintf("must be positive, got %d", req.Page))
	}
	if req.PageSize <= 0 || req.PageSize > s.cfg.MaxPageSize {
		return types.NewValidationError("page_size",
			fmt.Sprintf("must be between 1 and %d, got %d", s.cfg.MaxPageSize, req.PageSize))
	}
	return nil
}

func (s *Searcher) observe(kind string, req SearchRequest, page *types.SearchResultPage, started time.Time) {
	outcome := metrics.OutcomeOK
	if page.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveSearch(kind, outcome, page.TotalCount, started)

	s.logger.Debug().
		Str("kind", kind).
		Str("query", truncateQuery(req.Query, 80)).
		Int64("owner_id", req.OwnerID).
		Int("page", page.CurrentPage).
		Int("results", page.TotalCount).
		Dur("duration", time.Since(started)).
		Msg("search completed")
}

// truncateQuery shortens a query for logging
func truncateQuery(query string, maxRunes int) string {
	runes := []rune(query)
	if len(runes) <= maxRunes {
		return query
	}
	return string(runes[:maxRunes]) + "..."
}
