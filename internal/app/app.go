// Package app wires storage, search and enrichment together and exposes the
// note lifecycle operations shared by the MCP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/linkstash/internal/config"
	"github.com/dshills/linkstash/internal/enricher"
	"github.com/dshills/linkstash/internal/metadata"
	"github.com/dshills/linkstash/internal/metrics"
	"github.com/dshills/linkstash/internal/ranker"
	"github.com/dshills/linkstash/internal/searcher"
	"github.com/dshills/linkstash/internal/similarity"
	"github.com/dshills/linkstash/internal/storage"
	"github.com/dshills/linkstash/pkg/types"
)

// App holds the application components
type App struct {
	Config   *config.Config
	Store    storage.Storage
	Searcher *searcher.Searcher
	Enricher *enricher.Enricher
	Logger   zerolog.Logger
}

// New opens storage and builds every component from cfg
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a, err := NewWithStore(cfg, store, metadata.NewHTTPFetcher(cfg.FetcherConfig()), logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStore builds the components over an existing store and fetcher
func NewWithStore(cfg *config.Config, store storage.Storage, fetcher metadata.Fetcher, logger zerolog.Logger) (*App, error) {
	scorer, err := similarity.New(cfg.SimilarityConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity scorer: %w", err)
	}

	rk, err := ranker.New(cfg.RankerConfig(), scorer)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranker: %w", err)
	}

	srch, err := searcher.NewSearcher(store, rk, cfg.SearcherConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create searcher: %w", err)
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Searcher: srch,
		Enricher: enricher.New(store, fetcher, logger),
		Logger:   logger,
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	return a.Store.Close()
}

// SaveNote validates and stores a note with its links. Link metadata is left
// for the enricher.
func (a *App) SaveNote(ctx context.Context, ownerID int64, content string, urls []string) (*types.Note, error) {
	note := &types.Note{
		OwnerID: ownerID,
		Content: strings.TrimSpace(content),
	}
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if err := validateURL(raw); err != nil {
			return nil, err
		}
		note.Links = append(note.Links, types.Link{URL: raw})
	}

	if err := note.Validate(); err != nil {
		return nil, types.NewValidationError("note", err.Error())
	}

	if err := a.Store.CreateNote(ctx, note); err != nil {
		return nil, types.NewDataAccessError("create note", err)
	}

	metrics.NotesOperationsTotal.WithLabelValues("create").Inc()
	a.Logger.Debug().Str("note_id", note.ID).Int64("owner_id", ownerID).Int("links", len(note.Links)).Msg("note saved")
	return note, nil
}

// SetArchived archives or restores a note
func (a *App) SetArchived(ctx context.Context, noteID string, archived bool) error {
	if strings.TrimSpace(noteID) == "" {
		return types.NewValidationError("note_id", "cannot be empty")
	}

	status, op := types.NoteActive, "unarchive"
	if archived {
		status, op = types.NoteArchived, "archive"
	}

	if err := a.Store.SetNoteStatus(ctx, noteID, status); err != nil {
		return wrapStoreError(op+" note", err)
	}
	metrics.NotesOperationsTotal.WithLabelValues(op).Inc()
	return nil
}

// DeleteNote permanently removes an archived note and its links
func (a *App) DeleteNote(ctx context.Context, noteID string) error {
	if strings.TrimSpace(noteID) == "" {
		return types.NewValidationError("note_id", "cannot be empty")
	}

	if err := a.Store.DeleteNote(ctx, noteID); err != nil {
		return wrapStoreError("delete note", err)
	}
	metrics.NotesOperationsTotal.WithLabelValues("delete").Inc()
	return nil
}

// Enrich runs one enrichment batch. A positive limit overrides the batch size.
func (a *App) Enrich(ctx context.Context, limit int) (*enricher.Statistics, error) {
	cfg := a.Config.EnricherConfig()
	if limit > 0 {
		cfg.BatchSize = limit
	}
	return a.Enricher.Run(ctx, &cfg)
}

// Status returns one owner's storage statistics
func (a *App) Status(ctx context.Context, ownerID int64) (*storage.Status, error) {
	status, err := a.Store.GetStatus(ctx, ownerID)
	if err != nil {
		return status, types.NewDataAccessError("get status", err)
	}
	return status, nil
}

// RunBackground starts the enrichment loop and the metrics endpoint when they
// are enabled. Both stop when ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	if interval := a.Config.Enrich.Interval; interval > 0 {
		cfg := a.Config.EnricherConfig()
		go a.Enricher.Loop(ctx, interval, &cfg)
	}

	if addr := a.Config.Metrics.Addr; addr != "" {
		go func() {
			if err := ServeMetrics(ctx, addr); err != nil {
				a.Logger.Error().Err(err).Str("addr", addr).Msg("metrics endpoint stopped")
			}
		}()
	}
}

// ServeMetrics serves /metrics on addr until ctx is done
func ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// validateURL accepts absolute http(s) URLs only
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return types.NewValidationError("urls", fmt.Sprintf("%q is not an absolute http(s) URL", raw))
	}
	return nil
}

// wrapStoreError keeps lifecycle errors matchable and tags the rest as data access failures
func wrapStoreError(op string, err error) error {
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrNoteNotArchived) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return types.NewDataAccessError(op, err)
}
