package enricher

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/linkstash/internal/metadata"
	"github.com/dshills/linkstash/internal/metrics"
	"github.com/dshills/linkstash/pkg/types"
)

// ErrAlreadyRunning is returned when a Run is attempted during another Run
var ErrAlreadyRunning = errors.New("enrichment already in progress")

// Store is the storage subset the enricher needs
type Store interface {
	ListLinksPendingMetadata(ctx context.Context, limit int) ([]*types.Link, error)
	UpdateLinkMetadata(ctx context.Context, linkID string, meta types.LinkMetadata) error
}

// Config contains configuration for one enrichment run
type Config struct {
	Workers   int // Number of concurrent fetches (default: runtime.NumCPU())
	BatchSize int // Maximum links processed per run (default: 50)
}

// DefaultConfig returns NumCPU workers and a batch of 50 links
func DefaultConfig() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		BatchSize: 50,
	}
}

// Statistics contains statistics about an enrichment run
type Statistics struct {
	LinksProcessed int           `json:"links_processed"`
	LinksEnriched  int           `json:"links_enriched"`
	LinksFailed    int           `json:"links_failed"`
	Duration       time.Duration `json:"duration"`
	ErrorMessages  []string      `json:"error_messages,omitempty"`
}

// Enricher coordinates the enrichment pipeline: list pending -> fetch -> store
type Enricher struct {
	store   Store
	fetcher metadata.Fetcher
	running atomic.Bool // Set for the duration of Run
	logger  zerolog.Logger
}

// New creates a new Enricher instance
func New(store Store, fetcher metadata.Fetcher, logger zerolog.Logger) *Enricher {
	return &Enricher{
		store:   store,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "enricher").Logger(),
	}
}

// Run enriches one batch of pending links
func (e *Enricher) Run(ctx context.Context, config *Config) (*Statistics, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer e.running.Store(false)

	cfg := DefaultConfig()
	if config != nil {
		if config.Workers > 0 {
			cfg.Workers = config.Workers
		}
		if config.BatchSize > 0 {
			cfg.BatchSize = config.BatchSize
		}
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	links, err := e.store.ListLinksPendingMetadata(ctx, cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending links: %w", err)
	}

	var (
		enriched int32
		failed   int32
		mu       sync.Mutex // Protect stats.ErrorMessages
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, link := range links {
		g.Go(func() error {
			meta, fetchErr := e.fetcher.Fetch(gctx, link.URL)
			if fetchErr != nil {
				// A cancelled run leaves the link pending for the next one
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// Empty metadata marks the link attempted so it leaves the queue
				meta = &types.LinkMetadata{}
			}

			if err := e.store.UpdateLinkMetadata(gctx, link.ID, *meta); err != nil {
				return fmt.Errorf("failed to store metadata for link %s: %w", link.ID, err)
			}

			if fetchErr != nil {
				atomic.AddInt32(&failed, 1)
				metrics.LinksEnrichedTotal.WithLabelValues("failed").Inc()
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", link.URL, fetchErr))
				mu.Unlock()
				e.logger.Warn().Err(fetchErr).Str("link_id", link.ID).Str("url", link.URL).Msg("metadata fetch failed")
				return nil
			}

			atomic.AddInt32(&enriched, 1)
			metrics.LinksEnrichedTotal.WithLabelValues("enriched").Inc()
			return nil
		})
	}

	// Wait for all goroutines to complete
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.LinksEnriched = int(enriched)
	stats.LinksFailed = int(failed)
	stats.LinksProcessed = stats.LinksEnriched + stats.LinksFailed
	stats.Duration = time.Since(startTime)
	metrics.EnrichRunDuration.Observe(stats.Duration.Seconds())

	e.logger.Info().
		Int("processed", stats.LinksProcessed).
		Int("enriched", stats.LinksEnriched).
		Int("failed", stats.LinksFailed).
		Dur("duration", stats.Duration).
		Msg("enrichment run completed")

	return stats, nil
}

// Loop runs enrichment every interval until ctx is done. A tick that finds a
// run already active is skipped.
func (e *Enricher) Loop(ctx context.Context, interval time.Duration, config *Config) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := e.Run(ctx, config)
			switch {
			case err == nil, errors.Is(err, ErrAlreadyRunning):
			case ctx.Err() != nil:
				return
			default:
				e.logger.Error().Err(err).Msg("scheduled enrichment failed")
			}
		}
	}
}
