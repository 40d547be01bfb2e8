// Package metrics holds the process-wide prometheus collectors for search and
// link enrichment.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	// Search Metrics
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstash_search_requests_total",
			Help: "Total number of search requests",
		},
		[]string{"kind", "outcome"}, // notes/links/unified, ok/empty/invalid/error
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkstash_search_duration_seconds",
			Help:    "Duration of search requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"},
	)

	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkstash_search_results",
			Help:    "Number of results admitted above the threshold",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		},
		[]string{"kind"},
	)

	// Notes Metrics
	NotesOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstash_notes_operations_total",
			Help: "Total number of note operations",
		},
		[]string{"operation"}, // create, archive, unarchive, delete
	)

	// Enrichment Metrics
	LinksEnrichedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkstash_links_enriched_total",
			Help: "Total number of links processed by the metadata enricher",
		},
		[]string{"status"}, // enriched, failed
	)

	EnrichRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkstash_enrich_run_duration_seconds",
			Help:    "Duration of enrichment runs",
			Buckets: prometheus.ExponentialBuckets(.05, 2, 10),
		},
	)
)

// ObserveSearch records one search request
func ObserveSearch(kind, outcome string, results int, started time.Time) {
	SearchRequestsTotal.WithLabelValues(kind, outcome).Inc()
	SearchDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		SearchResults.WithLabelValues(kind).Observe(float64(results))
	}
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
