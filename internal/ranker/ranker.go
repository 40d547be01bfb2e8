// Package ranker combines per-field similarity scores into one relevance score
// per record and decides which records are admitted into search results.
package ranker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/linkstash/pkg/types"
)

// DefaultThreshold is the score a record must exceed to be admitted
const DefaultThreshold = 0.4

// Weights holds the relative informativeness of each scorable field
type Weights struct {
	Content     float64
	Title       float64
	URL         float64
	Description float64
}

// DefaultWeights returns content 10, title 4, url 3, description 2
func DefaultWeights() Weights {
	return Weights{
		Content:     10,
		Title:       4,
		URL:         3,
		Description: 2,
	}
}

// Config is the immutable scoring configuration of a Ranker
type Config struct {
	Weights   Weights
	Threshold float64 // Admission floor, records must score strictly above it
}

// DefaultConfig returns the standard weights and a 0.4 threshold
func DefaultConfig() Config {
	return Config{
		Weights:   DefaultWeights(),
		Threshold: DefaultThreshold,
	}
}

// Validate checks weights are positive and the threshold is in [0, 1)
func (c Config) Validate() error {
	w := c.Weights
	if w.Content <= 0 || w.Title <= 0 || w.URL <= 0 || w.Description <= 0 {
		return fmt.Errorf("field weights must be positive: %+v", w)
	}
	if c.Threshold < 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold must be in [0, 1), got %v", c.Threshold)
	}
	return nil
}

// Scorer computes the similarity of a query and a single field
type Scorer interface {
	Similarity(query, target string) float64
}

// Field is one weighted input to a relevance score
type Field struct {
	Weight float64
	Value  string
}

// Ranker scores notes and links. It holds no mutable state.
type Ranker struct {
	cfg    Config
	scorer Scorer
}

// New creates a Ranker
func New(cfg Config, scorer Scorer) (*Ranker, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranker config: %w", err)
	}
	return &Ranker{cfg: cfg, scorer: scorer}, nil
}

// Config returns the ranker's configuration
func (r *Ranker) Config() Config {
	return r.cfg
}

// Weighted returns sum(weight * similarity) / sum(weight) over the fields that
// have a value. Absent fields count toward neither side.
func (r *Ranker) Weighted(query string, fields ...Field) float64 {
	var total, weights float64
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		weights += f.Weight
		total += f.Weight * r.scorer.Similarity(query, f.Value)
	}

	if weights == 0 {
		return 0
	}
	return clamp(total / weights)
}

// ScoreLink scores a link on its title, url and description only
func (r *Ranker) ScoreLink(query string, link types.ScorableLink) float64 {
	w := r.cfg.Weights
	return r.Weighted(query,
		Field{Weight: w.Title, Value: link.Title},
		Field{Weight: w.URL, Value: link.URL},
		Field{Weight: w.Description, Value: link.Description},
	)
}

// LinkContribution is what a link adds to its parent note: the weighted link
// score or its single best field, whichever is higher. Every link has a URL, so
// the weighted average alone would let an unrelated URL hide a matching title.
func (r *Ranker) LinkContribution(query string, link types.ScorableLink) float64 {
	best := r.ScoreLink(query, link)
	for _, value := range []string{link.Title, link.URL, link.Description} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if score := clamp(r.scorer.Similarity(query, value)); score > best {
			best = score
		}
	}
	return best
}

// ScoreNote returns the best of the note's own content score and the
// contribution of each attached link, so a note is found when any part of it
// matches
func (r *Ranker) ScoreNote(query string, note types.ScorableNote) float64 {
	best := r.Weighted(query, Field{Weight: r.cfg.Weights.Content, Value: note.Content})
	for _, link := range note.Links {
		if score := r.LinkContribution(query, link); score > best {
			best = score
		}
	}
	return best
}

// Admit reports whether score clears the admission threshold
func (r *Ranker) Admit(score float64) bool {
	return score > r.cfg.Threshold
}

// SortCandidates orders by relevance descending, then newest first, then ID so
// the order is fully deterministic
func SortCandidates(candidates []types.SearchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
