package similarity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultShortLength is the rune length at or below which containment matching applies
	DefaultShortLength = 10
	// DefaultCacheSize is the number of per-word trigram sets kept in memory
	DefaultCacheSize = 4096
)

// Config configures a Scorer
type Config struct {
	ShortLength int // Containment cutover in runes (default: 10)
	CacheSize   int // Trigram set cache entries, 0 disables caching
}

// DefaultConfig returns the standard scorer settings
func DefaultConfig() Config {
	return Config{
		ShortLength: DefaultShortLength,
		CacheSize:   DefaultCacheSize,
	}
}

// trigramSet is an immutable set of trigrams; cached values are shared between goroutines
type trigramSet map[string]struct{}

// Scorer computes query/target similarity. It is safe for concurrent use.
type Scorer struct {
	shortLength int
	cache       *lru.Cache[string, trigramSet]
}

// New creates a Scorer
func New(cfg Config) (*Scorer, error) {
	if cfg.ShortLength < 0 {
		return nil, fmt.Errorf("short length must be >= 0, got %d", cfg.ShortLength)
	}

	s := &Scorer{shortLength: cfg.ShortLength}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, trigramSet](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create trigram cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

var defaultScorer = Must(DefaultConfig())

// Must is like New but panics on an invalid configuration
func Must(cfg Config) *Scorer {
	s, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("similarity: %v", err))
	}
	return s
}

// Similarity scores query against target with the default configuration
func Similarity(query, target string) float64 {
	return defaultScorer.Similarity(query, target)
}

// Similarity returns a score in [0, 1]. An empty target always scores 0. When
// either string is at most ShortLength runes, a target containing the query
// scores 1; everything else is scored by trigrams.
func (s *Scorer) Similarity(query, target string) float64 {
	t := Normalize(target)
	if t == "" {
		return 0
	}
	q := Normalize(query)
	if q == "" {
		return 0
	}
	if q == t {
		return 1
	}

	if utf8.RuneCountInString(q) <= s.shortLength || utf8.RuneCountInString(t) <= s.shortLength {
		if strings.Contains(t, q) {
			return 1
		}
	}

	return s.trigramSimilarity(q, t)
}

// Normalize applies NFKC, Unicode case folding and whitespace trimming
func Normalize(text string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(text)))
}

// trigramSimilarity is the best Jaccard index between the query and either the
// whole target or any window of len(queryWords) consecutive target words
func (s *Scorer) trigramSimilarity(q, t string) float64 {
	qWords := splitWords(q)
	tWords := splitWords(t)
	if len(qWords) == 0 || len(tWords) == 0 {
		return 0
	}

	qSet := s.setOf(qWords)
	best := jaccard(qSet, s.setOf(tWords))

	k := len(qWords)
	for i := 0; i+k <= len(tWords) && k < len(tWords); i++ {
		if score := jaccard(qSet, s.setOf(tWords[i:i+k])); score > best {
			best = score
		}
		if best == 1 {
			break
		}
	}

	return best
}

// setOf unions the trigram sets of the given words
func (s *Scorer) setOf(words []string) trigramSet {
	if len(words) == 1 {
		return s.wordTrigrams(words[0])
	}

	set := make(trigramSet, len(words)*6)
	for _, w := range words {
		for tri := range s.wordTrigrams(w) {
			set[tri] = struct{}{}
		}
	}
	return set
}

// wordTrigrams returns the trigrams of a single padded word
func (s *Scorer) wordTrigrams(word string) trigramSet {
	if s.cache != nil {
		if set, ok := s.cache.Get(word); ok {
			return set
		}
	}

	runes := []rune("  " + word + " ")
	set := make(trigramSet, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}

	if s.cache != nil {
		s.cache.Add(word, set)
	}
	return set
}

// splitWords splits on every rune that is not a letter or digit
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// jaccard returns |a ∩ b| / |a ∪ b|
func jaccard(a, b trigramSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	shared := 0
	for tri := range a {
		if _, ok := b[tri]; ok {
			shared++
		}
	}

	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
