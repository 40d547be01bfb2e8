// Package config loads linkstash settings from defaults, an optional YAML file
// and LINKSTASH_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/linkstash/internal/enricher"
	"github.com/dshills/linkstash/internal/metadata"
	"github.com/dshills/linkstash/internal/ranker"
	"github.com/dshills/linkstash/internal/searcher"
	"github.com/dshills/linkstash/internal/similarity"
	"github.com/dshills/linkstash/pkg/logger"
)

// EnvPrefix prefixes every environment override, e.g. LINKSTASH_SEARCH_THRESHOLD
const EnvPrefix = "LINKSTASH"

// Config is the full application configuration
type Config struct {
	Storage StorageConfig    `mapstructure:"storage"`
	Search  SearchConfig     `mapstructure:"search"`
	Enrich  EnrichConfig     `mapstructure:"enrich"`
	Log     logger.LogConfig `mapstructure:"log"`
	Metrics MetricsConfig    `mapstructure:"metrics"`
}

// StorageConfig locates the database
type StorageConfig struct {
	Path string `mapstructure:"path"` // ":memory:" for a throwaway database
}

// SearchConfig holds scoring and paging settings
type SearchConfig struct {
	Threshold        float64       `mapstructure:"threshold"`
	ShortQueryLength int           `mapstructure:"short_query_length"`
	DefaultPageSize  int           `mapstructure:"default_page_size"`
	MaxPageSize      int           `mapstructure:"max_page_size"`
	MergePoolSize    int           `mapstructure:"merge_pool_size"`
	TrigramCacheSize int           `mapstructure:"trigram_cache_size"`
	Weights          WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig holds per-field ranking weights
type WeightsConfig struct {
	Content     float64 `mapstructure:"content"`
	Title       float64 `mapstructure:"title"`
	URL         float64 `mapstructure:"url"`
	Description float64 `mapstructure:"description"`
}

// EnrichConfig holds link metadata enrichment settings
type EnrichConfig struct {
	Workers     int           `mapstructure:"workers"`
	BatchSize   int           `mapstructure:"batch_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	UserAgent   string        `mapstructure:"user_agent"`
	Interval    time.Duration `mapstructure:"interval"` // Background run period while serving, 0 disables
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // Empty disables the endpoint
}

// Load reads configuration. A missing file at path is not an error; a file that
// exists but cannot be parsed is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expandedPath, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}

		v.SetConfigFile(expandedPath)
		if err := v.ReadInConfig(); err != nil {
			var pathErr *os.PathError
			if !errors.As(err, &pathErr) {
				return nil, fmt.Errorf("read config %s: %w", expandedPath, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	storagePath, err := ExpandPath(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	cfg.Storage.Path = storagePath

	logPath, err := ExpandPath(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	cfg.Log.File = logPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that would otherwise fail deep inside a component
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if err := c.RankerConfig().Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	s := c.Search
	if s.DefaultPageSize <= 0 || s.MaxPageSize <= 0 || s.MergePoolSize <= 0 {
		return fmt.Errorf("search page sizes must be positive")
	}
	if s.DefaultPageSize > s.MaxPageSize {
		return fmt.Errorf("search.default_page_size %d exceeds search.max_page_size %d",
			s.DefaultPageSize, s.MaxPageSize)
	}
	if s.ShortQueryLength < 0 || s.TrigramCacheSize < 0 {
		return fmt.Errorf("search.short_query_length and search.trigram_cache_size must not be negative")
	}
	if c.Enrich.Workers <= 0 || c.Enrich.BatchSize <= 0 {
		return fmt.Errorf("enrich.workers and enrich.batch_size must be positive")
	}
	if c.Enrich.Interval < 0 {
		return fmt.Errorf("enrich.interval must not be negative")
	}
	return nil
}

// RankerConfig returns the immutable scoring configuration
func (c *Config) RankerConfig() ranker.Config {
	w := c.Search.Weights
	return ranker.Config{
		Weights: ranker.Weights{
			Content:     w.Content,
			Title:       w.Title,
			URL:         w.URL,
			Description: w.Description,
		},
		Threshold: c.Search.Threshold,
	}
}

// SimilarityConfig returns the trigram scorer settings
func (c *Config) SimilarityConfig() similarity.Config {
	return similarity.Config{
		ShortLength: c.Search.ShortQueryLength,
		CacheSize:   c.Search.TrigramCacheSize,
	}
}

// SearcherConfig returns the request bounds for the searcher
func (c *Config) SearcherConfig() searcher.Config {
	return searcher.Config{
		MaxPageSize:   c.Search.MaxPageSize,
		MergePoolSize: c.Search.MergePoolSize,
	}
}

// FetcherConfig returns the HTTP metadata fetcher settings
func (c *Config) FetcherConfig() metadata.Config {
	cfg := metadata.DefaultConfig()
	cfg.Timeout = c.Enrich.HTTPTimeout
	cfg.UserAgent = c.Enrich.UserAgent
	cfg.Retry.MaxRetries = c.Enrich.MaxRetries
	return cfg
}

// EnricherConfig returns the worker pool settings for one enrichment run
func (c *Config) EnricherConfig() enricher.Config {
	return enricher.Config{
		Workers:   c.Enrich.Workers,
		BatchSize: c.Enrich.BatchSize,
	}
}
