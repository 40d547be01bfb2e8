package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linkstash/internal/ranker"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".linkstash", "linkstash.db"), cfg.Storage.Path)

	assert.Equal(t, 0.4, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.ShortQueryLength)
	assert.Equal(t, 5, cfg.Search.DefaultPageSize)
	assert.Equal(t, 100, cfg.Search.MaxPageSize)
	assert.Equal(t, 100, cfg.Search.MergePoolSize)
	assert.Equal(t, 4096, cfg.Search.TrigramCacheSize)
	assert.Equal(t, ranker.DefaultConfig(), cfg.RankerConfig())

	assert.Equal(t, 4, cfg.Enrich.Workers)
	assert.Equal(t, 50, cfg.Enrich.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.Enrich.HTTPTimeout)
	assert.Equal(t, 3, cfg.Enrich.MaxRetries)
	assert.Equal(t, 15*time.Minute, cfg.Enrich.Interval)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  path: /tmp/linkstash-test.db
search:
  threshold: 0.3
  default_page_size: 10
  weights:
    title: 6
enrich:
  http_timeout: 3s
log:
  level: debug
  format: json
metrics:
  addr: 127.0.0.1:9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/linkstash-test.db", cfg.Storage.Path)
	assert.Equal(t, 0.3, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.DefaultPageSize)
	assert.Equal(t, 6.0, cfg.RankerConfig().Weights.Title)
	assert.Equal(t, 10.0, cfg.RankerConfig().Weights.Content)
	assert.Equal(t, 3*time.Second, cfg.FetcherConfig().Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.Metrics.Addr)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Search.Threshold)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINKSTASH_SEARCH_THRESHOLD", "0.55")
	t.Setenv("LINKSTASH_STORAGE_PATH", ":memory:")
	t.Setenv("LINKSTASH_ENRICH_WORKERS", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.55, cfg.Search.Threshold)
	assert.Equal(t, ":memory:", cfg.Storage.Path)
	assert.Equal(t, 8, cfg.EnricherConfig().Workers)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold at one", func(c *Config) { c.Search.Threshold = 1 }},
		{"negative threshold", func(c *Config) { c.Search.Threshold = -0.1 }},
		{"zero weight", func(c *Config) { c.Search.Weights.URL = 0 }},
		{"zero default page size", func(c *Config) { c.Search.DefaultPageSize = 0 }},
		{"default above max", func(c *Config) { c.Search.DefaultPageSize = 200 }},
		{"zero merge pool", func(c *Config) { c.Search.MergePoolSize = 0 }},
		{"negative short length", func(c *Config) { c.Search.ShortQueryLength = -1 }},
		{"no workers", func(c *Config) { c.Enrich.Workers = 0 }},
		{"negative interval", func(c *Config) { c.Enrich.Interval = -time.Second }},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, base().Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/notes.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes.db"), got)

	got, err = ExpandPath("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDerivedConfigs(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	sim := cfg.SimilarityConfig()
	assert.Equal(t, 10, sim.ShortLength)
	assert.Equal(t, 4096, sim.CacheSize)

	sc := cfg.SearcherConfig()
	assert.Equal(t, 100, sc.MaxPageSize)
	assert.Equal(t, 100, sc.MergePoolSize)

	fc := cfg.FetcherConfig()
	assert.Equal(t, 3, fc.Retry.MaxRetries)
	assert.Equal(t, cfg.Enrich.UserAgent, fc.UserAgent)
}
