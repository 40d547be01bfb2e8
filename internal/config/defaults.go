package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers every key so env overrides reach Unmarshal
func setDefaults(v *viper.Viper) {
	// Storage
	v.SetDefault("storage.path", "~/.linkstash/linkstash.db")

	// Search
	v.SetDefault("search.threshold", 0.4)
	v.SetDefault("search.short_query_length", 10)
	v.SetDefault("search.default_page_size", 5)
	v.SetDefault("search.max_page_size", 100)
	v.SetDefault("search.merge_pool_size", 100)
	v.SetDefault("search.trigram_cache_size", 4096)
	v.SetDefault("search.weights.content", 10.0)
	v.SetDefault("search.weights.title", 4.0)
	v.SetDefault("search.weights.url", 3.0)
	v.SetDefault("search.weights.description", 2.0)

	// Enrichment
	v.SetDefault("enrich.workers", 4)
	v.SetDefault("enrich.batch_size", 50)
	v.SetDefault("enrich.http_timeout", 10*time.Second)
	v.SetDefault("enrich.max_retries", 3)
	v.SetDefault("enrich.user_agent", "linkstash/1.0 (+metadata fetcher)")
	v.SetDefault("enrich.interval", 15*time.Minute)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	// Metrics
	v.SetDefault("metrics.addr", "")
}
