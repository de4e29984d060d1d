// Package config provides configuration loading and structs for the wyvern
// query-and-ranking core.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Query   QueryConfig   `yaml:"query"`
	Ranking RankingConfig `yaml:"ranking"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServerConfig holds HTTP API and sonic-lite RPC listener settings (§6).
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	SonicAddr string `yaml:"sonic_addr"`
}

// StoreConfig holds the segment store's directory and merge policy (§4.B).
type StoreConfig struct {
	IndexPath   string `yaml:"index_path"`
	AutoMerge   bool   `yaml:"auto_merge"`
	MaxSegments int    `yaml:"max_segments"`
}

// QueryConfig holds query-time settings. DefaultSafeSearch and
// MaxDocsConsidered are passed to the search engine; DefaultPageSize and
// MaxPageSize are loaded and defaulted but not read by the engine, which
// pages with model.SearchQuery.ApplyDefaults' DefaultNumResults.
type QueryConfig struct {
	DefaultPageSize   int  `yaml:"default_page_size"`
	MaxPageSize       int  `yaml:"max_page_size"`
	DefaultSafeSearch bool `yaml:"default_safe_search"`
	MaxDocsConsidered int  `yaml:"max_docs_considered"`
}

// RankingConfig holds the built-in signal weight and dedup penalty defaults
// of §4.E, overridable per-deployment; optic Ranking{} blocks still override
// these per-query.
type RankingConfig struct {
	TermScoreWeight        float64 `yaml:"term_score_weight"`
	HostCentralityWeight   float64 `yaml:"host_centrality_weight"`
	PageCentralityWeight   float64 `yaml:"page_centrality_weight"`
	PreComputedScoreWeight float64 `yaml:"pre_computed_score_weight"`
	FreshnessWeight        float64 `yaml:"freshness_weight"`
	HostSimilarityWeight   float64 `yaml:"host_similarity_weight"`

	SitePenalty          float64 `yaml:"site_penalty"`
	TitlePenalty         float64 `yaml:"title_penalty"`
	URLPenalty           float64 `yaml:"url_penalty"`
	URLWithoutTLDPenalty float64 `yaml:"url_without_tld_penalty"`
}

// WatchConfig holds drop-directory watch settings for the JSONL Webpage
// batch ingestion mode (§6 "Webpage input").
type WatchConfig struct {
	Directory string `yaml:"directory"`
	Recursive *bool  `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true
// when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Store.IndexPath = expandPath(cfg.Store.IndexPath, configDir)
	if cfg.Watch.Directory != "" {
		cfg.Watch.Directory = expandPath(cfg.Watch.Directory, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
