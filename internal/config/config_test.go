package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
store:
  index_path: "test-index"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Store.IndexPath == "" {
		t.Error("index_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "localhost"
  port: 8080
store:
  index_path: "./data/index"
watch:
  directory: "./dev/drop"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantIndex := filepath.Join(dir, "data", "index")
	if cfg.Store.IndexPath != wantIndex {
		t.Errorf("index_path = %s, want %s", cfg.Store.IndexPath, wantIndex)
	}
	wantWatch := filepath.Join(dir, "dev", "drop")
	if cfg.Watch.Directory != wantWatch {
		t.Errorf("watch directory = %s, want %s", cfg.Watch.Directory, wantWatch)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Query.DefaultPageSize != 20 {
		t.Errorf("default page size: got %d", cfg.Query.DefaultPageSize)
	}
	if cfg.Query.MaxDocsConsidered != 250_000 {
		t.Errorf("default max docs considered: got %d", cfg.Query.MaxDocsConsidered)
	}
	if cfg.Ranking.TermScoreWeight != 1.0 {
		t.Errorf("default term score weight: got %f", cfg.Ranking.TermScoreWeight)
	}
	if cfg.Ranking.SitePenalty != 0.1 {
		t.Errorf("default site penalty: got %f", cfg.Ranking.SitePenalty)
	}
	if cfg.Ranking.URLPenalty != 20.0 {
		t.Errorf("default url penalty: got %f", cfg.Ranking.URLPenalty)
	}
}

func TestApplyDefaults_WatchRecursiveWhenDirectorySet(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Directory: "/tmp/docs"}}
	ApplyDefaults(cfg)
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directory is set")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		w := &WatchConfig{}
		if got := w.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("true_returns_true", func(t *testing.T) {
		v := true
		w := &WatchConfig{Recursive: &v}
		if got := w.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		w := &WatchConfig{Recursive: &f}
		if got := w.RecursiveOrDefault(); got {
			t.Errorf("RecursiveOrDefault() = %v, want false", got)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server: ServerConfig{Host: "localhost", Port: 9090},
		Store:  StoreConfig{IndexPath: "/tmp/index"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
}

func TestConfig_WeightsAndDedupPenalties(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	w := cfg.Weights()
	if w.TermScore != 1.0 || w.HostCentrality != 1.0 {
		t.Errorf("unexpected weights: %+v", w)
	}

	p := cfg.DedupPenalties()
	if p.Site != 0.1 || p.URL != 20.0 {
		t.Errorf("unexpected dedup penalties: %+v", p)
	}
}
