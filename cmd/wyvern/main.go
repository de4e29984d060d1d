// Package main is the wyvern CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/cli"
	"github.com/hyperjump/wyvern/internal/config"
	"github.com/hyperjump/wyvern/internal/indexer"
	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/search"
	"github.com/hyperjump/wyvern/internal/server"
	"github.com/hyperjump/wyvern/internal/store"
	"github.com/hyperjump/wyvern/internal/watcher"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/wyvern/config.yaml"

// loadConfig loads config from path. If path is the default and the file does not exist,
// it tries config.yaml in the current directory (for development).
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if path == defaultConfigPath {
			if unwrap := errors.Unwrap(err); unwrap != nil && os.IsNotExist(unwrap) {
				if cwd, cwdErr := os.Getwd(); cwdErr == nil {
					fallback := filepath.Join(cwd, "config.yaml")
					if _, statErr := os.Stat(fallback); statErr == nil {
						cfg, loadErr := config.Load(fallback)
						if loadErr != nil {
							return nil, "", loadErr
						}
						return cfg, fallback, nil
					}
				}
			}
		}
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "merge":
		runMerge()
	case "version", "--version", "-v":
		fmt.Printf("wyvern version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// Components holds the services a process needs to answer queries and ingest
// webpages against one store.
type Components struct {
	Store   *store.Store
	Engine  *search.Engine
	Indexer *indexer.Indexer
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config) (*Components, error) {
	s, err := store.Open(cfg.Store.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.PrepareWriter()
	if cfg.Store.AutoMerge && cfg.Store.MaxSegments > 0 {
		s.SetAutoMergePolicy(cfg.Store.MaxSegments)
	}

	engine := search.NewEngine(s, cfg.Weights(), cfg.DedupPenalties(), cfg.Query.MaxDocsConsidered,
		search.WithDefaultSafeSearch(cfg.Query.DefaultSafeSearch))
	idx := indexer.New(s)

	return &Components{Store: s, Engine: engine, Indexer: idx}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	components, err := initializeComponents(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var watchCancel context.CancelFunc
	if cfg.Watch.Directory != "" {
		var watchCtx context.Context
		watchCtx, watchCancel = context.WithCancel(context.Background())
		defer watchCancel()

		w := watcher.NewWatcher(
			[]string{cfg.Watch.Directory},
			[]string{".jsonl"},
			cfg.Watch.RecursiveOrDefault(),
			func(path string) { indexJSONLFile(components.Indexer, path, logger) },
			func(path string) {},
			watcher.WithLogger(logger),
		)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		w.SyncExistingFiles()
	}

	srv := server.NewServer(components.Engine, components.Indexer, cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchCancel != nil {
		watchCancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func indexJSONLFile(idx *indexer.Indexer, path string, logger *zap.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("watch: open dropped file failed", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()
	n, err := idx.IndexJSONLReader(f)
	if err != nil {
		logger.Warn("watch: index dropped file failed", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("watch: indexed dropped file", zap.String("path", path), zap.Int("count", n))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so flag.Parse sees them (Go's flag package
// stops at the first non-flag argument).
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = open store directly)")
	numResults := fs.Uint("num-results", model.DefaultNumResults, "number of results")
	page := fs.Uint("page", 0, "result page")
	opticProgram := fs.String("optic", "", "path to an optic program file")
	safeSearch := fs.Bool("safe-search", false, "filter NSFW pages")
	countOnly := fs.Bool("count", false, "return only the match count")
	searchArgs := searchArgsReorder(os.Args[2:])
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: wyvern search [flags] <query>")
		os.Exit(1)
	}

	query := &model.SearchQuery{
		Query: fs.Arg(0), Page: *page, NumResults: *numResults,
		SafeSearch: *safeSearch, CountResults: *countOnly,
	}
	if *opticProgram != "" {
		b, err := os.ReadFile(*opticProgram)
		if err != nil {
			fmt.Printf("Failed to read optic program: %v\n", err)
			os.Exit(1)
		}
		query.OpticProgram = string(b)
	}

	if *serverURL != "" {
		resp, err := searchViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			os.Exit(1)
		}
		cli.PrintSearchResults(resp)
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	resp, err := components.Engine.Search(context.Background(), query)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		os.Exit(1)
	}
	cli.PrintSearchResults(resp)
}

func searchViaHTTP(serverURL string, query *model.SearchQuery) (*model.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response model.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: wyvern index [flags] <webpages.jsonl>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Failed to open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	n, err := components.Indexer.IndexJSONLReader(f)
	if err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d webpages from %s\n", n, path)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	before := fs.String("before", "", "delete every document inserted before this RFC3339 timestamp")
	_ = fs.Parse(os.Args[2:])

	if *before == "" {
		fmt.Println("Usage: wyvern delete --before <RFC3339 timestamp>")
		os.Exit(1)
	}
	cutoff, err := time.Parse(time.RFC3339, *before)
	if err != nil {
		fmt.Printf("Invalid --before timestamp: %v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	components.Store.DeleteAllBefore(cutoff)
	if err := components.Store.Commit(); err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted all documents inserted before %s\n", cutoff.Format(time.RFC3339))
}

func runMerge() {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	maxSegments := fs.Int("max-segments", 0, "target segment count (default: config store.max_segments)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	k := *maxSegments
	if k == 0 {
		k = cfg.Store.MaxSegments
	}
	if err := components.Store.MergeIntoMaxSegments(k); err != nil {
		fmt.Printf("Merge failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Merged store into at most %d segments\n", k)
}

func printUsage() {
	fmt.Println(`wyvern - a query-and-ranking search core

Usage:
  wyvern server [flags]              Start the HTTP server
  wyvern search [flags] <query>      Search the index
  wyvern index [flags] <file.jsonl>  Bulk-index webpages from a JSONL file
  wyvern delete --before <ts>        Delete documents inserted before ts
  wyvern merge [flags]               Merge segments down to the configured max
  wyvern version                     Show version
  wyvern help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/wyvern/config.yaml)

Search Flags:
  --config string        Config file path (for direct-store mode)
  --server string        Server URL (default: http://localhost:8080); empty opens the store directly
  --num-results uint     Results per page (default: 20)
  --page uint            Result page (default: 0)
  --optic string         Path to an optic program file
  --safe-search          Filter NSFW pages
  --count                Return only the match count

Examples:
  wyvern server
  wyvern search "machine learning algorithms"
  wyvern search --optic ./discard-ads.optic "open source search"
  wyvern index ./crawl-batch.jsonl
  wyvern delete --before 2025-01-01T00:00:00Z
  wyvern merge`)
}
