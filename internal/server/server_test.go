package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperjump/wyvern/internal/config"
	"github.com/hyperjump/wyvern/internal/indexer"
	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/ranking"
	"github.com/hyperjump/wyvern/internal/search"
	"github.com/hyperjump/wyvern/internal/sonic"
	"github.com/hyperjump/wyvern/internal/store"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestServer_StartServesSonicRPCWhenConfigured(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.PrepareWriter()
	require.NoError(t, s.Insert(&model.Document{Title: "Hello", CleanBody: "hello world", URL: "https://a.example/"}))
	require.NoError(t, s.Commit())

	engine := search.NewEngine(s, ranking.DefaultWeights(), ranking.DefaultDedupPenalties(), ranking.DefaultMaxDocsConsidered)
	idx := indexer.New(s)

	httpPort := freePort(t)
	sonicPort := freePort(t)
	cfg := config.ServerConfig{
		Host:      "127.0.0.1",
		Port:      httpPort,
		SonicAddr: "127.0.0.1:" + strconv.Itoa(sonicPort),
	}
	srv := NewServer(engine, idx, cfg, nil)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			t.Logf("server stopped: %v", err)
		}
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", cfg.SonicAddr, 50*time.Millisecond)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	client, err := sonic.CreateWithTimeout[model.SearchQuery, model.SearchResponse](cfg.SonicAddr, time.Second)
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.SendWithTimeout(model.SearchQuery{Query: "hello"}, time.Second)
	require.NoError(t, err)
	require.Len(t, resp.Webpages, 1)
}
