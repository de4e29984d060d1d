package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/sonic"
)

// searchService exposes the query engine as a sonic RPC, for a coordinator
// process that wants to reach this node's segments without going through
// HTTP: a node fanning a query out across several wyvern instances each
// holding a shard of the index.
type searchService struct {
	s *Server
}

func (h searchService) Handle(ctx context.Context, req model.SearchQuery) (model.SearchResponse, error) {
	resp, err := h.s.engine.Search(ctx, &req)
	if err != nil {
		return model.SearchResponse{}, err
	}
	return *resp, nil
}

// startSonic binds the sonic RPC listener at addr, if non-empty, and serves
// it until ctx is cancelled. It runs alongside the HTTP listener, not
// instead of it.
func (s *Server) startSonic(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	srv, err := sonic.Bind[model.SearchQuery, model.SearchResponse](addr, searchService{s: s}, s.logger)
	if err != nil {
		return err
	}
	s.sonicServer = srv
	s.logger.Info("starting sonic RPC listener", zap.String("addr", addr))
	go func() {
		if err := srv.Serve(ctx); err != nil {
			s.logger.Error("sonic server stopped", zap.Error(err))
		}
	}()
	return nil
}
