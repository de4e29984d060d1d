// Package search ties the query/optic compilers, the ranking collector, and
// the result materialiser into the single request/response flow of §6: the
// data flow described in spec.md's overview table (C compiles the query, D
// compiles any optic program, E collects, F materialises).
package search

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/materialize"
	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/operator"
	"github.com/hyperjump/wyvern/internal/optic"
	"github.com/hyperjump/wyvern/internal/query"
	"github.com/hyperjump/wyvern/internal/ranking"
	"github.com/hyperjump/wyvern/internal/schema"
	"github.com/hyperjump/wyvern/internal/store"
)

// Engine is the top-level query processor: parse, compile, collect,
// materialise.
type Engine struct {
	store             *store.Store
	materializer      *materialize.Materializer
	weights           ranking.Weights
	dedupPenalties    ranking.DedupPenalties
	centrality        ranking.CentralityProvider
	maxDocsConsidered int
	defaultSafeSearch bool
	logger            *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCentrality attaches the web-graph/centrality store collaborator
// (§1); defaults to ranking.NoopCentrality.
func WithCentrality(c ranking.CentralityProvider) Option {
	return func(e *Engine) { e.centrality = c }
}

// WithDefaultSafeSearch sets the safe-search default applied when a query
// doesn't request it explicitly.
func WithDefaultSafeSearch(v bool) Option {
	return func(e *Engine) { e.defaultSafeSearch = v }
}

// NewEngine builds an Engine over s, using weights/dedupPenalties as the
// built-in signal defaults and maxDocsConsidered as the collector's global
// candidate budget (§4.E).
func NewEngine(s *store.Store, weights ranking.Weights, dedupPenalties ranking.DedupPenalties, maxDocsConsidered int, opts ...Option) *Engine {
	e := &Engine{
		store:             s,
		materializer:      materialize.New(),
		weights:           weights,
		dedupPenalties:    dedupPenalties,
		centrality:        ranking.NoopCentrality{},
		maxDocsConsidered: maxDocsConsidered,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search executes q against the current store snapshot (§6 data flow).
func (e *Engine) Search(ctx context.Context, q *model.SearchQuery) (*model.SearchResponse, error) {
	q.ApplyDefaults()

	pq, err := query.Parse(q.Query)
	if err != nil {
		return nil, err
	}

	hostRankings := model.NewHostRankings()
	hostRankings.MergeInput(q.HostRankings)

	// Caller-supplied blocked hosts are discarded unconditionally: unlike
	// Like/Dislike, host_rankings.Blocked is a first-class query field (§6)
	// and doesn't depend on an optic program being present.
	var callerBlocked []string
	for host := range hostRankings.Blocked {
		callerBlocked = append(callerBlocked, host)
	}

	safeSearch := q.SafeSearch || e.defaultSafeSearch
	root := query.Compile(pq, safeSearch)

	children := []operator.Node{root}
	for _, host := range callerBlocked {
		children = append(children, &operator.MustNot{Child: blockedHostPattern(host)})
	}

	weights := e.weights
	if q.OpticProgram != "" {
		prog, err := optic.Parse(q.OpticProgram)
		if err != nil {
			return nil, err
		}
		compiled := optic.Compile(prog, hostRankings)
		weights = weights.ApplyCoefficients(compiled.Coefficients)
		children = append(children, compiled.Operators...)
	}

	var tree operator.Node = &operator.Must{Children: children}

	segments := e.store.Snapshot()
	if !q.CountResults {
		tree = &operator.ShortCircuit{Child: tree, MaxDocs: shortCircuitBudget(segments)}
	}

	offset := int(q.Page) * int(q.NumResults)
	k := offset + int(q.NumResults)

	collector := &ranking.Collector{
		Weights:           weights,
		Centrality:        e.centrality,
		HostRankings:      hostRankings,
		DedupPenalties:    e.dedupPenalties,
		MaxDocsConsidered: e.maxDocsConsidered,
	}
	result, err := collector.Collect(ctx, segments, tree, k, q.CountResults)
	if err != nil {
		e.logger.Error("collect failed", zap.Error(err))
		return nil, err
	}

	page := windowPage(result.Pointers, offset, int(q.NumResults))

	simpleTerms := make([]string, 0, len(pq.Simple))
	for _, t := range pq.Simple {
		simpleTerms = append(simpleTerms, t.Text)
	}

	webpages := e.materializer.Hydrate(segments, page, simpleTerms)

	resp := &model.SearchResponse{Webpages: webpages}
	if result.Count != nil {
		resp.NumDocs = result.Count
	}
	return resp, nil
}

// blockedHostPattern compiles a host_rankings.Blocked entry into the same
// site-operator pattern match optic's Block(Site(...)) statements use.
func blockedHostPattern(host string) operator.Node {
	return operator.NewPattern(schema.FieldUrlForSiteOperator, host)
}

// shortCircuitBudget computes ceil(total_docs / num_segments), the
// per-segment scan budget of §4.E's short-circuit note.
func shortCircuitBudget(segments []store.Segment) int {
	if len(segments) == 0 {
		return 0
	}
	total := 0
	for _, seg := range segments {
		total += seg.NumDocs()
	}
	return int(math.Ceil(float64(total) / float64(len(segments))))
}

func windowPage(pointers []model.WebsitePointer, offset, limit int) []model.WebsitePointer {
	if offset >= len(pointers) {
		return nil
	}
	end := offset + limit
	if end > len(pointers) {
		end = len(pointers)
	}
	return pointers[offset:end]
}
