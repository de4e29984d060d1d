package ranking

import (
	"container/heap"
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/operator"
	"github.com/hyperjump/wyvern/internal/store"
)

// Candidate is one scored document awaiting top-k collection or final
// deduplication.
type Candidate struct {
	Pointer model.WebsitePointer
	Score   float64
}

// candidateHeap is a bounded min-heap over Candidate.Score, so the smallest
// kept candidate sits at the root and is the one evicted by a better match
// (§4.E "Top-k collection").
type candidateHeap []*Candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)         { *h = append(*h, x.(*Candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Collector evaluates a compiled operator tree across a store snapshot,
// aggregating signals into a score and collecting the top-k results (§4.E).
type Collector struct {
	Weights           Weights
	Centrality        CentralityProvider
	HostRankings      *model.HostRankings
	DedupPenalties    DedupPenalties
	MaxDocsConsidered int
}

// NewCollector returns a Collector configured with the built-in defaults.
func NewCollector() *Collector {
	return &Collector{
		Weights:           DefaultWeights(),
		Centrality:        NoopCentrality{},
		HostRankings:      model.NewHostRankings(),
		DedupPenalties:    DefaultDedupPenalties(),
		MaxDocsConsidered: DefaultMaxDocsConsidered,
	}
}

// Result is the outcome of one Collect call: the top-k pointers in
// score-descending order, and the exact match count when requested.
type Result struct {
	Pointers []model.WebsitePointer
	Count    *uint64
}

// Collect evaluates tree across segments in parallel, returning the top-k
// WebsitePointer results. When countResults is true, every match is tallied
// into Result.Count and no pointers are collected, so Result.Pointers is
// empty in count mode; when false and tree is a
// *operator.ShortCircuit, each segment's scan is capped at its MaxDocs
// (approximated via bleve's SearchRequest.Size — bleve has no incremental
// scan-abort API to truly stop mid-segment). At most MaxDocsConsidered
// candidates are evaluated across all segments combined.
func (c *Collector) Collect(ctx context.Context, segments []store.Segment, tree operator.Node, k int, countResults bool) (*Result, error) {
	bleveQuery := tree.Query()
	perSegmentSize := k
	if sc, ok := tree.(*operator.ShortCircuit); ok && !countResults {
		perSegmentSize = sc.MaxDocs
	}

	var (
		mu         sync.Mutex
		h          candidateHeap
		total      uint64
		considered int64
	)
	heap.Init(&h)

	g, gctx := errgroup.WithContext(ctx)
	for _, seg := range segments {
		seg := seg
		g.Go(func() error {
			req := bleve.NewSearchRequest(bleveQuery)
			if countResults {
				req.Size = seg.NumDocs()
			} else {
				req.Size = perSegmentSize
			}
			res, err := seg.Search(req)
			if err != nil {
				return err
			}

			for _, hit := range res.Hits {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if atomic.AddInt64(&considered, 1) > int64(c.MaxDocsConsidered) {
					return nil
				}

				localID, err := parseLocalDocID(hit.ID)
				if err != nil {
					continue
				}
				if seg.IsDeleted(localID) {
					continue
				}
				fields, err := seg.Fields(localID)
				if err != nil {
					continue // tombstoned or raced with a concurrent delete
				}
				matched, boost := operator.Eval(tree, storedFieldSource{f: fields})
				if !matched {
					continue
				}

				mu.Lock()
				total++
				mu.Unlock()
				if countResults {
					continue
				}

				sig := Signals{
					TermScore:        hit.Score,
					HostCentrality:   fields.HostCentrality,
					PageCentrality:   fields.PageCentrality,
					PreComputedScore: fields.PreComputedScore,
					Freshness:        Freshness(fields.LastUpdated, time.Now()),
					HostSimilarity:   c.Centrality.HostSimilarity(fields.Site, c.HostRankings.Liked, c.HostRankings.Disliked),
					OpticBoost:       boost,
				}
				cand := &Candidate{
					Pointer: model.WebsitePointer{
						Score:   0,
						Hashes:  fields.Hashes,
						Address: model.DocAddress{SegmentID: seg.ID(), LocalDocID: localID},
					},
					Score: sig.Weighted(c.Weights),
				}
				cand.Pointer.Score = cand.Score

				mu.Lock()
				if h.Len() < k {
					heap.Push(&h, cand)
				} else if h.Len() > 0 && h[0].Score < cand.Score {
					heap.Pop(&h)
					heap.Push(&h, cand)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ordered := make([]*Candidate, h.Len())
	for i := len(ordered) - 1; i >= 0; i-- {
		ordered[i] = heap.Pop(&h).(*Candidate)
	}

	dedup := NewDeduplicator(c.DedupPenalties)
	pointers := make([]model.WebsitePointer, 0, len(ordered))
	for _, cand := range ordered {
		cand.Pointer.Score -= dedup.Penalize(cand.Pointer.Hashes)
		pointers = append(pointers, cand.Pointer)
	}
	sort.SliceStable(pointers, func(i, j int) bool { return pointers[i].Score > pointers[j].Score })

	result := &Result{Pointers: pointers}
	if countResults {
		result.Count = &total
	}
	return result, nil
}

func parseLocalDocID(hitID string) (uint32, error) {
	n, err := strconv.ParseUint(hitID, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
