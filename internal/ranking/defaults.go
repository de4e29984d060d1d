// Package ranking implements the scorer and collector of §4.E: per-document
// signal aggregation, top-k collection with short-circuiting, and result-set
// deduplication.
package ranking

// Collector penalty and limit defaults, ported from the source's
// crates/core/src/config/defaults.rs Collector block (§4.E "Deduplication").
const (
	DefaultSitePenalty          = 0.1
	DefaultTitlePenalty         = 1.0
	DefaultURLPenalty           = 20.0
	DefaultURLWithoutTLDPenalty = 1.0
	DefaultMaxDocsConsidered    = 250_000
)

// Signal names consulted by an optic Ranking{ Signal("name") => value }
// block, matching the original's RankingTarget::Signal identifiers (§9,
// original_source/crates/core/src/query/optic.rs).
const (
	SignalTermScore        = "bm25"
	SignalHostCentrality   = "host_centrality"
	SignalPageCentrality   = "page_centrality"
	SignalPreComputedScore = "pre_computed_score"
	SignalFreshness        = "freshness"
	SignalHostSimilarity   = "inbound_similarity"
)

// Weights holds the per-signal coefficients the scorer sums (§4.E
// "Scoring"). Defaults are built-in constants; optic Ranking{} blocks
// override individual entries per query.
type Weights struct {
	TermScore        float64
	HostCentrality   float64
	PageCentrality   float64
	PreComputedScore float64
	Freshness        float64
	HostSimilarity   float64
}

// DefaultWeights returns the built-in signal weights applied when no optic
// Ranking{} block overrides them.
func DefaultWeights() Weights {
	return Weights{
		TermScore:        1.0,
		HostCentrality:   1.0,
		PageCentrality:   1.0,
		PreComputedScore: 1.0,
		Freshness:        0.1,
		HostSimilarity:   1.0,
	}
}

// ApplyCoefficients overrides w's fields named by coeffs with optic-supplied
// values (§4.E "Weights default to built-in constants and can be overridden
// per-query by optic Ranking{} blocks").
func (w Weights) ApplyCoefficients(coeffs map[string]float64) Weights {
	if v, ok := coeffs[SignalTermScore]; ok {
		w.TermScore = v
	}
	if v, ok := coeffs[SignalHostCentrality]; ok {
		w.HostCentrality = v
	}
	if v, ok := coeffs[SignalPageCentrality]; ok {
		w.PageCentrality = v
	}
	if v, ok := coeffs[SignalPreComputedScore]; ok {
		w.PreComputedScore = v
	}
	if v, ok := coeffs[SignalFreshness]; ok {
		w.Freshness = v
	}
	if v, ok := coeffs[SignalHostSimilarity]; ok {
		w.HostSimilarity = v
	}
	return w
}
