package ranking

import "github.com/hyperjump/wyvern/internal/model"

// DedupPenalties are the per-signal penalties applied when a candidate
// shares a content hash with a higher-scoring earlier result in the same
// response (§4.E "Deduplication"; defaults ported from the source's
// Collector::site_penalty/title_penalty/url_penalty/url_without_tld_penalty).
type DedupPenalties struct {
	Site          float64
	Title         float64
	URL           float64
	URLWithoutTLD float64
}

// DefaultDedupPenalties returns the built-in penalty defaults.
func DefaultDedupPenalties() DedupPenalties {
	return DedupPenalties{
		Site:          DefaultSitePenalty,
		Title:         DefaultTitlePenalty,
		URL:           DefaultURLPenalty,
		URLWithoutTLD: DefaultURLWithoutTLDPenalty,
	}
}

// Deduplicator tracks the content hashes already recorded by
// higher-scoring results within one response and prices a new candidate's
// overlap with them.
type Deduplicator struct {
	penalties DedupPenalties
	site      map[uint64]struct{}
	title     map[uint64]struct{}
	url       map[uint64]struct{}
	urlNoTLD  map[uint64]struct{}
}

// NewDeduplicator returns a Deduplicator with empty seen-sets.
func NewDeduplicator(penalties DedupPenalties) *Deduplicator {
	return &Deduplicator{
		penalties: penalties,
		site:      make(map[uint64]struct{}),
		title:     make(map[uint64]struct{}),
		url:       make(map[uint64]struct{}),
		urlNoTLD:  make(map[uint64]struct{}),
	}
}

// Penalize returns the total penalty for h's overlap with hashes already
// seen, then records h's hashes as seen. Callers must process candidates in
// score-descending order so "already seen" means "scored higher".
func (d *Deduplicator) Penalize(h model.ContentHashes) float64 {
	var penalty float64
	if _, ok := d.site[h.Site]; ok {
		penalty += d.penalties.Site
	}
	if _, ok := d.title[h.Title]; ok {
		penalty += d.penalties.Title
	}
	if _, ok := d.url[h.URL]; ok {
		penalty += d.penalties.URL
	}
	if _, ok := d.urlNoTLD[h.URLNoTLD]; ok {
		penalty += d.penalties.URLWithoutTLD
	}
	d.site[h.Site] = struct{}{}
	d.title[h.Title] = struct{}{}
	d.url[h.URL] = struct{}{}
	d.urlNoTLD[h.URLNoTLD] = struct{}{}
	return penalty
}
