package config

import "github.com/hyperjump/wyvern/internal/ranking"

// ApplyDefaults sets default values for any zero values in cfg. Ranking
// defaults are ported from the built-in constants of internal/ranking,
// themselves ported from the source's Collector defaults (§4.E).
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.SonicAddr == "" {
		cfg.Server.SonicAddr = "localhost:8081"
	}

	if cfg.Store.IndexPath == "" {
		cfg.Store.IndexPath = "/usr/local/var/wyvern/index"
	}
	if cfg.Store.MaxSegments == 0 {
		cfg.Store.MaxSegments = 8
	}

	if cfg.Query.DefaultPageSize == 0 {
		cfg.Query.DefaultPageSize = 20
	}
	if cfg.Query.MaxPageSize == 0 {
		cfg.Query.MaxPageSize = 100
	}
	if cfg.Query.MaxDocsConsidered == 0 {
		cfg.Query.MaxDocsConsidered = ranking.DefaultMaxDocsConsidered
	}

	defaultWeights := ranking.DefaultWeights()
	if cfg.Ranking.TermScoreWeight == 0 {
		cfg.Ranking.TermScoreWeight = defaultWeights.TermScore
	}
	if cfg.Ranking.HostCentralityWeight == 0 {
		cfg.Ranking.HostCentralityWeight = defaultWeights.HostCentrality
	}
	if cfg.Ranking.PageCentralityWeight == 0 {
		cfg.Ranking.PageCentralityWeight = defaultWeights.PageCentrality
	}
	if cfg.Ranking.PreComputedScoreWeight == 0 {
		cfg.Ranking.PreComputedScoreWeight = defaultWeights.PreComputedScore
	}
	if cfg.Ranking.FreshnessWeight == 0 {
		cfg.Ranking.FreshnessWeight = defaultWeights.Freshness
	}
	if cfg.Ranking.HostSimilarityWeight == 0 {
		cfg.Ranking.HostSimilarityWeight = defaultWeights.HostSimilarity
	}
	if cfg.Ranking.SitePenalty == 0 {
		cfg.Ranking.SitePenalty = ranking.DefaultSitePenalty
	}
	if cfg.Ranking.TitlePenalty == 0 {
		cfg.Ranking.TitlePenalty = ranking.DefaultTitlePenalty
	}
	if cfg.Ranking.URLPenalty == 0 {
		cfg.Ranking.URLPenalty = ranking.DefaultURLPenalty
	}
	if cfg.Ranking.URLWithoutTLDPenalty == 0 {
		cfg.Ranking.URLWithoutTLDPenalty = ranking.DefaultURLWithoutTLDPenalty
	}

	if len(cfg.Watch.Directory) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}

// Weights builds a ranking.Weights from the configured defaults.
func (c *Config) Weights() ranking.Weights {
	return ranking.Weights{
		TermScore:        c.Ranking.TermScoreWeight,
		HostCentrality:   c.Ranking.HostCentralityWeight,
		PageCentrality:   c.Ranking.PageCentralityWeight,
		PreComputedScore: c.Ranking.PreComputedScoreWeight,
		Freshness:        c.Ranking.FreshnessWeight,
		HostSimilarity:   c.Ranking.HostSimilarityWeight,
	}
}

// DedupPenalties builds a ranking.DedupPenalties from the configured
// defaults.
func (c *Config) DedupPenalties() ranking.DedupPenalties {
	return ranking.DedupPenalties{
		Site:          c.Ranking.SitePenalty,
		Title:         c.Ranking.TitlePenalty,
		URL:           c.Ranking.URLPenalty,
		URLWithoutTLD: c.Ranking.URLWithoutTLDPenalty,
	}
}
