package model

// SearchQuery is the external query request of §6.
type SearchQuery struct {
	Query               string       `json:"query"`
	Page                uint         `json:"page,omitempty"`
	NumResults          uint         `json:"num_results,omitempty"`
	OpticProgram        string       `json:"optic_program,omitempty"`
	HostRankings        *HostRankingsInput `json:"host_rankings,omitempty"`
	SelectedRegion      RegionCode   `json:"selected_region,omitempty"`
	SafeSearch          bool         `json:"safe_search,omitempty"`
	CountResults        bool         `json:"count_results,omitempty"`
	ReturnRankingSignals bool        `json:"return_ranking_signals,omitempty"`
}

// HostRankingsInput is the caller-supplied triple of liked/disliked/blocked
// hosts, merged at query-compile time with any optic-declared rankings.
type HostRankingsInput struct {
	Liked    []string `json:"liked,omitempty"`
	Disliked []string `json:"disliked,omitempty"`
	Blocked  []string `json:"blocked,omitempty"`
}

// Defaults applied when the external request omits a field.
const (
	DefaultPage       = 0
	DefaultNumResults = 20
)

// ApplyDefaults fills the zero-value fields per §6.
func (q *SearchQuery) ApplyDefaults() {
	if q.NumResults == 0 {
		q.NumResults = DefaultNumResults
	}
}
