package model

// HostRankings is the frozen, setwise-unioned triple of liked/disliked/
// blocked hosts computed at query-compile time from the caller's
// HostRankingsInput and every optic program's Like/Dislike/Block statements
// (§4.D "Host-ranking merge across optics").
type HostRankings struct {
	Liked    map[string]struct{}
	Disliked map[string]struct{}
	Blocked  map[string]struct{}
}

// NewHostRankings returns an empty HostRankings ready for Merge.
func NewHostRankings() *HostRankings {
	return &HostRankings{
		Liked:    map[string]struct{}{},
		Disliked: map[string]struct{}{},
		Blocked:  map[string]struct{}{},
	}
}

// MergeInput unions a caller-supplied HostRankingsInput into hr.
func (hr *HostRankings) MergeInput(in *HostRankingsInput) {
	if in == nil {
		return
	}
	for _, h := range in.Liked {
		hr.Liked[h] = struct{}{}
	}
	for _, h := range in.Disliked {
		hr.Disliked[h] = struct{}{}
	}
	for _, h := range in.Blocked {
		hr.Blocked[h] = struct{}{}
	}
}

// Like adds a liked host (from an optic's Like(Site(s)) statement).
func (hr *HostRankings) Like(host string) { hr.Liked[host] = struct{}{} }

// Dislike adds a disliked host.
func (hr *HostRankings) Dislike(host string) { hr.Disliked[host] = struct{}{} }

// Block adds a blocked host.
func (hr *HostRankings) Block(host string) { hr.Blocked[host] = struct{}{} }
