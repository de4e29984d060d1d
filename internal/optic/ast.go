// Package optic implements the declarative ranking program of §4.D: a
// small DSL (Like/Dislike/Block, Rule/Matches/Action, Ranking, and
// DiscardNonMatching) lexed, parsed, and compiled to an operator.Node plus
// host-ranking and signal-coefficient side effects.
package optic

// Program is a parsed optic: an ordered list of statements (§4.D grammar
// "program := statement (';' statement)* ';'?").
type Program struct {
	Statements []Statement
}

// Statement is one top-level optic statement.
type Statement interface{ isStatement() }

// DiscardNonMatching is the 'DiscardNonMatching' statement: every non-
// discard Rule becomes a keeper that the result must match at least one of.
type DiscardNonMatching struct{}

func (*DiscardNonMatching) isStatement() {}

// Like, Dislike, and Block are the Like(Site(s))/Dislike(Site(s))/
// Block(Site(s)) statements, aggregating into model.HostRankings.
type Like struct{ Site string }
type Dislike struct{ Site string }
type Block struct{ Site string }

func (*Like) isStatement()    {}
func (*Dislike) isStatement() {}
func (*Block) isStatement()   {}

// RankingBlock is a 'Ranking { ... }' statement: per-signal coefficient
// adjustments, merged across optics by summation (§4.D).
type RankingBlock struct {
	Coeffs []RankingCoeff
}

func (*RankingBlock) isStatement() {}

// RankingCoeff is one `Signal("name") => value` entry of a Ranking block,
// grounded on the original's RankingTarget::Signal(name) ranking-coefficient
// representation (§9, original_source/crates/core/src/query/optic.rs).
type RankingCoeff struct {
	Signal string
	Value  float64
}

// Rule is a 'Rule { Matches{...} (Matches{...})* (, Action(...))? }'
// statement. MatchesBlocks holds one []Matching per Matches{...} block
// (OR'd together); Action is nil when omitted, defaulting to Boost(0).
type Rule struct {
	MatchesBlocks [][]Matching
	Action        *Action
}

func (*Rule) isStatement() {}

// Matching is one `location(pattern)` entry inside a Matches block.
type Matching struct {
	Location Location
	Pattern  string
}

// Location identifies the document field a Matching targets (§4.D
// "Default-field targets").
type Location int

const (
	LocationSite Location = iota
	LocationURL
	LocationDomain
	LocationTitle
	LocationDescription
	LocationContent
	LocationSchema
	LocationMicroformatTag
)

// ActionKind identifies a Rule's Action statement.
type ActionKind int

const (
	ActionBoost ActionKind = iota
	ActionDownrank
	ActionDiscard
)

// Action is the optional 'Action(...)' clause of a Rule.
type Action struct {
	Kind  ActionKind
	Value float64 // unused when Kind == ActionDiscard
}
