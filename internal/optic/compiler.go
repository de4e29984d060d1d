package optic

import (
	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/operator"
	"github.com/hyperjump/wyvern/internal/schema"
)

// Compiled is the result of compiling one optic Program: extra operators to
// append to the query's root Must, and the summed Ranking{} signal
// coefficients (§4.D "merged across multiple optics by summation").
type Compiled struct {
	Operators    []operator.Node
	Coefficients map[string]float64
}

// Compile compiles prog against hr, which accumulates this optic's
// Like/Dislike/Block statements by side effect so callers can merge
// multiple optics' host rankings by repeated calls before finalising a
// query (§4.D "Multiple optics").
func Compile(prog *Program, hr *model.HostRankings) *Compiled {
	c := &Compiled{Coefficients: map[string]float64{}}

	var (
		keepers            []operator.Node
		discards           []operator.Node
		discardNonMatching bool
	)

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *DiscardNonMatching:
			discardNonMatching = true

		case *Like:
			hr.Like(s.Site)
		case *Dislike:
			hr.Dislike(s.Site)
		case *Block:
			hr.Block(s.Site)
			discards = append(discards, sitePattern(s.Site))

		case *RankingBlock:
			for _, rc := range s.Coeffs {
				c.Coefficients[rc.Signal] += rc.Value
			}

		case *Rule:
			node := compileRuleMatch(s)
			if node == nil {
				// Pruned: a Matches block reduced to zero matchers after
				// dropping degenerate (empty/"|"-only) patterns (§9 "prune
				// the rule").
				continue
			}
			if s.Action == nil {
				keepers = append(keepers, node) // default Boost(0): a keeper with no score effect.
				continue
			}
			switch s.Action.Kind {
			case ActionBoost:
				keepers = append(keepers, &operator.Const{Child: node, Coefficient: s.Action.Value})
			case ActionDownrank:
				keepers = append(keepers, &operator.Const{Child: node, Coefficient: -s.Action.Value})
			case ActionDiscard:
				discards = append(discards, node)
			}
		}
	}

	// A discard always wins over a keep: must-not clauses sit at the outer
	// level regardless of DiscardNonMatching (§4.D "Compilation").
	for _, d := range discards {
		c.Operators = append(c.Operators, &operator.MustNot{Child: d})
	}

	switch {
	case discardNonMatching && len(keepers) > 0:
		c.Operators = append(c.Operators, &operator.Union{Children: keepers})
	case len(keepers) > 0:
		// Without DiscardNonMatching, keeper rules contribute their
		// boost/downrank as optional signals and never gate a result.
		weights := make([]float64, len(keepers))
		for i := range weights {
			weights[i] = 1.0
		}
		c.Operators = append(c.Operators, &operator.Should{Children: keepers, Weights: weights})
	}

	return c
}

// compileRuleMatch compiles one Rule's Matches blocks into a should-OR of
// field-pattern conjunctions (§4.D "compiles to a should-OR over k
// field-pattern operators"). Degenerate (empty/"|"-only) patterns have no
// effect and are dropped from their block; a block left with zero matchers
// empties the whole rule (returns nil, see Compile's prune-the-rule branch).
func compileRuleMatch(rule *Rule) operator.Node {
	var blockNodes []operator.Node
	for _, block := range rule.MatchesBlocks {
		var matchers []operator.Node
		for _, m := range block {
			for _, node := range compileMatching(m) {
				if !isDegenerate(node) {
					matchers = append(matchers, node)
				}
			}
		}
		if len(matchers) == 0 {
			return nil
		}
		if len(matchers) == 1 {
			blockNodes = append(blockNodes, matchers[0])
		} else {
			blockNodes = append(blockNodes, &operator.Must{Children: matchers})
		}
	}
	if len(blockNodes) == 1 {
		return blockNodes[0]
	}
	return &operator.Union{Children: blockNodes}
}

// compileMatching expands one location(pattern) matcher into one Pattern
// node per target field, per §4.D's "Default-field targets" (Description
// unions Description and DmozDescription).
func compileMatching(m Matching) []operator.Node {
	switch m.Location {
	case LocationSite:
		return []operator.Node{operator.NewPattern(schema.FieldUrlForSiteOperator, m.Pattern)}
	case LocationURL:
		return []operator.Node{operator.NewPattern(schema.FieldURL, m.Pattern)}
	case LocationDomain:
		return []operator.Node{operator.NewPattern(schema.FieldDomain, m.Pattern)}
	case LocationTitle:
		return []operator.Node{operator.NewPattern(schema.FieldTitle, m.Pattern)}
	case LocationDescription:
		return []operator.Node{
			&operator.Union{Children: []operator.Node{
				operator.NewPattern(schema.FieldDescription, m.Pattern),
				operator.NewPattern(schema.FieldDmozDescription, m.Pattern),
			}},
		}
	case LocationContent:
		return []operator.Node{operator.NewPattern(schema.FieldCleanBody, m.Pattern)}
	case LocationSchema:
		return []operator.Node{operator.NewPattern(schema.FieldFlattenedSchemaOrg, m.Pattern)}
	case LocationMicroformatTag:
		return []operator.Node{operator.NewPattern(schema.FieldMicroformatTags, m.Pattern)}
	default:
		return nil
	}
}

// isDegenerate reports whether node is a Pattern (directly, or the sole kind
// wrapped by a location's Union expansion) that compiled to zero groups —
// i.e. an empty or "|"-only stringPattern, which "matches nothing (no
// effect)" per §4.D and so is dropped rather than treated as a real matcher.
func isDegenerate(node operator.Node) bool {
	switch n := node.(type) {
	case *operator.Pattern:
		return len(n.Groups) == 0
	case *operator.Union:
		for _, c := range n.Children {
			if !isDegenerate(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// sitePattern compiles a Like/Dislike/Block(Site(s)) target into the same
// site-operator pattern match used by query-level site: operators.
func sitePattern(site string) operator.Node {
	return operator.NewPattern(schema.FieldUrlForSiteOperator, site)
}
