// Package operator implements the compiled operator tree that both the
// query compiler (§4.C) and the optic compiler (§4.D) produce and the
// collector (§4.E) evaluates: Must, Should, MustNot, Const, Pattern, Union,
// and ShortCircuit.
//
// Every node compiles to a bleve query.Query for retrieval against a
// segment's index; Const and ShortCircuit additionally carry a scoring
// annotation (a boost/downrank coefficient, a per-segment scan budget) that
// has no bleve equivalent and is read directly by the ranking package.
//
// Must/Should/MustNot/Const/ShortCircuit are a closed set dispatched by type
// switch on the hot path (§9 "closed sum type with static dispatch");
// Pattern and Union additionally satisfy Evaluator so new match-time
// behaviour can be added without touching that switch.
package operator

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Kind identifies a node's concrete operator for the static-dispatch switch.
type Kind int

const (
	KindMust Kind = iota
	KindShould
	KindMustNot
	KindConst
	KindPattern
	KindUnion
	KindShortCircuit
	KindLeaf
)

// Node is any compiled operator. Concrete types are *Must, *Should,
// *MustNot, *Const, *Pattern, *Union, *ShortCircuit.
type Node interface {
	Kind() Kind
	Query() query.Query
}

// Must is the AND of its children (§4.C "top-level operator is an AND").
type Must struct {
	Children []Node
}

func (m *Must) Kind() Kind { return KindMust }

func (m *Must) Query() query.Query {
	qs := make([]query.Query, len(m.Children))
	for i, c := range m.Children {
		qs[i] = c.Query()
	}
	return bleve.NewConjunctionQuery(qs...)
}

// Should is a weighted OR: each child's match contributes its score scaled
// by Weight (parallel slice) to the sum (§4.C per-field weights).
type Should struct {
	Children []Node
	Weights  []float64
}

func (s *Should) Kind() Kind { return KindShould }

func (s *Should) Query() query.Query {
	qs := make([]query.Query, len(s.Children))
	for i, c := range s.Children {
		q := c.Query()
		if boostable, ok := q.(query.BoostableQuery); ok && i < len(s.Weights) && s.Weights[i] != 0 {
			boostable.SetBoost(s.Weights[i])
		}
		qs[i] = q
	}
	return bleve.NewDisjunctionQuery(qs...)
}

// MustNot negates Child: a document matches only if Child does not.
type MustNot struct {
	Child Node
}

func (n *MustNot) Kind() Kind { return KindMustNot }

func (n *MustNot) Query() query.Query {
	b := bleve.NewBooleanQuery()
	b.AddMustNot(n.Child.Query())
	// bleve's BooleanQuery requires at least one Must/Should clause to be a
	// valid query; a bare must-not (e.g. the root safe-search filter) is
	// paired with MatchAll so the must-not is the only discriminating clause.
	b.AddMust(bleve.NewMatchAllQuery())
	return b
}

// Const wraps Child with a coefficient contributed by an optic Action
// (Boost(b) -> +b, Downrank(b) -> -b; §4.D "Compilation"). The coefficient
// has no bleve equivalent and is read by the ranking package directly,
// outside of Query()'s bleve.BoostableQuery mechanism.
type Const struct {
	Child       Node
	Coefficient float64
}

func (c *Const) Kind() Kind { return KindConst }

func (c *Const) Query() query.Query { return c.Child.Query() }

// ShortCircuit wraps Child with a per-segment scan budget (§4.E, §5
// "short-circuit operator"). bleve has no incremental scan-abort API, so the
// collector approximates this by capping the per-segment SearchRequest.Size
// at MaxDocs rather than truly aborting mid-scan; see internal/ranking.
type ShortCircuit struct {
	Child   Node
	MaxDocs int
}

func (s *ShortCircuit) Kind() Kind { return KindShortCircuit }

func (s *ShortCircuit) Query() query.Query { return s.Child.Query() }

// Leaf wraps a single bleve query.Query as a Node, for the bottom of the
// tree where a term/phrase/field match is compiled directly and needs no
// further operator semantics.
type Leaf struct {
	Q query.Query
}

func (l *Leaf) Kind() Kind { return KindLeaf }

func (l *Leaf) Query() query.Query { return l.Q }
