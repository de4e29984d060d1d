package operator

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Union is an existential OR over its children: a Rule's k Matches blocks
// (§4.D "compiles to a should-OR over k field-pattern operators") or the
// DiscardNonMatching wrapper over every non-discard rule ("at least one rule
// must match"). Unlike Should, Union carries no per-child weight: it is a
// gate, not a scoring contributor.
type Union struct {
	Children []Node
}

func (u *Union) Kind() Kind { return KindUnion }

func (u *Union) Query() query.Query {
	if len(u.Children) == 0 {
		return bleve.NewMatchNoneQuery()
	}
	qs := make([]query.Query, len(u.Children))
	for i, c := range u.Children {
		qs[i] = c.Query()
	}
	d := bleve.NewDisjunctionQuery(qs...)
	d.SetMin(1)
	return d
}

// Evaluate reports whether at least one child matches fields. Each child is
// re-checked through Eval, so a Pattern nested under a Const or Must keeps
// its anchor check; a child with no Evaluator beneath it (a Leaf) counts as
// matched, its membership in the bleve hit set being its evidence.
func (u *Union) Evaluate(fields FieldSource) bool {
	for _, c := range u.Children {
		if ok, _ := Eval(c, fields); ok {
			return true
		}
	}
	return false
}
