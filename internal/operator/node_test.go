package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

func leafTerm(field, term string) *Leaf {
	q := bleve.NewMatchQuery(term)
	q.SetField(field)
	return &Leaf{Q: q}
}

func TestMust_Query_IsConjunction(t *testing.T) {
	m := &Must{Children: []Node{leafTerm("title", "a"), leafTerm("body", "b")}}
	assert.Equal(t, KindMust, m.Kind())
	q, ok := m.Query().(*query.ConjunctionQuery)
	require.True(t, ok)
	assert.Len(t, q.Conjuncts, 2)
}

func TestShould_Query_AppliesWeights(t *testing.T) {
	s := &Should{
		Children: []Node{leafTerm("title", "a"), leafTerm("body", "b")},
		Weights:  []float64{2.5, 0},
	}
	assert.Equal(t, KindShould, s.Kind())
	q, ok := s.Query().(*query.DisjunctionQuery)
	require.True(t, ok)
	require.Len(t, q.Disjuncts, 2)
	_, boostable := q.Disjuncts[0].(query.BoostableQuery)
	assert.True(t, boostable, "a weighted child's compiled query must be boostable")
}

func TestShould_Query_SkipsZeroWeight(t *testing.T) {
	// A zero weight (including an out-of-range index) leaves the child's
	// default boost untouched rather than forcing it to zero.
	s := &Should{
		Children: []Node{leafTerm("title", "a")},
		Weights:  []float64{0},
	}
	q, ok := s.Query().(*query.DisjunctionQuery)
	require.True(t, ok)
	require.Len(t, q.Disjuncts, 1)
}

func TestShould_EmptyChildren(t *testing.T) {
	s := &Should{}
	q, ok := s.Query().(*query.DisjunctionQuery)
	require.True(t, ok)
	assert.Len(t, q.Disjuncts, 0)
}

func TestMustNot_Query_PairsWithMatchAll(t *testing.T) {
	n := &MustNot{Child: leafTerm("title", "spam")}
	assert.Equal(t, KindMustNot, n.Kind())
	q, ok := n.Query().(*query.BooleanQuery)
	require.True(t, ok)
	assert.NotNil(t, q.Must)
	assert.NotNil(t, q.MustNot)
}

func TestConst_Query_DelegatesToChild(t *testing.T) {
	child := leafTerm("title", "a")
	c := &Const{Child: child, Coefficient: 3}
	assert.Equal(t, KindConst, c.Kind())
	assert.Equal(t, child.Query(), c.Query())
}

func TestShortCircuit_Query_DelegatesToChild(t *testing.T) {
	child := leafTerm("title", "a")
	s := &ShortCircuit{Child: child, MaxDocs: 10}
	assert.Equal(t, KindShortCircuit, s.Kind())
	assert.Equal(t, child.Query(), s.Query())
}

func TestLeaf_Kind(t *testing.T) {
	l := leafTerm("title", "a")
	assert.Equal(t, KindLeaf, l.Kind())
}
