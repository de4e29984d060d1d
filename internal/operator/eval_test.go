package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEval_Must_AllChildrenMustMatch(t *testing.T) {
	m := &Must{Children: []Node{
		NewPattern("title", "hello"),
		NewPattern("title", "world"),
	}}
	ok, _ := Eval(m, fakeFields{"title": "hello world"})
	assert.True(t, ok)

	ok, _ = Eval(m, fakeFields{"title": "hello there"})
	assert.False(t, ok)
}

func TestEval_Must_SumsBoosts(t *testing.T) {
	m := &Must{Children: []Node{
		&Const{Child: &Leaf{}, Coefficient: 2},
		&Const{Child: &Leaf{}, Coefficient: 3},
	}}
	ok, boost := Eval(m, fakeFields{})
	assert.True(t, ok)
	assert.Equal(t, 5.0, boost)
}

func TestEval_Should_AnyChildMatches(t *testing.T) {
	s := &Should{Children: []Node{
		NewPattern("title", "nomatch"),
		NewPattern("title", "hello"),
	}}
	ok, _ := Eval(s, fakeFields{"title": "hello world"})
	assert.True(t, ok)
}

func TestEval_Should_EmptyChildrenMatches(t *testing.T) {
	s := &Should{}
	ok, _ := Eval(s, fakeFields{})
	assert.True(t, ok)
}

func TestEval_MustNot_InvertsChild(t *testing.T) {
	n := &MustNot{Child: NewPattern("title", "spam")}
	ok, boost := Eval(n, fakeFields{"title": "clean content"})
	assert.True(t, ok)
	assert.Equal(t, 0.0, boost)

	ok, _ = Eval(n, fakeFields{"title": "spam content"})
	assert.False(t, ok)
}

func TestEval_Const_AddsCoefficientOnlyWhenMatched(t *testing.T) {
	c := &Const{Child: NewPattern("title", "hello"), Coefficient: 4}
	ok, boost := Eval(c, fakeFields{"title": "hello world"})
	assert.True(t, ok)
	assert.Equal(t, 4.0, boost)

	ok, boost = Eval(c, fakeFields{"title": "nothing"})
	assert.False(t, ok)
	assert.Equal(t, 0.0, boost)
}

func TestEval_ShortCircuit_DelegatesToChild(t *testing.T) {
	s := &ShortCircuit{Child: NewPattern("title", "hello"), MaxDocs: 5}
	ok, _ := Eval(s, fakeFields{"title": "hello world"})
	assert.True(t, ok)
}

func TestEval_Leaf_AlwaysMatches(t *testing.T) {
	ok, boost := Eval(&Leaf{}, fakeFields{})
	assert.True(t, ok)
	assert.Equal(t, 0.0, boost)
}

func TestEval_Union_DelegatesToEvaluate(t *testing.T) {
	u := &Union{Children: []Node{NewPattern("title", "hello")}}
	ok, boost := Eval(u, fakeFields{"title": "hello world"})
	assert.True(t, ok)
	assert.Equal(t, 0.0, boost)
}

func TestEval_NestedTree(t *testing.T) {
	tree := &Must{Children: []Node{
		&Const{Child: NewPattern("title", "hello"), Coefficient: 1},
		&MustNot{Child: NewPattern("title", "spam")},
		&Union{Children: []Node{NewPattern("body", "x"), NewPattern("body", "y")}},
	}}
	ok, boost := Eval(tree, fakeFields{"title": "hello world", "body": "contains y here"})
	assert.True(t, ok)
	assert.Equal(t, 1.0, boost)

	ok, _ = Eval(tree, fakeFields{"title": "hello world", "body": "contains neither"})
	assert.False(t, ok)
}
