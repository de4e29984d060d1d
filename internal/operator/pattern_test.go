package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blevesearch/bleve/v2/search/query"
)

type fakeFields map[string]string

func (f fakeFields) Field(name string) string { return f[name] }

func TestNewPattern_EmptyCompilesToNoMatch(t *testing.T) {
	p := NewPattern("title", "")
	assert.Empty(t, p.Groups)
	assert.False(t, p.Evaluate(fakeFields{"title": "anything"}))
	_, ok := p.Query().(*query.MatchNoneQuery)
	assert.True(t, ok)
}

func TestNewPattern_BareAnchorsCompileToNoMatch(t *testing.T) {
	p := NewPattern("title", "|  |")
	assert.Empty(t, p.Groups)
}

func TestNewPattern_SingleGroupNoWildcard(t *testing.T) {
	p := NewPattern("title", "hello world")
	require.Len(t, p.Groups, 1)
	assert.Equal(t, []string{"hello", "world"}, p.Groups[0])
	assert.False(t, p.Anchors.Start)
	assert.False(t, p.Anchors.End)
}

func TestNewPattern_WildcardSplitsGroups(t *testing.T) {
	p := NewPattern("title", "hello * world")
	require.Len(t, p.Groups, 2)
	assert.Equal(t, []string{"hello"}, p.Groups[0])
	assert.Equal(t, []string{"world"}, p.Groups[1])
}

func TestNewPattern_LeadingAndTrailingAnchors(t *testing.T) {
	p := NewPattern("title", "| hello * world |")
	assert.True(t, p.Anchors.Start)
	assert.True(t, p.Anchors.End)
	require.Len(t, p.Groups, 2)
}

func TestPattern_Evaluate_MatchesContiguousGroup(t *testing.T) {
	p := NewPattern("title", "hello world")
	assert.True(t, p.Evaluate(fakeFields{"title": "say hello world now"}))
	assert.False(t, p.Evaluate(fakeFields{"title": "say hello there world"}))
}

func TestPattern_Evaluate_WildcardAllowsGap(t *testing.T) {
	p := NewPattern("title", "hello * world")
	assert.True(t, p.Evaluate(fakeFields{"title": "hello cruel world"}))
	assert.True(t, p.Evaluate(fakeFields{"title": "hello world"}))
	assert.False(t, p.Evaluate(fakeFields{"title": "world hello"}))
}

func TestPattern_Evaluate_StartAnchorRequiresFirstPosition(t *testing.T) {
	p := NewPattern("title", "| hello")
	assert.True(t, p.Evaluate(fakeFields{"title": "hello world"}))
	assert.False(t, p.Evaluate(fakeFields{"title": "say hello world"}))
}

func TestPattern_Evaluate_EndAnchorRequiresLastPosition(t *testing.T) {
	p := NewPattern("title", "world |")
	assert.True(t, p.Evaluate(fakeFields{"title": "hello world"}))
	assert.False(t, p.Evaluate(fakeFields{"title": "world hello"}))
}

func TestPattern_Evaluate_CaseInsensitive(t *testing.T) {
	p := NewPattern("title", "Hello World")
	assert.True(t, p.Evaluate(fakeFields{"title": "HELLO WORLD"}))
}

func TestPattern_Evaluate_EmptyFieldNeverMatches(t *testing.T) {
	p := NewPattern("title", "hello")
	assert.False(t, p.Evaluate(fakeFields{"title": ""}))
}

func TestPattern_Query_SingleGroupIsPhrase(t *testing.T) {
	p := NewPattern("title", "hello world")
	_, ok := p.Query().(*query.MatchPhraseQuery)
	assert.True(t, ok)
}

func TestPattern_Query_MultipleGroupsAreConjoined(t *testing.T) {
	p := NewPattern("title", "hello * world")
	_, ok := p.Query().(*query.ConjunctionQuery)
	assert.True(t, ok)
}

func TestPattern_Kind(t *testing.T) {
	p := NewPattern("title", "hello")
	assert.Equal(t, KindPattern, p.Kind())
}
