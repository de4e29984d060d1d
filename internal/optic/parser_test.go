package optic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DiscardNonMatching(t *testing.T) {
	prog, err := Parse("DiscardNonMatching;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	_, ok := prog.Statements[0].(*DiscardNonMatching)
	assert.True(t, ok)
}

func TestParse_LikeDislikeBlock(t *testing.T) {
	prog, err := Parse(`Like(Site("good.example")); Dislike(Site("meh.example")); Block(Site("bad.example"));`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)
	like, ok := prog.Statements[0].(*Like)
	require.True(t, ok)
	assert.Equal(t, "good.example", like.Site)
	dislike, ok := prog.Statements[1].(*Dislike)
	require.True(t, ok)
	assert.Equal(t, "meh.example", dislike.Site)
	block, ok := prog.Statements[2].(*Block)
	require.True(t, ok)
	assert.Equal(t, "bad.example", block.Site)
}

func TestParse_RankingBlock(t *testing.T) {
	prog, err := Parse(`Ranking { Signal("host_centrality") => 1.5; Signal("page_centrality") => 0.25 }`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	rb, ok := prog.Statements[0].(*RankingBlock)
	require.True(t, ok)
	require.Len(t, rb.Coeffs, 2)
	assert.Equal(t, "host_centrality", rb.Coeffs[0].Signal)
	assert.Equal(t, 1.5, rb.Coeffs[0].Value)
}

func TestParse_RankingBlock_RequiresAtLeastOneSignal(t *testing.T) {
	_, err := Parse(`Ranking {}`)
	assert.Error(t, err)
}

func TestParse_RuleWithMatchesAndBoostAction(t *testing.T) {
	prog, err := Parse(`Rule { Matches { Domain("example.com") }, Action(Boost(5)) }`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	rule, ok := prog.Statements[0].(*Rule)
	require.True(t, ok)
	require.Len(t, rule.MatchesBlocks, 1)
	require.Len(t, rule.MatchesBlocks[0], 1)
	assert.Equal(t, LocationDomain, rule.MatchesBlocks[0][0].Location)
	assert.Equal(t, "example.com", rule.MatchesBlocks[0][0].Pattern)
	require.NotNil(t, rule.Action)
	assert.Equal(t, ActionBoost, rule.Action.Kind)
	assert.Equal(t, 5.0, rule.Action.Value)
}

func TestParse_RuleWithMultipleMatchesBlocks(t *testing.T) {
	prog, err := Parse(`Rule { Matches { Title("cats") } Matches { Title("dogs") } }`)
	require.NoError(t, err)
	rule := prog.Statements[0].(*Rule)
	assert.Len(t, rule.MatchesBlocks, 2)
	assert.Nil(t, rule.Action)
}

func TestParse_RuleWithDiscardAction(t *testing.T) {
	prog, err := Parse(`Rule { Matches { Url("spammy") }, Action(Discard) }`)
	require.NoError(t, err)
	rule := prog.Statements[0].(*Rule)
	require.NotNil(t, rule.Action)
	assert.Equal(t, ActionDiscard, rule.Action.Kind)
}

func TestParse_RuleRequiresAtLeastOneMatchesBlock(t *testing.T) {
	_, err := Parse(`Rule { }`)
	assert.Error(t, err)
}

func TestParse_UnknownLocationErrors(t *testing.T) {
	_, err := Parse(`Rule { Matches { Bogus("x") } }`)
	assert.Error(t, err)
}

func TestParse_UnknownStatementErrors(t *testing.T) {
	_, err := Parse(`Bogus()`)
	assert.Error(t, err)
}

func TestParse_MultipleStatementsWithOptionalTrailingSemicolon(t *testing.T) {
	prog, err := Parse(`DiscardNonMatching; Like(Site("a.example"))`)
	require.NoError(t, err)
	assert.Len(t, prog.Statements, 2)
}

func TestParse_MissingSemicolonBetweenStatementsErrors(t *testing.T) {
	_, err := Parse(`DiscardNonMatching Like(Site("a.example"))`)
	assert.Error(t, err)
}

func TestParse_AllLocationNames(t *testing.T) {
	for name, want := range locationNames {
		prog, err := Parse(`Rule { Matches { ` + name + `("x") } }`)
		require.NoError(t, err, name)
		rule := prog.Statements[0].(*Rule)
		assert.Equal(t, want, rule.MatchesBlocks[0][0].Location, name)
	}
}
