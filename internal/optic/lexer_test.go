package optic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token) []tokenKind {
	ks := make([]tokenKind, len(toks))
	for i, t := range toks {
		ks[i] = t.kind
	}
	return ks
}

func TestLex_Punctuation(t *testing.T) {
	toks, err := lex("(){};,=>")
	require.NoError(t, err)
	assert.Equal(t, []tokenKind{
		tokLParen, tokRParen, tokLBrace, tokRBrace, tokSemicolon, tokComma, tokArrow, tokEOF,
	}, kinds(toks))
}

func TestLex_StringLiteral(t *testing.T) {
	toks, err := lex(`"hello world"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, tokString, toks[0].kind)
	assert.Equal(t, "hello world", toks[0].text)
}

func TestLex_UnterminatedStringErrors(t *testing.T) {
	_, err := lex(`"hello`)
	assert.Error(t, err)
}

func TestLex_NumberLiterals(t *testing.T) {
	toks, err := lex("1 2.5 -3 -0.25")
	require.NoError(t, err)
	require.Len(t, toks, 5) // 4 numbers + EOF
	assert.Equal(t, 1.0, toks[0].num)
	assert.Equal(t, 2.5, toks[1].num)
	assert.Equal(t, -3.0, toks[2].num)
	assert.Equal(t, -0.25, toks[3].num)
}

func TestLex_Identifiers(t *testing.T) {
	toks, err := lex("Rule Matches_Block2")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "Rule", toks[0].text)
	assert.Equal(t, "Matches_Block2", toks[1].text)
}

func TestLex_UnexpectedCharacterErrors(t *testing.T) {
	_, err := lex("@")
	assert.Error(t, err)
}

func TestLex_SkipsWhitespace(t *testing.T) {
	toks, err := lex("  Rule  \n\t {}")
	require.NoError(t, err)
	assert.Equal(t, []tokenKind{tokIdent, tokLBrace, tokRBrace, tokEOF}, kinds(toks))
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "Rule", token{kind: tokIdent, text: "Rule"}.String())
	assert.Equal(t, `"hi"`, token{kind: tokString, text: "hi"}.String())
	assert.Equal(t, "5", token{kind: tokNumber, text: "5"}.String())
	assert.Equal(t, "<eof>", token{kind: tokEOF}.String())
	assert.Equal(t, "<symbol>", token{kind: tokLParen}.String())
}
