package materialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSnippet_EmptyQueryUsesDescription(t *testing.T) {
	description := strings.Repeat("word ", 20)
	body := "unrelated body text"
	got := BuildSnippet(body, description, nil, false)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("word ", 20)), got)
}

func TestBuildSnippet_EmptyQueryFallsBackToBodyWhenDescriptionTooShort(t *testing.T) {
	description := "too short"
	body := strings.Repeat("body ", 60)
	got := BuildSnippet(body, description, nil, false)
	assert.Contains(t, got, "body")
	assert.NotContains(t, got, "too short")
}

func TestBuildSnippet_ShortBodyUsesDescriptionWhenLongEnough(t *testing.T) {
	body := "short body under the threshold"
	description := strings.Repeat("desc ", 15) + "go"
	got := BuildSnippet(body, description, []string{"go"}, false)
	assert.Contains(t, got, "go")
}

func TestBuildSnippet_LongBodyPrefersBody(t *testing.T) {
	body := strings.Repeat("filler ", 300) + "golang"
	description := strings.Repeat("desc ", 15)
	got := BuildSnippet(body, description, []string{"golang"}, false)
	assert.Contains(t, got, "golang")
}

func TestBuildSnippet_HighlightsMatchedTerms(t *testing.T) {
	body := "the quick brown fox jumps over the lazy dog"
	got := highlightPassage(body, []string{"fox"})
	assert.Contains(t, got, highlightStart+"fox"+highlightEnd)
}

func TestBuildSnippet_HomepageUsesHigherBodyThreshold(t *testing.T) {
	body := strings.Repeat("word ", 500) // fewer than 1024 words but more than 256
	description := strings.Repeat("desc ", 15) + "target"
	got := BuildSnippet(body, description, []string{"target"}, true)
	assert.Contains(t, got, "target")
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 3, wordCount("one two three"))
	assert.Equal(t, 0, wordCount(""))
}
