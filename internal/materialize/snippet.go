// Package materialize implements the result materialiser of §4.F: stored
// field retrieval for the top pointers a collection produced, plus snippet
// generation.
package materialize

import (
	"strings"
	"unicode"
)

// Snippet policy constants, ported from the source's Snippet config block
// (§4.F; original_source/crates/core/src/config/defaults.rs).
const (
	emptyQuerySnippetWords = 50
	minDescriptionWords    = 10
	minBodyLength          = 256
	minBodyLengthHomepage  = 1024
	desiredNumChars        = 275
	deltaNumChars          = 50
	minPassageWidth        = 20
)

const highlightStart = "‹"
const highlightEnd = "›"

// BuildSnippet chooses a source (body vs description) and extracts a
// highlighted passage, following §4.F's three-step policy.
func BuildSnippet(body, description string, simpleTerms []string, isHomepage bool) string {
	if len(simpleTerms) == 0 {
		words := firstNWords(description, emptyQuerySnippetWords)
		if wordCount(words) < minDescriptionWords {
			words = firstNWords(body, emptyQuerySnippetWords)
		}
		return words
	}

	minBody := minBodyLength
	if isHomepage {
		minBody = minBodyLengthHomepage
	}
	source := body
	if wordCount(body) < minBody && wordCount(description) >= minDescriptionWords {
		source = description
	}
	return highlightPassage(source, simpleTerms)
}

func firstNWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

type wordSpan struct {
	text  string
	start int
	end   int
}

func tokenizeWithOffsets(text string) []wordSpan {
	var spans []wordSpan
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, wordSpan{text: text[start:i], start: start, end: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, wordSpan{text: text[start:], start: start, end: len(text)})
	}
	return spans
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

// highlightPassage scores sliding word windows against terms (a BM25-like
// count of matched tokens per window) and returns the best-scoring window,
// sized to desiredNumChars ± deltaNumChars and at least minPassageWidth
// characters, with matched tokens wrapped in highlight markers.
func highlightPassage(source string, terms []string) string {
	words := tokenizeWithOffsets(source)
	if len(words) == 0 {
		return ""
	}

	termSet := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		termSet[strings.ToLower(t)] = struct{}{}
	}

	bestI, bestJ, bestScore := 0, len(words)-1, -1
	for i := range words {
		j := i
		score := 0
		if _, ok := termSet[normalizeWord(words[i].text)]; ok {
			score++
		}
		for j+1 < len(words) && words[j+1].end-words[i].start <= desiredNumChars+deltaNumChars {
			j++
			if _, ok := termSet[normalizeWord(words[j].text)]; ok {
				score++
			}
		}
		width := words[j].end - words[i].start
		if width < minPassageWidth {
			continue
		}
		distance := abs(width - desiredNumChars)
		bestWidth := words[bestJ].end - words[bestI].start
		bestDistance := abs(bestWidth - desiredNumChars)
		if score > bestScore || (score == bestScore && distance < bestDistance) {
			bestI, bestJ, bestScore = i, j, score
		}
	}

	var b strings.Builder
	for k := bestI; k <= bestJ; k++ {
		if k > bestI {
			b.WriteByte(' ')
		}
		w := words[k]
		if _, ok := termSet[normalizeWord(w.text)]; ok {
			b.WriteString(highlightStart)
			b.WriteString(w.text)
			b.WriteString(highlightEnd)
		} else {
			b.WriteString(w.text)
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
