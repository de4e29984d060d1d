package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/wyvern/internal/errs"
)

// dedupCap is the maximum number of occurrences of an exact-duplicate bare
// term kept before further copies are silently discarded (§4.C "prevents
// adversarial `the the the …` amplification").
const dedupCap = 10

// Parse tokenizes raw per §4.C: whitespace-separated, `"`-quoted phrases,
// site:/inurl:/intitle: field operators (optionally `-`-negated), and bare
// `-`-prefixed must-not terms. The only parse failure is invalid UTF-8; an
// unterminated phrase silently extends to end-of-input rather than erroring.
func Parse(raw string) (*ParsedQuery, error) {
	if !utf8.ValidString(raw) {
		return nil, errs.New(errs.InvalidQuery, "query is not valid UTF-8")
	}

	pq := &ParsedQuery{}
	counts := make(map[string]int)
	runes := []rune(raw)
	i := 0

	for i < len(runes) {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}

		if runes[i] == '"' {
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			phrase := string(runes[i+1 : j])
			if j < len(runes) {
				j++ // consume closing quote
			}
			i = j
			if terms := strings.Fields(phrase); len(terms) > 0 {
				pq.Phrases = append(pq.Phrases, &PhraseTerm{Terms: terms})
			}
			continue
		}

		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		tok := string(runes[i:j])
		i = j
		if tok == "" {
			continue
		}

		negate := strings.HasPrefix(tok, "-")
		body := tok
		if negate {
			body = body[1:]
		}
		if body == "" {
			continue
		}

		if field, pattern, ok := splitFieldOperator(body); ok {
			pq.FieldOps = append(pq.FieldOps, &FieldOperator{Field: field, Pattern: pattern, Negate: negate})
			continue
		}

		if counts[body] >= dedupCap {
			continue
		}
		counts[body]++

		if negate {
			pq.MustNot = append(pq.MustNot, &SimpleTerm{Text: body})
		} else {
			pq.Simple = append(pq.Simple, &SimpleTerm{Text: body})
		}
	}

	computeCompounds(pq.Simple)
	return pq, nil
}

func splitFieldOperator(tok string) (OperatorField, string, bool) {
	switch {
	case strings.HasPrefix(tok, "site:"):
		return OperatorSite, tok[len("site:"):], true
	case strings.HasPrefix(tok, "inurl:"):
		return OperatorURL, tok[len("inurl:"):], true
	case strings.HasPrefix(tok, "intitle:"):
		return OperatorTitle, tok[len("intitle:"):], true
	default:
		return 0, "", false
	}
}

// computeCompounds records, on each simple term, the bigram and trigram
// formed with its neighbours in the parsed order (§4.C "Compound-term
// adjacency"): sliding windows of width 2 and 3 over the simple terms.
func computeCompounds(terms []*SimpleTerm) {
	n := len(terms)
	for i := 0; i < n; i++ {
		if i+1 < n {
			bigram := terms[i].Text + terms[i+1].Text
			terms[i].Bigrams = append(terms[i].Bigrams, bigram)
			terms[i+1].Bigrams = append(terms[i+1].Bigrams, bigram)
		}
		if i+2 < n {
			trigram := terms[i].Text + terms[i+1].Text + terms[i+2].Text
			terms[i].Trigrams = append(terms[i].Trigrams, trigram)
			terms[i+1].Trigrams = append(terms[i+1].Trigrams, trigram)
			terms[i+2].Trigrams = append(terms[i+2].Trigrams, trigram)
		}
	}
}
