package operator

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Evaluator is satisfied by node kinds whose match decision needs per-
// document interpretation beyond what a compiled bleve query can express:
// Pattern's anchor semantics and Union's existential "at least one matched"
// gating for DiscardNonMatching (§4.D, §9 "pattern/union remain dynamic").
type Evaluator interface {
	Node
	Evaluate(fields FieldSource) bool
}

// FieldSource looks up a document's raw (untokenized) field value by name,
// as needed to re-check Pattern anchors after bleve retrieval. Implemented
// by an adapter over store.StoredFields in the ranking package.
type FieldSource interface {
	Field(name string) string
}

// Pattern compiles one stringPattern location(...) matcher of §4.D: a
// sequence of literal token groups separated by '*' wildcard gaps, optionally
// anchored to the start and/or end of the field value by a leading/trailing
// '|'.
type Pattern struct {
	Field   string
	Source  string // original pattern text, kept for diagnostics
	Groups  [][]string
	Anchors struct {
		Start bool
		End   bool
	}
}

// NewPattern compiles raw into a Pattern matched against field. An empty
// pattern, or one containing only '|', compiles to a Pattern with zero
// groups, which never matches (§4.D "matches nothing (no effect)").
func NewPattern(field, raw string) *Pattern {
	p := &Pattern{Field: field, Source: raw}

	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return p
	}
	if tokens[0] == "|" {
		p.Anchors.Start = true
		tokens = tokens[1:]
	}
	if len(tokens) > 0 && tokens[len(tokens)-1] == "|" {
		p.Anchors.End = true
		tokens = tokens[:len(tokens)-1]
	}

	var group []string
	for _, t := range tokens {
		if t == "*" {
			if len(group) > 0 {
				p.Groups = append(p.Groups, group)
				group = nil
			}
			continue
		}
		group = append(group, t)
	}
	if len(group) > 0 {
		p.Groups = append(p.Groups, group)
	}
	return p
}

func (p *Pattern) Kind() Kind { return KindPattern }

// Query compiles the groups into a phrase-conjunction: each literal group
// becomes a phrase match, groups are conjoined since bleve has no native
// "ordered gap" operator. Anchor precision ('|') is not expressible in a
// bleve query at all; Evaluate re-checks it exactly against the stored raw
// field value once a candidate is retrieved.
func (p *Pattern) Query() query.Query {
	if len(p.Groups) == 0 {
		return bleve.NewMatchNoneQuery()
	}
	if len(p.Groups) == 1 {
		return p.phraseQuery(p.Groups[0])
	}
	qs := make([]query.Query, len(p.Groups))
	for i, g := range p.Groups {
		qs[i] = p.phraseQuery(g)
	}
	return bleve.NewConjunctionQuery(qs...)
}

func (p *Pattern) phraseQuery(group []string) query.Query {
	q := bleve.NewMatchPhraseQuery(strings.Join(group, " "))
	q.SetField(p.Field)
	return q
}

// Evaluate re-checks the pattern against the raw (whitespace-tokenized) text
// of p.Field in fields, enforcing the '|' anchors that Query() cannot
// express.
func (p *Pattern) Evaluate(fields FieldSource) bool {
	if len(p.Groups) == 0 {
		return false
	}
	words := strings.Fields(fields.Field(p.Field))
	if len(words) == 0 {
		return false
	}

	pos := 0
	for gi, group := range p.Groups {
		idx := indexSubsequence(words, pos, group)
		if gi == len(p.Groups)-1 && p.Anchors.End {
			// An end-anchored last group must sit at the very end of the
			// field, not merely at its earliest occurrence.
			idx = len(words) - len(group)
			if idx < pos || !matchesAt(words, idx, group) {
				return false
			}
		}
		if idx < 0 {
			return false
		}
		if gi == 0 && p.Anchors.Start && idx != 0 {
			return false
		}
		pos = idx + len(group)
	}
	if p.Anchors.End && pos != len(words) {
		return false
	}
	return true
}

// indexSubsequence returns the earliest index at or after from where needle
// occurs contiguously (case-insensitive) in words, or -1.
func indexSubsequence(words []string, from int, needle []string) int {
	for i := from; i+len(needle) <= len(words); i++ {
		if matchesAt(words, i, needle) {
			return i
		}
	}
	return -1
}

func matchesAt(words []string, at int, needle []string) bool {
	for j, n := range needle {
		if !strings.EqualFold(words[at+j], n) {
			return false
		}
	}
	return true
}
