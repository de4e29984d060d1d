// Package query implements the query parser and compiler of §4.C: turning
// a raw query string into an operator.Node tree.
package query

// SimpleTerm is one bare token of the query, not part of a phrase or field
// operator. Bigrams/Trigrams hold the compound neighbours computed by the
// width-2/width-3 sliding-window adjacency pass ("test website" records
// "testwebsite" as a bigram on both terms).
type SimpleTerm struct {
	Text     string
	Bigrams  []string
	Trigrams []string
}

// PhraseTerm is a `"..."` quoted phrase: its Terms are matched as an ordered
// conjunction rather than a should-union.
type PhraseTerm struct {
	Terms []string
}

// FieldOperator is a site:/inurl:/intitle: token, optionally negated with a
// leading '-'.
type FieldOperator struct {
	Field   OperatorField
	Pattern string
	Negate  bool
}

// OperatorField identifies which document field a FieldOperator targets.
type OperatorField int

const (
	OperatorSite OperatorField = iota
	OperatorURL
	OperatorTitle
)

// ParsedQuery is the output of Parse: the raw query string split into its
// constituent term kinds, ready for Compile.
type ParsedQuery struct {
	Simple   []*SimpleTerm
	MustNot  []*SimpleTerm
	Phrases  []*PhraseTerm
	FieldOps []*FieldOperator
}
