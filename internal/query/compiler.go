package query

import (
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/hyperjump/wyvern/internal/operator"
	"github.com/hyperjump/wyvern/internal/schema"
)

// DefaultFieldWeights are the per-field should-union weights of §4.C's
// operator tree, applied to every simple and phrase term. Title outweighs
// body text, which outweighs the catch-all and URL-derived fields.
var DefaultFieldWeights = map[string]float64{
	schema.FieldTitle:            3.0,
	schema.FieldCleanBody:        1.0,
	schema.FieldStemmedCleanBody: 0.8,
	schema.FieldAllBody:          0.5,
	schema.FieldDescription:      0.6,
	schema.FieldDmozDescription:  0.4,
	schema.FieldURL:              0.2,
	schema.FieldSite:             0.2,
	schema.FieldDomain:           0.2,
}

const (
	compoundBigramWeight  = 0.5
	compoundTrigramWeight = 0.3
)

// Compile assembles the top-level AND operator tree of §4.C: a should-union
// per simple/phrase term across the default field group plus compound
// matches, a must/must-not clause per field operator, and a safe-search
// must-not when requested. Optic-produced operators (§4.D) are appended by
// the caller to root.Children.
func Compile(pq *ParsedQuery, safeSearch bool) *operator.Must {
	root := &operator.Must{}

	for _, t := range pq.Simple {
		root.Children = append(root.Children, compileSimpleTerm(t))
	}
	for _, t := range pq.MustNot {
		root.Children = append(root.Children, &operator.MustNot{Child: compileSimpleTerm(t)})
	}
	for _, p := range pq.Phrases {
		root.Children = append(root.Children, compilePhrase(p))
	}
	for _, op := range pq.FieldOps {
		node := compileFieldOperator(op)
		if op.Negate {
			root.Children = append(root.Children, &operator.MustNot{Child: node})
		} else {
			root.Children = append(root.Children, node)
		}
	}
	if safeSearch {
		root.Children = append(root.Children, &operator.MustNot{Child: safetyLeaf()})
	}

	return root
}

// compileSimpleTerm builds the should-union of §4.C across the default
// field group plus one leaf per recorded bigram/trigram compound, so
// "test website" also matches a document containing "testwebsite".
func compileSimpleTerm(t *SimpleTerm) operator.Node {
	s := &operator.Should{}
	for _, field := range schema.TextFieldGroup {
		q := bleve.NewMatchQuery(t.Text)
		q.SetField(field)
		s.Children = append(s.Children, &operator.Leaf{Q: q})
		s.Weights = append(s.Weights, DefaultFieldWeights[field])
	}
	for _, bigram := range t.Bigrams {
		q := bleve.NewMatchQuery(bigram)
		q.SetField(schema.FieldBodyBigram)
		s.Children = append(s.Children, &operator.Leaf{Q: q})
		s.Weights = append(s.Weights, compoundBigramWeight)
	}
	for _, trigram := range t.Trigrams {
		q := bleve.NewMatchQuery(trigram)
		q.SetField(schema.FieldBodyTrigram)
		s.Children = append(s.Children, &operator.Leaf{Q: q})
		s.Weights = append(s.Weights, compoundTrigramWeight)
	}
	return s
}

// compilePhrase builds the same should-union as compileSimpleTerm but with
// ordered-conjunction phrase leaves rather than single-term matches (§4.C
// "phrase tokens are ... matched as an ordered conjunction").
func compilePhrase(p *PhraseTerm) operator.Node {
	text := strings.Join(p.Terms, " ")
	s := &operator.Should{}
	for _, field := range schema.TextFieldGroup {
		q := bleve.NewMatchPhraseQuery(text)
		q.SetField(field)
		s.Children = append(s.Children, &operator.Leaf{Q: q})
		s.Weights = append(s.Weights, DefaultFieldWeights[field])
	}
	return s
}

// compileFieldOperator builds the pattern-matching operator for a
// site:/inurl:/intitle: token against its target field (§4.C, §4.D).
func compileFieldOperator(op *FieldOperator) operator.Node {
	field := operatorField(op.Field)
	return operator.NewPattern(field, op.Pattern)
}

func operatorField(f OperatorField) string {
	switch f {
	case OperatorSite:
		return schema.FieldUrlForSiteOperator
	case OperatorURL:
		return schema.FieldURL
	case OperatorTitle:
		return schema.FieldTitle
	default:
		return schema.FieldURL
	}
}

// safetyLeaf matches documents classified nsfw, for the safe-search
// must-not of §4.C.
func safetyLeaf() operator.Node {
	q := bleve.NewMatchQuery("nsfw")
	q.SetField(schema.FieldSafetyClassification)
	return &operator.Leaf{Q: q}
}
