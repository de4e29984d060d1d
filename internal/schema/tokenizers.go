// Package schema defines the fixed field set of the index (§3, §4.A) and
// registers the named analysis chains those fields reference: default,
// stemmed, identity, bigram, trigram, site-operator-url, and json-flatten.
package schema

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
)

// Analyzer names referenced by field declarations in fields.go. A field's
// query-time analyzer must match its index-time analyzer, so these names are
// registered once at index open and never change shape afterwards.
const (
	AnalyzerDefault        = "default"
	AnalyzerStemmed        = "stemmed"
	AnalyzerIdentity       = "identity"
	AnalyzerBigram         = "bigram"
	AnalyzerTrigram        = "trigram"
	AnalyzerSiteOperatorURL = "site-operator-url"
	AnalyzerJSONFlatten    = "json-flatten"
)

// RegisterAll wires every custom tokenizer, token filter, and analyzer this
// package defines into im, so that bleve.NewUsing (or bleve.New with a
// mapping carrying a custom cache) resolves them by name at index open.
func RegisterAll(im *mapping.IndexMappingImpl) error {
	im.AddCustomTokenizer(identityTokenizerName, map[string]interface{}{
		"type": identityTokenizerName,
	})
	im.AddCustomTokenizer(siteOperatorURLTokenizerName, map[string]interface{}{
		"type": siteOperatorURLTokenizerName,
	})
	im.AddCustomTokenizer(jsonFlattenTokenizerName, map[string]interface{}{
		"type": jsonFlattenTokenizerName,
	})

	im.AddCustomTokenFilter(bigramFilterName, map[string]interface{}{
		"type": bigramFilterName,
	})
	im.AddCustomTokenFilter(trigramFilterName, map[string]interface{}{
		"type": trigramFilterName,
	})

	im.AddCustomAnalyzer(AnalyzerDefault, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	im.AddCustomAnalyzer(AnalyzerStemmed, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
			en.StemmerName,
		},
	})
	im.AddCustomAnalyzer(AnalyzerIdentity, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": identityTokenizerName,
	})
	im.AddCustomAnalyzer(AnalyzerBigram, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
			bigramFilterName,
		},
	})
	im.AddCustomAnalyzer(AnalyzerTrigram, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
			trigramFilterName,
		},
	})
	im.AddCustomAnalyzer(AnalyzerSiteOperatorURL, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": siteOperatorURLTokenizerName,
	})
	im.AddCustomAnalyzer(AnalyzerJSONFlatten, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": jsonFlattenTokenizerName,
	})

	// AddCustom* only stages the config; Validate (done implicitly by
	// bleve.NewUsing at open time) is what actually builds the registry
	// entries. Force it here so a bad config fails at open, not at first use.
	if _, err := im.AnalyzerNamed(AnalyzerDefault); err != nil {
		return fmt.Errorf("schema: validate default analyzer: %w", err)
	}
	if _, err := im.AnalyzerNamed(AnalyzerStemmed); err != nil {
		return fmt.Errorf("schema: validate stemmed analyzer: %w", err)
	}
	if _, err := im.AnalyzerNamed(AnalyzerIdentity); err != nil {
		return fmt.Errorf("schema: validate identity analyzer: %w", err)
	}
	if _, err := im.AnalyzerNamed(AnalyzerBigram); err != nil {
		return fmt.Errorf("schema: validate bigram analyzer: %w", err)
	}
	if _, err := im.AnalyzerNamed(AnalyzerTrigram); err != nil {
		return fmt.Errorf("schema: validate trigram analyzer: %w", err)
	}
	if _, err := im.AnalyzerNamed(AnalyzerSiteOperatorURL); err != nil {
		return fmt.Errorf("schema: validate site-operator-url analyzer: %w", err)
	}
	if _, err := im.AnalyzerNamed(AnalyzerJSONFlatten); err != nil {
		return fmt.Errorf("schema: validate json-flatten analyzer: %w", err)
	}
	return nil
}

const (
	identityTokenizerName        = "identity-tokenizer"
	siteOperatorURLTokenizerName = "site-operator-url-tokenizer"
	jsonFlattenTokenizerName     = "json-flatten-tokenizer"
	bigramFilterName             = "bigram-filter"
	trigramFilterName            = "trigram-filter"
)

func init() {
	registry.RegisterTokenizer(identityTokenizerName, identityTokenizerConstructor)
	registry.RegisterTokenizer(siteOperatorURLTokenizerName, siteOperatorURLTokenizerConstructor)
	registry.RegisterTokenizer(jsonFlattenTokenizerName, jsonFlattenTokenizerConstructor)
	registry.RegisterTokenFilter(bigramFilterName, bigramFilterConstructor)
	registry.RegisterTokenFilter(trigramFilterName, trigramFilterConstructor)
}

// identityTokenizer emits the entire input as a single token, used for exact
// URL and homepage-host lookups where no sub-tokenization is wanted.
type identityTokenizer struct{}

func identityTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &identityTokenizer{}, nil
}

func (t *identityTokenizer) Tokenize(input []byte) analysis.TokenStream {
	if len(input) == 0 {
		return analysis.TokenStream{}
	}
	return analysis.TokenStream{
		&analysis.Token{
			Term:     input,
			Start:    0,
			End:      len(input),
			Position: 1,
			Type:     analysis.AlphaNumeric,
		},
	}
}

// siteOperatorURLTokenizer splits a URL into host labels, path segments, and
// scheme, normalising a leading "www." and trailing slashes so that the
// site: operator can anchor-match "example.com" against
// "https://www.example.com/" (§4.A, §4.D target "Site"). Whitespace-separated
// input, such as the indexer's UrlForSiteOperator text, has each word split
// into its dot-separated labels.
type siteOperatorURLTokenizer struct{}

func siteOperatorURLTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &siteOperatorURLTokenizer{}, nil
}

func (t *siteOperatorURLTokenizer) Tokenize(input []byte) analysis.TokenStream {
	raw := string(input)
	scheme, rest := splitScheme(raw)
	rest = strings.TrimPrefix(rest, "www.")
	host, path := splitHostPath(rest)

	var parts []string
	if scheme != "" {
		parts = append(parts, scheme)
	}
	for _, h := range strings.Fields(host) {
		parts = append(parts, strings.Split(h, ".")...)
	}
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}

	result := make(analysis.TokenStream, 0, len(parts))
	offset := 0
	for i, p := range parts {
		lower := strings.ToLower(p)
		start := strings.Index(raw[offset:], p)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(p)
		result = append(result, &analysis.Token{
			Term:     []byte(lower),
			Start:    start,
			End:      end,
			Position: i + 1,
			Type:     analysis.AlphaNumeric,
		})
		offset = end
	}
	return result
}

func splitScheme(s string) (scheme, rest string) {
	if idx := strings.Index(s, "://"); idx >= 0 {
		return s[:idx], s[idx+3:]
	}
	return "", s
}

func splitHostPath(s string) (host, path string) {
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		return s[:idx], s[idx:]
	}
	return s, ""
}

// jsonFlattenTokenizer emits "parent.child" tokens for schema.org
// extractions (input already pre-flattened by the indexer into
// Document.FlattenedSchemaOrgJson), enabling queries like
// Schema("BlogPosting.comment"). The tokenizer itself is a pass-through
// identity split on whitespace, since flattening happens before indexing.
type jsonFlattenTokenizer struct{}

func jsonFlattenTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &jsonFlattenTokenizer{}, nil
}

func (t *jsonFlattenTokenizer) Tokenize(input []byte) analysis.TokenStream {
	fields := strings.Fields(string(input))
	result := make(analysis.TokenStream, 0, len(fields))
	offset := 0
	raw := string(input)
	for i, f := range fields {
		start := strings.Index(raw[offset:], f)
		if start == -1 {
			start = offset
		} else {
			start += offset
		}
		end := start + len(f)
		result = append(result, &analysis.Token{
			Term:     []byte(f),
			Start:    start,
			End:      end,
			Position: i + 1,
			Type:     analysis.AlphaNumeric,
		})
		offset = end
	}
	return result
}

// bigramFilter and trigramFilter emit overlapping n-grams of the incoming
// token stream so that "test website" can match a document containing
// "testwebsite" and vice versa (§4.A, §4.C compound-term adjacency).
type ngramFilter struct{ n int }

func bigramFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	return &ngramFilter{n: 2}, nil
}

func trigramFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	return &ngramFilter{n: 3}, nil
}

func (f *ngramFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	if len(input) < f.n {
		return analysis.TokenStream{}
	}
	result := make(analysis.TokenStream, 0, len(input)-f.n+1)
	for i := 0; i+f.n <= len(input); i++ {
		var b strings.Builder
		for j := 0; j < f.n; j++ {
			b.Write(input[i+j].Term)
		}
		result = append(result, &analysis.Token{
			Term:     []byte(b.String()),
			Start:    input[i].Start,
			End:      input[i+f.n-1].End,
			Position: input[i].Position,
			Type:     analysis.AlphaNumeric,
		})
	}
	return result
}
