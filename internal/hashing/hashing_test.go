package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperjump/wyvern/internal/model"
)

func TestCompute_IsDeterministic(t *testing.T) {
	doc := &model.Document{Site: "example.com", Title: "Hello World", URL: "https://example.com/a", Domain: "example.com"}
	a := Compute(doc)
	b := Compute(doc)
	assert.Equal(t, a, b)
}

func TestCompute_TitleHashIgnoresCaseAndSpacing(t *testing.T) {
	a := Compute(&model.Document{Title: "Hello   World"})
	b := Compute(&model.Document{Title: "hello world"})
	assert.Equal(t, a.Title, b.Title)
}

func TestCompute_TitleHashDiffersForDifferentTitles(t *testing.T) {
	a := Compute(&model.Document{Title: "Hello World"})
	b := Compute(&model.Document{Title: "Goodbye World"})
	assert.NotEqual(t, a.Title, b.Title)
}

func TestCompute_URLNoTLDStripsLastLabel(t *testing.T) {
	a := Compute(&model.Document{Domain: "example.com"})
	b := Compute(&model.Document{Domain: "example.org"})
	assert.NotEqual(t, a.URLNoTLD, b.URLNoTLD)

	c := Compute(&model.Document{Domain: "example.co.uk"})
	d := Compute(&model.Document{Domain: "example.co.fr"})
	assert.NotEqual(t, c.URLNoTLD, d.URLNoTLD)
}

func TestCompute_URLNoTLDCollapsesAcrossTLDs(t *testing.T) {
	// "example.com" and "example.net" should collapse once the TLD label is stripped
	// only when the remaining labels match; here they both reduce to "example".
	a := Compute(&model.Document{Domain: "example.com"})
	b := Compute(&model.Document{Domain: "example.net"})
	assert.Equal(t, a.URLNoTLD, b.URLNoTLD)
}

func TestCompute_SingleLabelDomainUnchanged(t *testing.T) {
	a := Compute(&model.Document{Domain: "localhost"})
	b := Compute(&model.Document{Domain: "localhost"})
	assert.Equal(t, a.URLNoTLD, b.URLNoTLD)
}

func TestCompute_SiteAndURLHashDiffer(t *testing.T) {
	doc := &model.Document{Site: "example.com", URL: "https://example.com/"}
	h := Compute(doc)
	assert.NotEqual(t, h.Site, h.URL)
}
