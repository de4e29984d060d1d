package model

import (
	"net/url"
	"time"
)

// Document is the indexed view of a webpage: the fixed field set of §3,
// populated by the indexer from a Webpage and written to a segment.
//
// Field groups mirror the schema: Text fields are analysed into postings,
// Fast fields are stored column-wise for O(1) scoring lookups, Stored fields
// are retrievable at result time but never matched against.
type Document struct {
	// Text fields.
	Title                     string
	CleanBody                 string // indexed four times: default, stemmed, bigram, and trigram analysis chains, each under its own field name
	AllBody                   string // title, CleanBody, description, and backlink labels, for the catch-all group
	URL                       string
	UrlForSiteOperator        string // site-operator-url tokenizer: host labels, path segments, scheme
	Site                      string // homepage host, only populated when URL is a homepage
	Domain                    string
	Description               string
	DmozDescription           string
	MicroformatTags           []string
	FlattenedSchemaOrgJson    []string // "Type.property" tokens emitted by json-flatten
	Keywords                  []string
	RecipeFirstIngredientTagId string

	// Stored-only field.
	SchemaOrgJson []Item

	// Fast fields.
	PreComputedScore     float64
	HostCentrality       float64
	PageCentrality       float64
	FetchTimeMs          uint64
	Region               RegionCode
	LastUpdated          time.Time
	HostNodeID           uint64
	LikelyHasAds         bool
	LikelyHasPaywall     bool
	SafetyClassification SafetyLabel
	InsertionTimestamp   time.Time
}

// IsHomepage reports whether rawURL looks like a bare host (empty or "/"
// path, no query string) — used both by schema population (Site field) and
// by the materializer's min_body_length homepage threshold.
func IsHomepage(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Path == "" || u.Path == "/") && u.RawQuery == ""
}
