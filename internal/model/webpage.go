// Package model defines the core data structures shared across the query,
// optic, store, ranking, and materializer packages: crawler input, the
// indexed document view, queries, and results.
package model

import "time"

// SafetyLabel classifies a page for the safe-search filter.
type SafetyLabel string

const (
	SafetyUnknown SafetyLabel = ""
	SafetySFW     SafetyLabel = "sfw"
	SafetyNSFW    SafetyLabel = "nsfw"
)

// RegionCode is an upstream-assigned region classification for a page.
type RegionCode string

// Webpage is the crawler's output record, external to the core. The indexer
// converts it into the schema's Document fields.
type Webpage struct {
	URL                  string
	HTML                 string
	BacklinkLabels       []string
	HostCentrality       float64
	PageCentrality       float64
	FetchTimeMs          uint64
	PreComputedScore     float64
	InsertedAt           time.Time
	NodeID               *uint64
	SafetyClassification SafetyLabel
	DmozDescription      string
	HostTopic            string
	Region               RegionCode
}

// Item is a schema.org entity extracted upstream (JSON-LD or microdata),
// stored verbatim in SchemaOrgJson and flattened into FlattenedSchemaOrgJson
// for the Schema() optic location.
type Item struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Nested     []Item         `json:"nested,omitempty"`
}
