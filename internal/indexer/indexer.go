// Package indexer converts crawled webpages into the schema's Document view
// and buffers them into a store (§3, §6 ingestion flow).
package indexer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/store"
)

// Indexer builds Documents from Webpages and inserts them into a Store.
type Indexer struct {
	store  *store.Store
	logger *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets a logger for per-page debug output.
func WithLogger(l *zap.Logger) Option {
	return func(idx *Indexer) { idx.logger = l }
}

// New creates an Indexer over s.
func New(s *store.Store, opts ...Option) *Indexer {
	idx := &Indexer{store: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexWebpage converts wp into a Document and buffers it in the store's
// writer. Not visible to readers until a Commit.
func (idx *Indexer) IndexWebpage(wp *model.Webpage) error {
	doc, err := buildDocument(wp)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	if err := idx.store.Insert(doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	idx.logger.Debug("indexer indexed webpage", zap.String("url", wp.URL))
	return nil
}

// IndexBatch indexes every page in pages and commits once at the end, so a
// batch either all becomes visible together or (on error) stops partway
// through the buffered-but-uncommitted pages.
func (idx *Indexer) IndexBatch(pages []*model.Webpage) (int, error) {
	n := 0
	for _, wp := range pages {
		if err := idx.IndexWebpage(wp); err != nil {
			return n, err
		}
		n++
	}
	if err := idx.store.Commit(); err != nil {
		return n, fmt.Errorf("commit: %w", err)
	}
	idx.logger.Debug("indexer committed batch", zap.Int("count", n))
	return n, nil
}

// IndexJSONLReader reads newline-delimited model.Webpage JSON records from r,
// the drop-file format the watcher feeds in, and indexes them as one batch.
func (idx *Indexer) IndexJSONLReader(r io.Reader) (int, error) {
	dec := json.NewDecoder(r)
	var pages []*model.Webpage
	for {
		var wp model.Webpage
		if err := dec.Decode(&wp); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("decode webpage: %w", err)
		}
		pages = append(pages, &wp)
	}
	return idx.IndexBatch(pages)
}

// buildDocument converts a crawled Webpage into the schema's fixed Document
// view (§3): parsing its URL into Site/Domain/UrlForSiteOperator, extracting
// title/description/body/schema.org data from its HTML, and carrying over
// every upstream-computed signal verbatim.
func buildDocument(wp *model.Webpage) (*model.Document, error) {
	if wp.URL == "" {
		return nil, fmt.Errorf("webpage missing URL")
	}
	u, err := url.Parse(wp.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", wp.URL, err)
	}

	ex := extractHTML(wp.HTML)
	body := Preprocess(ex.body)
	schemaOrg := parseSchemaOrg(ex.ldJSON)

	doc := &model.Document{
		Title:                      ex.title,
		CleanBody:                  body,
		AllBody:                    strings.Join([]string{ex.title, body, ex.description, strings.Join(wp.BacklinkLabels, " ")}, " "),
		URL:                        wp.URL,
		UrlForSiteOperator:         siteOperatorTokens(u),
		Domain:                     u.Hostname(),
		Description:                ex.description,
		DmozDescription:            wp.DmozDescription,
		MicroformatTags:            ex.microformatTags,
		SchemaOrgJson:              schemaOrg,
		FlattenedSchemaOrgJson:     flattenSchemaOrg(schemaOrg),
		Keywords:                   ex.keywords,
		RecipeFirstIngredientTagId: recipeFirstIngredientTagID(schemaOrg),
		PreComputedScore:           wp.PreComputedScore,
		HostCentrality:             wp.HostCentrality,
		PageCentrality:             wp.PageCentrality,
		FetchTimeMs:                wp.FetchTimeMs,
		Region:                     wp.Region,
		LastUpdated:                wp.InsertedAt,
		SafetyClassification:       wp.SafetyClassification,
		InsertionTimestamp:         time.Now(),
	}
	if wp.NodeID != nil {
		doc.HostNodeID = *wp.NodeID
	}
	if model.IsHomepage(wp.URL) {
		doc.Site = u.Hostname()
	}
	return doc, nil
}

// siteOperatorTokens builds the text the site-operator-url analyzer
// tokenizes: scheme, host labels, and path segments, space-joined so Site()
// pattern matching (a bare strings.Fields split) sees each independently.
func siteOperatorTokens(u *url.URL) string {
	parts := []string{u.Scheme, u.Hostname()}
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, " ")
}

// recipeFirstIngredientTagID pulls the first Recipe item's ingredient tag
// (recipeIngredient[0]) out of the page's schema.org data, if any.
func recipeFirstIngredientTagID(items []model.Item) string {
	for _, it := range items {
		if it.Type != "Recipe" {
			continue
		}
		ings, ok := it.Properties["recipeIngredient"].([]interface{})
		if !ok || len(ings) == 0 {
			continue
		}
		if s, ok := ings[0].(string); ok {
			return s
		}
	}
	return ""
}
