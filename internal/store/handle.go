package store

import (
	"github.com/blevesearch/bleve/v2"

	"github.com/hyperjump/wyvern/internal/errs"
)

// Segment is the read-only handle a query-time caller (the collector, §4.E)
// gets to one segment: enough to run a compiled bleve search and resolve
// hits back to stored fields, without reaching into store internals.
type Segment struct {
	seg *segment
}

// ID returns the segment's identifier, used to build a DocAddress.
func (h Segment) ID() string { return h.seg.id }

// NumDocs returns the segment's live document count (tombstones excluded),
// used by the short-circuit operator's per-segment scan budget.
func (h Segment) NumDocs() int { return h.seg.liveDocs() }

// Search runs req against this segment's bleve index.
func (h Segment) Search(req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	res, err := h.seg.index.Search(req)
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "search segment %s", h.seg.id)
	}
	return res, nil
}

// IsDeleted reports whether localDocID is tombstoned in this segment.
func (h Segment) IsDeleted(localDocID uint32) bool {
	return h.seg.tombs.Contains(localDocID)
}

// Fields resolves localDocID to its stored fields, or a DocMissing error if
// the document was deleted or never existed (§7 DocMissing policy: the
// collector filters these silently from results).
func (h Segment) Fields(localDocID uint32) (*StoredFields, error) {
	if h.seg.tombs.Contains(localDocID) {
		return nil, errs.New(errs.DocMissing, "local doc %d tombstoned in segment %s", localDocID, h.seg.id)
	}
	return getFieldsByLocalID(h.seg.db, localDocID)
}
