package store

import (
	"time"

	"github.com/hyperjump/wyvern/internal/model"
)

// DeleteQuery is a tombstone predicate registered by Delete; it is evaluated
// against every live document's stored fields at the next commit or merge
// (§4.B "delete(query) registers a tombstone query; applied at next
// commit/merge").
type DeleteQuery func(*StoredFields) bool

// BeforeTimestamp is the convenience predicate delete_all_before builds: it
// matches any document whose InsertionTimestamp precedes cutoff.
func BeforeTimestamp(cutoff time.Time) DeleteQuery {
	return func(f *StoredFields) bool { return f.InsertionTimestamp.Before(cutoff) }
}

// writer buffers inserts in memory and accumulates pending delete queries;
// nothing is visible to readers until Commit. §4.B specifies ingestion uses
// a no-merge policy by default so the pipeline explicitly triggers merges;
// autoMerge, when enabled via SetAutoMergePolicy, runs a bin-packing merge
// pass as part of every Commit instead.
type writer struct {
	pending   []*model.Document
	deletes   []DeleteQuery
	poisoned  bool
	autoMerge bool
	mergeK    int
}

func newWriter() *writer {
	return &writer{}
}

// insert buffers doc for the next commit. Returns success only after
// buffering — per §4.B, not visible to readers until commit.
func (w *writer) insert(doc *model.Document) error {
	if w.poisoned {
		return errWriterPoisoned
	}
	w.pending = append(w.pending, doc)
	return nil
}

func (w *writer) delete(q DeleteQuery) {
	w.deletes = append(w.deletes, q)
}

func (w *writer) setAutoMergePolicy(maxSegments int) {
	w.autoMerge = true
	w.mergeK = maxSegments
}

// drain empties the writer's buffers, returning what had accumulated since
// the last commit. Called under the store's write lock.
func (w *writer) drain() ([]*model.Document, []DeleteQuery) {
	docs, deletes := w.pending, w.deletes
	w.pending = nil
	w.deletes = nil
	return docs, deletes
}
