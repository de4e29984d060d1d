// Package store implements the segment store of §4.B: an immutable,
// append-and-merge inverted index built from bleve per segment for Text
// fields, SQLite per segment for Fast/Stored fields, and a roaring bitmap
// per segment for tombstones.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/blevesearch/bleve/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/wyvern/internal/errs"
	"github.com/hyperjump/wyvern/internal/schema"
)

// segment is one immutable shard: a bleve index for postings, a SQLite
// database for fast/stored field columns, and a tombstone bitmap of local
// document ids deleted from this segment but not yet compacted away.
type segment struct {
	id  string
	dir string

	index    bleve.Index
	db       *sql.DB
	tombs    *roaring.Bitmap
	numDocs  int
	maxDocID uint32 // highest local doc id ever assigned, used as the next-id counter
}

func segmentPaths(root, id string) (bleveDir, sqlitePath, tombPath string) {
	base := filepath.Join(root, id)
	return filepath.Join(base, "text.bleve"), filepath.Join(base, "fields.db"), filepath.Join(base, "tombstones.bin")
}

// createSegment makes a brand new, empty segment directory under root.
func createSegment(root, id string) (*segment, error) {
	bleveDir, sqlitePath, _ := segmentPaths(root, id)
	if err := os.MkdirAll(filepath.Dir(bleveDir), 0o755); err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "create segment directory for %s", id)
	}

	im, err := schema.BuildIndexMapping()
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "build index mapping for segment %s", id)
	}
	idx, err := bleve.New(bleveDir, im)
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "create bleve index for segment %s", id)
	}

	db, err := openFieldsDB(sqlitePath)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}

	return &segment{
		id:      id,
		dir:     filepath.Join(root, id),
		index:   idx,
		db:      db,
		tombs:   roaring.New(),
		numDocs: 0,
	}, nil
}

// openSegment reopens a previously committed segment from disk. A corrupt
// segment returns a SegmentCorrupt error; the caller (Open) excludes it and
// continues in degraded mode rather than failing the whole store.
func openSegment(root, id string) (*segment, error) {
	bleveDir, sqlitePath, tombPath := segmentPaths(root, id)

	idx, err := bleve.Open(bleveDir)
	if err != nil {
		return nil, errs.Wrap(err, errs.SegmentCorrupt, "open bleve index for segment %s", id)
	}
	db, err := openFieldsDB(sqlitePath)
	if err != nil {
		_ = idx.Close()
		return nil, errs.Wrap(err, errs.SegmentCorrupt, "open fields db for segment %s", id)
	}

	tombs := roaring.New()
	if b, err := os.ReadFile(tombPath); err == nil {
		if _, err := tombs.FromBuffer(b); err != nil {
			_ = idx.Close()
			_ = db.Close()
			return nil, errs.Wrap(err, errs.SegmentCorrupt, "decode tombstones for segment %s", id)
		}
	} else if !os.IsNotExist(err) {
		_ = idx.Close()
		_ = db.Close()
		return nil, errs.Wrap(err, errs.IndexIO, "read tombstones for segment %s", id)
	}

	numDocs, maxDocID, err := fieldsDBStats(db)
	if err != nil {
		_ = idx.Close()
		_ = db.Close()
		return nil, err
	}

	return &segment{
		id:       id,
		dir:      filepath.Join(root, id),
		index:    idx,
		db:       db,
		tombs:    tombs,
		numDocs:  numDocs,
		maxDocID: maxDocID,
	}, nil
}

// liveDocs returns numDocs minus tombstoned-but-not-yet-compacted documents.
func (s *segment) liveDocs() int {
	n := s.numDocs - int(s.tombs.GetCardinality())
	if n < 0 {
		return 0
	}
	return n
}

// persistTombstones flushes the in-memory deletion bitmap to disk; called at
// commit so a crash between delete and commit loses the tombstone, not the
// document (delete is a registered query re-applied at the next commit).
func (s *segment) persistTombstones() error {
	_, _, tombPath := segmentPaths(filepath.Dir(s.dir), s.id)
	buf, err := s.tombs.ToBytes()
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "encode tombstones for segment %s", s.id)
	}
	if err := os.WriteFile(tombPath, buf, 0o644); err != nil {
		return errs.Wrap(err, errs.IndexIO, "write tombstones for segment %s", s.id)
	}
	return nil
}

func (s *segment) close() error {
	var firstErr error
	if err := s.index.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// removeFiles deletes the segment's on-disk directory. Best-effort: callers
// tolerate orphaned files since they only waste disk (§4.B failure semantics).
func (s *segment) removeFiles() {
	_ = os.RemoveAll(s.dir)
}
