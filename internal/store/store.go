package store

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/errs"
	"github.com/hyperjump/wyvern/internal/hashing"
	"github.com/hyperjump/wyvern/internal/model"
)

var errWriterPoisoned = errs.New(errs.IndexIO, "writer is poisoned, reopen the store before inserting again")

// Store is a segment store: an immutable, append-and-merge inverted index
// rooted at a directory (§4.B). Reads fan out over a consistent snapshot of
// segments; the snapshot is swapped atomically on Commit.
type Store struct {
	dir    string
	logger *zap.Logger

	rootLock sync.RWMutex
	segments []*segment
	degraded []string // ids of segments that failed to open, kept for diagnostics

	writerLock sync.Mutex
	writer     *writer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger for open/commit/merge diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens or creates a segment store under path. On create, the schema
// and sort-field settings are implicit in schema.BuildIndexMapping, applied
// uniformly to every segment created afterwards.
//
// A segment that fails to open (checksum/format mismatch) is excluded and
// the store proceeds in degraded mode (§7 SegmentCorrupt policy); its id is
// recorded in Degraded() for the caller to log or alert on.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{dir: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "create store directory %s", path)
	}

	meta, err := loadMeta(path)
	if err != nil {
		return nil, err
	}

	for _, id := range meta.Segments {
		seg, err := openSegment(path, id)
		if err != nil {
			s.logger.Warn("segment failed to open, excluding in degraded mode",
				zap.String("segment", id), zap.Error(err))
			s.degraded = append(s.degraded, id)
			continue
		}
		s.segments = append(s.segments, seg)
	}
	sortSegmentsByMaxDocDesc(s.segments)

	return s, nil
}

// Degraded returns the ids of segments excluded at open due to corruption.
func (s *Store) Degraded() []string {
	return append([]string(nil), s.degraded...)
}

// Close releases every open segment's resources.
func (s *Store) Close() error {
	s.rootLock.Lock()
	defer s.rootLock.Unlock()
	var firstErr error
	for _, seg := range s.segments {
		if err := seg.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PrepareWriter attaches a single writer to the store; idempotent. The
// writer defaults to a no-merge policy: Commit publishes new segments but
// never merges them until SetAutoMergePolicy is called or the caller invokes
// MergeIntoMaxSegments explicitly (§4.B).
func (s *Store) PrepareWriter() {
	s.writerLock.Lock()
	defer s.writerLock.Unlock()
	s.prepareWriterLocked()
}

func (s *Store) prepareWriterLocked() {
	if s.writer == nil {
		s.writer = newWriter()
	}
}

// SetAutoMergePolicy enables log-structured background merging: every
// Commit is followed by MergeIntoMaxSegments(maxSegments).
func (s *Store) SetAutoMergePolicy(maxSegments int) {
	s.writerLock.Lock()
	defer s.writerLock.Unlock()
	s.prepareWriterLocked()
	s.writer.setAutoMergePolicy(maxSegments)
}

// Insert buffers doc into the writer's in-memory segment. Not visible to
// readers until Commit.
func (s *Store) Insert(doc *model.Document) error {
	s.writerLock.Lock()
	defer s.writerLock.Unlock()
	if s.writer == nil {
		return errs.New(errs.IndexIO, "no writer attached, call PrepareWriter first")
	}
	return s.writer.insert(doc)
}

// Delete registers a tombstone query applied at the next Commit or merge.
func (s *Store) Delete(q DeleteQuery) {
	s.writerLock.Lock()
	defer s.writerLock.Unlock()
	s.prepareWriterLocked()
	s.writer.delete(q)
}

// DeleteAllBefore is convenience over Delete on the InsertionTimestamp field.
func (s *Store) DeleteAllBefore(cutoff time.Time) {
	s.Delete(BeforeTimestamp(cutoff))
}

// Commit flushes buffered inserts into one new segment, applies pending
// delete queries against all live segments, and atomically swaps the reader
// snapshot. A writer is fatal-on-drop without commit: buffered inserts are
// lost if the process exits first (§4.B failure semantics).
func (s *Store) Commit() error {
	s.writerLock.Lock()
	w := s.writer
	if w == nil {
		s.writerLock.Unlock()
		return nil
	}
	docs, deletes := w.drain()
	autoMerge, mergeK := w.autoMerge, w.mergeK
	s.writerLock.Unlock()

	var newSeg *segment
	if len(docs) > 0 {
		id := uuid.NewString()
		seg, err := createSegment(s.dir, id)
		if err != nil {
			s.writerLock.Lock()
			w.poisoned = true
			s.writerLock.Unlock()
			return err
		}
		for _, doc := range docs {
			if err := segmentInsert(seg, doc); err != nil {
				s.writerLock.Lock()
				w.poisoned = true
				s.writerLock.Unlock()
				return err
			}
		}
		if err := seg.persistTombstones(); err != nil {
			return err
		}
		newSeg = seg
	}

	s.rootLock.Lock()
	if newSeg != nil {
		s.segments = append(s.segments, newSeg)
	}
	for _, q := range deletes {
		applyDeleteQuery(s.segments, q)
	}
	for _, seg := range s.segments {
		if err := seg.persistTombstones(); err != nil {
			s.rootLock.Unlock()
			return err
		}
	}
	sortSegmentsByMaxDocDesc(s.segments)
	ids := make([]string, len(s.segments))
	for i, seg := range s.segments {
		ids[i] = seg.id
	}
	s.rootLock.Unlock()

	if err := saveMeta(s.dir, &metaFile{Segments: ids}); err != nil {
		return err
	}

	if autoMerge {
		return s.MergeIntoMaxSegments(mergeK)
	}
	return nil
}

func applyDeleteQuery(segments []*segment, q DeleteQuery) {
	for _, seg := range segments {
		rows, err := allFields(seg.db)
		if err != nil {
			continue
		}
		for _, f := range rows {
			if seg.tombs.Contains(f.LocalDocID) {
				continue
			}
			if q(f) {
				seg.tombs.Add(f.LocalDocID)
			}
		}
	}
}

// GetWebpage performs an exact-term lookup on the non-tokenised URL field,
// returning the first hit across segments or a DocMissing error.
func (s *Store) GetWebpage(url string) (*StoredFields, error) {
	s.rootLock.RLock()
	defer s.rootLock.RUnlock()
	for _, seg := range s.segments {
		f, err := getFieldsByURL(seg.db, url)
		if err == nil {
			if seg.tombs.Contains(f.LocalDocID) {
				continue
			}
			return f, nil
		}
	}
	return nil, errs.New(errs.DocMissing, "webpage %s not found", url)
}

// GetHomepage performs an exact-term lookup on the homepage-host field.
func (s *Store) GetHomepage(host string) (*StoredFields, error) {
	s.rootLock.RLock()
	defer s.rootLock.RUnlock()
	for _, seg := range s.segments {
		f, err := getFieldsBySite(seg.db, host)
		if err == nil {
			if seg.tombs.Contains(f.LocalDocID) {
				continue
			}
			return f, nil
		}
	}
	return nil, errs.New(errs.DocMissing, "homepage %s not found", host)
}

// Snapshot returns the current, read-only ordered list of live segments for
// use by the collector's parallel fan-out (§4.E). Callers must not mutate
// the returned slice or the segments within it.
func (s *Store) Snapshot() []Segment {
	s.rootLock.RLock()
	defer s.rootLock.RUnlock()
	out := make([]Segment, len(s.segments))
	for i, seg := range s.segments {
		out[i] = Segment{seg: seg}
	}
	return out
}

func sortSegmentsByMaxDocDesc(segs []*segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].numDocs > segs[j].numDocs
	})
}

func segmentInsert(seg *segment, doc *model.Document) error {
	seg.maxDocID++
	localID := seg.maxDocID
	bleveID := fmt.Sprintf("%d", localID)

	if err := seg.index.Index(bleveID, doc); err != nil {
		return errs.Wrap(err, errs.IndexIO, "index document %s into segment %s", bleveID, seg.id)
	}
	if err := insertFields(seg.db, localID, doc, hashing.Compute(doc)); err != nil {
		return err
	}
	seg.numDocs++
	return nil
}

