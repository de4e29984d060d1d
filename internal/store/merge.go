package store

import (
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/hyperjump/wyvern/internal/errs"
)

// MergeIntoMaxSegments implements the bin-packed merge algorithm of §4.B:
//
//  1. If the number of segments is already ≤ k, return.
//  2. Otherwise partition segments into ⌈(k+1)/2⌉ bins by longest-processing-
//     time bin-packing (sort by num_docs descending, repeatedly place the
//     next segment into the currently-smallest bin).
//  3. Merge each non-empty bin into one new segment; unlink the consumed
//     segments' files only after the merge succeeds.
//
// Bins with a single segment are skipped (no-op); merge failures leave the
// pre-merge segments intact, since the new segment is only made visible
// atomically once writes complete.
func (s *Store) MergeIntoMaxSegments(k int) error {
	s.rootLock.Lock()
	current := append([]*segment(nil), s.segments...)
	s.rootLock.Unlock()

	if len(current) <= k {
		return nil
	}

	numBins := int(math.Ceil(float64(k+1) / 2))
	bins := binPack(current, numBins)

	var (
		merged   []*segment
		consumed []*segment
	)
	for _, bin := range bins {
		if len(bin) <= 1 {
			merged = append(merged, bin...)
			continue
		}
		newSeg, err := mergeSegments(s.dir, bin)
		if err != nil {
			return err
		}
		merged = append(merged, newSeg)
		consumed = append(consumed, bin...)
	}

	s.rootLock.Lock()
	s.segments = merged
	sortSegmentsByMaxDocDesc(s.segments)
	ids := make([]string, len(s.segments))
	for i, seg := range s.segments {
		ids[i] = seg.id
	}
	s.rootLock.Unlock()

	if err := saveMeta(s.dir, &metaFile{Segments: ids}); err != nil {
		return err
	}

	// Unlink is best-effort: orphans are tolerated, they only waste disk.
	for _, seg := range consumed {
		seg.removeFiles()
	}
	return nil
}

// binPack sorts segments by num_docs descending and repeatedly places the
// next segment into the currently-smallest bin (longest-processing-time
// bin-packing), tie-breaking within a bin by input order.
func binPack(segments []*segment, numBins int) [][]*segment {
	sorted := append([]*segment(nil), segments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].numDocs > sorted[j].numDocs
	})

	bins := make([][]*segment, numBins)
	sizes := make([]int, numBins)
	for _, seg := range sorted {
		smallest := 0
		for i := 1; i < numBins; i++ {
			if sizes[i] < sizes[smallest] {
				smallest = i
			}
		}
		bins[smallest] = append(bins[smallest], seg)
		sizes[smallest] += seg.numDocs
	}
	return bins
}

// mergeSegments combines bin's segments into one freshly-written segment:
// every live (non-tombstoned) document is read back from its stored fields
// and re-inserted through the normal indexing path (see copyDocument).
func mergeSegments(root string, bin []*segment) (*segment, error) {
	id := uuid.NewString()
	newSeg, err := createSegment(root, id)
	if err != nil {
		return nil, err
	}

	for _, seg := range bin {
		rows, err := allFields(seg.db)
		if err != nil {
			_ = newSeg.close()
			newSeg.removeFiles()
			return nil, err
		}
		for _, f := range rows {
			if seg.tombs.Contains(f.LocalDocID) {
				continue
			}
			if err := copyDocument(newSeg, f); err != nil {
				_ = newSeg.close()
				newSeg.removeFiles()
				return nil, err
			}
		}
	}
	if err := newSeg.persistTombstones(); err != nil {
		return nil, err
	}
	return newSeg, nil
}

// Merge performs the external merge of §4.B: each of other's segments not
// already in self is closed, its directory is renamed into self's directory
// and reopened there, metas are concatenated deduplicating by id, and the
// consolidated metas are rewritten. The caller must stop writers on both
// sides first.
func (s *Store) Merge(other *Store) error {
	s.rootLock.Lock()
	defer s.rootLock.Unlock()
	other.rootLock.RLock()
	defer other.rootLock.RUnlock()

	seen := make(map[string]struct{}, len(s.segments))
	for _, seg := range s.segments {
		seen[seg.id] = struct{}{}
	}
	for _, seg := range other.segments {
		if _, dup := seen[seg.id]; dup {
			continue
		}
		// Close other's handle before the physical move: both the bleve
		// index and the sqlite database hold open file descriptors that
		// must be released before their containing directory is renamed.
		if err := seg.close(); err != nil {
			return errs.Wrap(err, errs.IndexIO, "close segment %s before adopting", seg.id)
		}
		moved, err := adoptSegment(s.dir, other.dir, seg.id)
		if err != nil {
			return err
		}
		s.segments = append(s.segments, moved)
		seen[seg.id] = struct{}{}
	}
	sortSegmentsByMaxDocDesc(s.segments)

	ids := make([]string, len(s.segments))
	for i, seg := range s.segments {
		ids[i] = seg.id
	}
	return saveMeta(s.dir, &metaFile{Segments: ids})
}

func adoptSegment(selfDir, otherDir, id string) (*segment, error) {
	if err := renameSegmentDir(otherDir, selfDir, id); err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "adopt segment %s into %s", id, selfDir)
	}
	return openSegment(selfDir, id)
}

// renameSegmentDir moves a segment's on-disk directory from one store root
// to another, implementing the physical half of Merge's "files from other's
// directory are renamed into self's directory".
func renameSegmentDir(fromRoot, toRoot, id string) error {
	from := filepath.Join(fromRoot, id)
	to := filepath.Join(toRoot, id)
	if err := os.MkdirAll(toRoot, 0o755); err != nil {
		return err
	}
	return os.Rename(from, to)
}
