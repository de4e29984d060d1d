package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hyperjump/wyvern/internal/errs"
)

// metaFile is the on-disk catalogue (§6 "On-disk layout"): meta.json lists
// segments in max_doc-descending order so readers and mergers agree on
// iteration order without re-deriving it from directory listings.
type metaFile struct {
	Segments []string `json:"segments"`
}

func metaPath(root string) string {
	return filepath.Join(root, "meta.json")
}

func loadMeta(root string) (*metaFile, error) {
	b, err := os.ReadFile(metaPath(root))
	if os.IsNotExist(err) {
		return &metaFile{}, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, errs.IndexIO, "read meta.json")
	}
	var m metaFile
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errs.Wrap(err, errs.SegmentCorrupt, "parse meta.json")
	}
	return &m, nil
}

func saveMeta(root string, m *metaFile) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.Wrap(err, errs.IndexIO, "marshal meta.json")
	}
	tmp := metaPath(root) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errs.Wrap(err, errs.IndexIO, "write meta.json")
	}
	// rename is atomic on the same filesystem, so a crash mid-write never
	// leaves a torn meta.json for the next open to choke on.
	if err := os.Rename(tmp, metaPath(root)); err != nil {
		return errs.Wrap(err, errs.IndexIO, "publish meta.json")
	}
	return nil
}
