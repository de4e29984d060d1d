package model

// DocAddress locates a document within an index: its segment and local
// (within-segment) document id.
type DocAddress struct {
	SegmentID  string
	LocalDocID uint32
}

// ContentHashes are content-derived signatures used by the collector's
// deduplication pass (§4.E) and computed by internal/hashing at index time.
type ContentHashes struct {
	Site          uint64
	Title         uint64
	URL           uint64
	URLNoTLD      uint64
}

// WebsitePointer is the reference returned by collection: a score, an
// address, and the hashes needed for near-duplicate suppression.
type WebsitePointer struct {
	Score   float64
	Hashes  ContentHashes
	Address DocAddress
}
