package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperjump/wyvern/internal/model"
)

func TestDeduplicator_FirstSeenIsFree(t *testing.T) {
	d := NewDeduplicator(DefaultDedupPenalties())
	penalty := d.Penalize(model.ContentHashes{Site: 1, Title: 2, URL: 3, URLNoTLD: 4})
	assert.Equal(t, 0.0, penalty)
}

func TestDeduplicator_RepeatedSitePenalized(t *testing.T) {
	d := NewDeduplicator(DefaultDedupPenalties())
	d.Penalize(model.ContentHashes{Site: 1, Title: 2, URL: 3, URLNoTLD: 4})

	penalty := d.Penalize(model.ContentHashes{Site: 1, Title: 20, URL: 30, URLNoTLD: 40})
	assert.Equal(t, DefaultSitePenalty, penalty)
}

func TestDeduplicator_AllFourHashesOverlap(t *testing.T) {
	penalties := DefaultDedupPenalties()
	d := NewDeduplicator(penalties)
	h := model.ContentHashes{Site: 1, Title: 2, URL: 3, URLNoTLD: 4}
	d.Penalize(h)

	penalty := d.Penalize(h)
	want := penalties.Site + penalties.Title + penalties.URL + penalties.URLWithoutTLD
	assert.Equal(t, want, penalty)
}

func TestDeduplicator_DistinctHashesNeverPenalized(t *testing.T) {
	d := NewDeduplicator(DefaultDedupPenalties())
	d.Penalize(model.ContentHashes{Site: 1, Title: 2, URL: 3, URLNoTLD: 4})

	penalty := d.Penalize(model.ContentHashes{Site: 5, Title: 6, URL: 7, URLNoTLD: 8})
	assert.Equal(t, 0.0, penalty)
}
