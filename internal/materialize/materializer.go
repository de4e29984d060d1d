package materialize

import (
	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/store"
)

// Materializer hydrates WebsitePointers from a collection pass into full
// RetrievedWebpage result records (§4.F).
type Materializer struct{}

// New returns a Materializer. It is stateless: every call takes the segment
// snapshot it should read from, so a single instance is safe to reuse across
// queries against different store snapshots.
func New() *Materializer {
	return &Materializer{}
}

// Hydrate resolves each pointer's stored fields against segments and builds
// its RetrievedWebpage, including a snippet built from simpleTerms. Pointers
// whose document can no longer be resolved (tombstoned or evicted between
// collection and materialisation) are skipped rather than failing the whole
// response.
func (m *Materializer) Hydrate(segments []store.Segment, pointers []model.WebsitePointer, simpleTerms []string) []*model.RetrievedWebpage {
	bySegment := make(map[string]store.Segment, len(segments))
	for _, seg := range segments {
		bySegment[seg.ID()] = seg
	}

	out := make([]*model.RetrievedWebpage, 0, len(pointers))
	for _, ptr := range pointers {
		seg, ok := bySegment[ptr.Address.SegmentID]
		if !ok {
			continue
		}
		fields, err := seg.Fields(ptr.Address.LocalDocID)
		if err != nil {
			continue
		}
		out = append(out, hydrateOne(fields, simpleTerms))
	}
	return out
}

func hydrateOne(f *store.StoredFields, simpleTerms []string) *model.RetrievedWebpage {
	isHomepage := model.IsHomepage(f.URL)
	snippet := BuildSnippet(f.CleanBody, f.Description, simpleTerms, isHomepage)

	rw := &model.RetrievedWebpage{
		URL:                        f.URL,
		Title:                      f.Title,
		Body:                       f.CleanBody,
		Snippet:                    snippet,
		Description:                f.Description,
		DmozDescription:            f.DmozDescription,
		Region:                     f.Region,
		SchemaOrg:                  f.SchemaOrg,
		LikelyHasAds:               f.LikelyHasAds,
		LikelyHasPaywall:           f.LikelyHasPaywall,
		RecipeFirstIngredientTagId: f.RecipeFirstIngredientTagId,
		Keywords:                   f.Keywords,
	}
	if !f.LastUpdated.IsZero() {
		t := f.LastUpdated
		rw.UpdatedTime = &t
	}
	return rw
}
