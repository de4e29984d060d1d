package store

import (
	"github.com/hyperjump/wyvern/internal/model"
)

// copyDocument transfers one live document into dst by reconstructing an
// equivalent Document from its stored fields and re-inserting it through the
// normal analysis path. Re-analysis is deterministic, so merge satisfies
// "results-before-merge and results-after-merge are identical as sets" even
// though the new segment's postings are freshly built rather than copied.
func copyDocument(dst *segment, fields *StoredFields) error {
	return segmentInsert(dst, rehydrateDocument(fields))
}

// rehydrateDocument reverses the Document -> StoredFields projection
// performed by insertFields, for use by merge's reindex pass.
func rehydrateDocument(f *StoredFields) *model.Document {
	return &model.Document{
		Title:                      f.Title,
		CleanBody:                  f.CleanBody,
		AllBody:                    f.AllBody,
		URL:                        f.URL,
		UrlForSiteOperator:         f.URLForSiteOperator,
		Site:                       f.Site,
		Domain:                     f.Domain,
		Description:                f.Description,
		DmozDescription:            f.DmozDescription,
		MicroformatTags:            f.MicroformatTags,
		FlattenedSchemaOrgJson:     f.FlattenedSchemaOrg,
		Keywords:                   f.Keywords,
		RecipeFirstIngredientTagId: f.RecipeFirstIngredientTagId,
		SchemaOrgJson:              f.SchemaOrg,
		PreComputedScore:           f.PreComputedScore,
		HostCentrality:             f.HostCentrality,
		PageCentrality:             f.PageCentrality,
		FetchTimeMs:                f.FetchTimeMs,
		Region:                     f.Region,
		LastUpdated:                f.LastUpdated,
		HostNodeID:                 f.HostNodeID,
		LikelyHasAds:               f.LikelyHasAds,
		LikelyHasPaywall:           f.LikelyHasPaywall,
		SafetyClassification:       f.SafetyClassification,
		InsertionTimestamp:         f.InsertionTimestamp,
	}
}
