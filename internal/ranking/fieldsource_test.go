package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperjump/wyvern/internal/schema"
	"github.com/hyperjump/wyvern/internal/store"
)

func TestStoredFieldSource_ScalarFields(t *testing.T) {
	f := &store.StoredFields{
		URL:                "https://example.com/a",
		URLForSiteOperator: "example.com/a",
		Site:               "example.com",
		Domain:             "example.com",
		Title:              "Example Title",
		Description:        "an example page",
		DmozDescription:    "dmoz description",
		CleanBody:          "clean body text",
	}
	src := storedFieldSource{f: f}

	assert.Equal(t, "https example com a", src.Field(schema.FieldURL))
	assert.Equal(t, f.URL, src.Field(schema.FieldURLNoTokenizer))
	assert.Equal(t, f.URLForSiteOperator, src.Field(schema.FieldUrlForSiteOperator))
	assert.Equal(t, f.Site, src.Field(schema.FieldSite))
	assert.Equal(t, f.Domain, src.Field(schema.FieldDomain))
	assert.Equal(t, f.Title, src.Field(schema.FieldTitle))
	assert.Equal(t, f.Description, src.Field(schema.FieldDescription))
	assert.Equal(t, f.DmozDescription, src.Field(schema.FieldDmozDescription))
	assert.Equal(t, f.CleanBody, src.Field(schema.FieldCleanBody))
}

func TestStoredFieldSource_JoinsSliceFields(t *testing.T) {
	f := &store.StoredFields{
		FlattenedSchemaOrg: []string{"Recipe", "Organization"},
		MicroformatTags:    []string{"h-card", "h-entry"},
	}
	src := storedFieldSource{f: f}

	assert.Equal(t, "Recipe Organization", src.Field(schema.FieldFlattenedSchemaOrg))
	assert.Equal(t, "h-card h-entry", src.Field(schema.FieldMicroformatTags))
}

func TestStoredFieldSource_UnknownFieldIsEmpty(t *testing.T) {
	src := storedFieldSource{f: &store.StoredFields{}}
	assert.Equal(t, "", src.Field("NotAField"))
}
