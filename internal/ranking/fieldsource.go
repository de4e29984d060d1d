package ranking

import (
	"net/url"
	"strings"

	"github.com/hyperjump/wyvern/internal/schema"
	"github.com/hyperjump/wyvern/internal/store"
)

// storedFieldSource adapts store.StoredFields to operator.FieldSource so
// Pattern/Union nodes can re-check a candidate after bleve retrieval.
type storedFieldSource struct {
	f *store.StoredFields
}

func (s storedFieldSource) Field(name string) string {
	switch name {
	case schema.FieldURL:
		return urlStructureTokens(s.f.URL)
	case schema.FieldURLNoTokenizer:
		return s.f.URL
	case schema.FieldUrlForSiteOperator:
		return s.f.URLForSiteOperator
	case schema.FieldSite:
		return s.f.Site
	case schema.FieldDomain:
		return s.f.Domain
	case schema.FieldTitle:
		return s.f.Title
	case schema.FieldDescription:
		return s.f.Description
	case schema.FieldDmozDescription:
		return s.f.DmozDescription
	case schema.FieldCleanBody:
		return s.f.CleanBody
	case schema.FieldFlattenedSchemaOrg:
		return strings.Join(s.f.FlattenedSchemaOrg, " ")
	case schema.FieldMicroformatTags:
		return strings.Join(s.f.MicroformatTags, " ")
	default:
		return ""
	}
}

// urlStructureTokens renders raw the same way the Url field's
// site-operator-url analyzer tokenizes it at index time: scheme, host
// labels, and path segments, space-joined so Pattern.Evaluate's
// strings.Fields re-check walks the same units bleve matched against.
func urlStructureTokens(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parts := []string{u.Scheme}
	parts = append(parts, strings.Split(strings.TrimPrefix(u.Hostname(), "www."), ".")...)
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, " ")
}
