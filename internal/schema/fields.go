package schema

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Field names, exactly matching model.Document's exported field names so
// bleve's default struct-reflection addressing lines up without json tags.
const (
	FieldTitle              = "Title"
	FieldCleanBody          = "CleanBody"
	FieldStemmedCleanBody   = "StemmedCleanBody"
	FieldAllBody            = "AllBody"
	FieldURL                = "Url"
	FieldURLNoTokenizer     = "UrlNoTokenizer"
	FieldUrlForSiteOperator = "UrlForSiteOperator"
	FieldSite               = "Site"
	FieldDomain             = "Domain"
	FieldDescription        = "Description"
	FieldDmozDescription    = "DmozDescription"
	FieldMicroformatTags    = "MicroformatTags"
	FieldFlattenedSchemaOrg = "FlattenedSchemaOrgJson"
	FieldKeywords           = "Keywords"
	FieldRecipeIngredientID = "RecipeFirstIngredientTagId"
	FieldBodyBigram         = "BodyBigram"
	FieldBodyTrigram        = "BodyTrigram"

	FieldPreComputedScore     = "PreComputedScore"
	FieldHostCentrality       = "HostCentrality"
	FieldPageCentrality       = "PageCentrality"
	FieldFetchTimeMs          = "FetchTimeMs"
	FieldRegion               = "Region"
	FieldLastUpdated          = "LastUpdated"
	FieldHostNodeID           = "HostNodeID"
	FieldLikelyHasAds         = "LikelyHasAds"
	FieldLikelyHasPaywall     = "LikelyHasPaywall"
	FieldSafetyClassification = "SafetyClassification"
	FieldInsertionTimestamp   = "InsertionTimestamp"
)

// TextFieldGroup lists the Text fields a bare simple term's should-union
// spans (§4.C "Operator tree"), in the default per-field weight order.
var TextFieldGroup = []string{
	FieldTitle,
	FieldCleanBody,
	FieldStemmedCleanBody,
	FieldAllBody,
	FieldDescription,
	FieldDmozDescription,
	FieldURL,
	FieldSite,
	FieldDomain,
}

// BuildIndexMapping constructs the document mapping for the "document" type:
// Text fields analysed into postings, Fast fields stored column-wise without
// analysis, and the Stored-only SchemaOrgJson field kept for materialisation
// but never matched against (§3, §4.A).
func BuildIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	if err := RegisterAll(im); err != nil {
		return nil, err
	}

	doc := bleve.NewDocumentMapping()

	textField := func(analyzer string) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzer
		return fm
	}
	// named re-indexes the same struct property under a distinct index field
	// name with its own analyzer, e.g. CleanBody analysed once by "default"
	// and again, under FieldStemmedCleanBody, by "stemmed".
	named := func(analyzer, name string) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analyzer
		fm.Name = name
		return fm
	}

	doc.AddFieldMappingsAt(FieldTitle, textField(AnalyzerDefault))
	doc.AddFieldMappingsAt(FieldCleanBody,
		textField(AnalyzerDefault),
		named(AnalyzerStemmed, FieldStemmedCleanBody),
		named(AnalyzerBigram, FieldBodyBigram),
		named(AnalyzerTrigram, FieldBodyTrigram),
	)
	doc.AddFieldMappingsAt(FieldAllBody, textField(AnalyzerDefault))
	// URL is indexed twice: Url splits scheme/host/path the way
	// UrlForSiteOperator does, so inurl: and optic Url() can anchor-match a
	// path segment instead of the whole address; UrlNoTokenizer keeps the
	// single-token form for exact lookups.
	doc.AddFieldMappingsAt("URL",
		named(AnalyzerSiteOperatorURL, FieldURL),
		named(AnalyzerIdentity, FieldURLNoTokenizer),
	)
	doc.AddFieldMappingsAt(FieldUrlForSiteOperator, textField(AnalyzerSiteOperatorURL))
	doc.AddFieldMappingsAt(FieldSite, textField(AnalyzerIdentity))
	doc.AddFieldMappingsAt(FieldDomain, textField(AnalyzerIdentity))
	doc.AddFieldMappingsAt(FieldDescription, textField(AnalyzerDefault))
	doc.AddFieldMappingsAt(FieldDmozDescription, textField(AnalyzerDefault))
	doc.AddFieldMappingsAt(FieldMicroformatTags, textField(AnalyzerDefault))
	doc.AddFieldMappingsAt(FieldFlattenedSchemaOrg, textField(AnalyzerJSONFlatten))
	doc.AddFieldMappingsAt(FieldKeywords, textField(AnalyzerDefault))
	doc.AddFieldMappingsAt(FieldRecipeIngredientID, textField(AnalyzerIdentity))

	// SchemaOrgJson is stored for materialisation but never analysed: it is
	// loaded, not searched. Disabling it keeps it out of the term dictionary.
	schemaOrg := bleve.NewDocumentDisabledMapping()
	doc.AddSubDocumentMapping("SchemaOrgJson", schemaOrg)

	fast := bleve.NewNumericFieldMapping()
	fast.Store = true
	fast.Index = true
	for _, f := range []string{FieldPreComputedScore, FieldHostCentrality, FieldPageCentrality} {
		doc.AddFieldMappingsAt(f, fast)
	}

	fastInt := bleve.NewNumericFieldMapping()
	fastInt.Store = true
	fastInt.Index = true
	doc.AddFieldMappingsAt(FieldFetchTimeMs, fastInt)
	doc.AddFieldMappingsAt(FieldHostNodeID, fastInt)

	fastBool := bleve.NewBooleanFieldMapping()
	fastBool.Store = true
	fastBool.Index = true
	doc.AddFieldMappingsAt(FieldLikelyHasAds, fastBool)
	doc.AddFieldMappingsAt(FieldLikelyHasPaywall, fastBool)

	fastDate := bleve.NewDateTimeFieldMapping()
	fastDate.Store = true
	fastDate.Index = true
	doc.AddFieldMappingsAt(FieldLastUpdated, fastDate)
	doc.AddFieldMappingsAt(FieldInsertionTimestamp, fastDate)

	fastKeyword := bleve.NewTextFieldMapping()
	fastKeyword.Analyzer = AnalyzerIdentity
	fastKeyword.Store = true
	doc.AddFieldMappingsAt(FieldRegion, fastKeyword)
	doc.AddFieldMappingsAt(FieldSafetyClassification, fastKeyword)

	im.AddDocumentMapping("document", doc)
	im.DefaultMapping = doc
	im.DefaultType = "document"

	return im, nil
}
