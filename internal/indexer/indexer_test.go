package indexer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.PrepareWriter()
	return s
}

func TestBuildDocument_ExtractsTitleDescriptionAndBody(t *testing.T) {
	wp := &model.Webpage{
		URL: "https://example.com/posts/hello",
		HTML: `<html><head><title>Hello World</title>
			<meta name="description" content="A short page about Go.">
			<meta name="keywords" content="go, search, ranking"></head>
			<body><script>var x = 1;</script><p>Learn Go search ranking today.</p></body></html>`,
	}
	doc, err := buildDocument(wp)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", doc.Title)
	assert.Equal(t, "A short page about Go.", doc.Description)
	assert.Contains(t, doc.CleanBody, "Learn Go search ranking today.")
	assert.NotContains(t, doc.CleanBody, "var x = 1")
	assert.Equal(t, []string{"go", "search", "ranking"}, doc.Keywords)
	assert.Equal(t, "example.com", doc.Domain)
	assert.Equal(t, []string{"https", "example.com", "posts", "hello"}, strings.Fields(doc.UrlForSiteOperator))
	assert.Empty(t, doc.Site, "non-homepage URL should not populate Site")
}

func TestBuildDocument_HomepagePopulatesSite(t *testing.T) {
	wp := &model.Webpage{URL: "https://example.com", HTML: "<html><body>welcome</body></html>"}
	doc, err := buildDocument(wp)
	require.NoError(t, err)
	assert.Equal(t, "example.com", doc.Site)
}

func TestBuildDocument_RejectsMissingURL(t *testing.T) {
	_, err := buildDocument(&model.Webpage{HTML: "<html></html>"})
	assert.Error(t, err)
}

func TestBuildDocument_ParsesSchemaOrgJSONLD(t *testing.T) {
	wp := &model.Webpage{
		URL: "https://example.com/recipes/soup",
		HTML: `<html><body><script type="application/ld+json">
			{"@type": "Recipe", "name": "Soup", "recipeIngredient": ["carrot", "onion"]}
		</script></body></html>`,
	}
	doc, err := buildDocument(wp)
	require.NoError(t, err)
	require.Len(t, doc.SchemaOrgJson, 1)
	assert.Equal(t, "Recipe", doc.SchemaOrgJson[0].Type)
	assert.Equal(t, "carrot", doc.RecipeFirstIngredientTagId)
	assert.Contains(t, doc.FlattenedSchemaOrgJson, "Recipe.name")
}

func TestBuildDocument_CarriesUpstreamSignals(t *testing.T) {
	nodeID := uint64(7)
	now := time.Now().Truncate(time.Second)
	wp := &model.Webpage{
		URL: "https://example.com/a", HTML: "<html><body>a</body></html>",
		HostCentrality: 0.5, PageCentrality: 0.25, PreComputedScore: 1.5,
		FetchTimeMs: 42, InsertedAt: now, NodeID: &nodeID,
		SafetyClassification: model.SafetyNSFW,
	}
	doc, err := buildDocument(wp)
	require.NoError(t, err)
	assert.Equal(t, 0.5, doc.HostCentrality)
	assert.Equal(t, 0.25, doc.PageCentrality)
	assert.Equal(t, 1.5, doc.PreComputedScore)
	assert.Equal(t, uint64(42), doc.FetchTimeMs)
	assert.True(t, doc.LastUpdated.Equal(now))
	assert.Equal(t, uint64(7), doc.HostNodeID)
	assert.Equal(t, model.SafetyNSFW, doc.SafetyClassification)
}

func TestIndexer_IndexBatch_CommitsAllPagesTogether(t *testing.T) {
	s := openTestStore(t)
	idx := New(s)

	n, err := idx.IndexBatch([]*model.Webpage{
		{URL: "https://a.example/", HTML: "<html><body>alpha</body></html>"},
		{URL: "https://b.example/", HTML: "<html><body>beta</body></html>"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := s.GetWebpage("https://a.example/")
	require.NoError(t, err)
	assert.Contains(t, f.AllBody, "alpha")
}

func TestIndexer_IndexJSONLReader_DecodesEachLine(t *testing.T) {
	s := openTestStore(t)
	idx := New(s)

	body := `{"URL":"https://a.example/","HTML":"<html><body>alpha</body></html>"}
{"URL":"https://b.example/","HTML":"<html><body>beta</body></html>"}
`
	n, err := idx.IndexJSONLReader(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.GetWebpage("https://b.example/")
	require.NoError(t, err)
}
