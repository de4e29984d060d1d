package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/wyvern/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func docFor(url, title string) *model.Document {
	return &model.Document{
		URL:                url,
		Title:              title,
		CleanBody:          title,
		InsertionTimestamp: time.Now(),
	}
}

func TestOpen_CreatesEmptyStore(t *testing.T) {
	s := openTestStore(t)
	assert.Empty(t, s.Snapshot())
	assert.Empty(t, s.Degraded())
}

func TestInsert_RequiresWriter(t *testing.T) {
	s := openTestStore(t)
	err := s.Insert(docFor("https://a.example/", "A"))
	assert.Error(t, err)
}

func TestInsertAndCommit_MakesDocumentVisible(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	require.NoError(t, s.Insert(docFor("https://a.example/", "Hello")))
	require.NoError(t, s.Commit())

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 1, snap[0].NumDocs())
}

func TestInsertAndCommit_NotVisibleBeforeCommit(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	require.NoError(t, s.Insert(docFor("https://a.example/", "Hello")))
	assert.Empty(t, s.Snapshot())
}

func TestCommit_WithNoPendingInsertsIsANoOp(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	require.NoError(t, s.Commit())
	assert.Empty(t, s.Snapshot())
}

func TestCommit_WithNoWriterIsANoOp(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Commit())
}

func TestGetWebpage_FindsByExactURL(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	require.NoError(t, s.Insert(docFor("https://a.example/page", "Hello")))
	require.NoError(t, s.Commit())

	f, err := s.GetWebpage("https://a.example/page")
	require.NoError(t, err)
	assert.Equal(t, "Hello", f.Title)
}

func TestGetWebpage_MissingReturnsDocMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetWebpage("https://nope.example/")
	assert.Error(t, err)
}

func TestGetHomepage_FindsBySite(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	doc := docFor("https://a.example/", "Home")
	doc.Site = "a.example"
	require.NoError(t, s.Insert(doc))
	require.NoError(t, s.Commit())

	f, err := s.GetHomepage("a.example")
	require.NoError(t, err)
	assert.Equal(t, "Home", f.Title)
}

func TestDeleteAllBefore_TombstonesOlderDocuments(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()

	old := docFor("https://old.example/", "Old")
	old.InsertionTimestamp = time.Now().Add(-48 * time.Hour)
	fresh := docFor("https://fresh.example/", "Fresh")
	fresh.InsertionTimestamp = time.Now()

	require.NoError(t, s.Insert(old))
	require.NoError(t, s.Insert(fresh))
	require.NoError(t, s.Commit())

	s.DeleteAllBefore(time.Now().Add(-1 * time.Hour))
	require.NoError(t, s.Commit())

	_, err := s.GetWebpage("https://old.example/")
	assert.Error(t, err)
	f, err := s.GetWebpage("https://fresh.example/")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", f.Title)
}

func TestSnapshot_ReflectsMultipleCommitsAsMultipleSegments(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	require.NoError(t, s.Insert(docFor("https://a.example/", "A")))
	require.NoError(t, s.Commit())
	require.NoError(t, s.Insert(docFor("https://b.example/", "B")))
	require.NoError(t, s.Commit())

	assert.Len(t, s.Snapshot(), 2)
}

func TestSetAutoMergePolicy_MergesSegmentsDownToLimit(t *testing.T) {
	s := openTestStore(t)
	s.PrepareWriter()
	s.SetAutoMergePolicy(1)

	require.NoError(t, s.Insert(docFor("https://a.example/", "A")))
	require.NoError(t, s.Commit())
	require.NoError(t, s.Insert(docFor("https://b.example/", "B")))
	require.NoError(t, s.Commit())

	assert.Len(t, s.Snapshot(), 1)
	f, err := s.GetWebpage("https://a.example/")
	require.NoError(t, err)
	assert.Equal(t, "A", f.Title)
	f, err = s.GetWebpage("https://b.example/")
	require.NoError(t, err)
	assert.Equal(t, "B", f.Title)
}

func TestReopen_RestoresSegmentsAndDocuments(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir)
	require.NoError(t, err)
	s1.PrepareWriter()
	require.NoError(t, s1.Insert(docFor("https://a.example/", "A")))
	require.NoError(t, s1.Commit())
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	assert.Len(t, s2.Snapshot(), 1)
	f, err := s2.GetWebpage("https://a.example/")
	require.NoError(t, err)
	assert.Equal(t, "A", f.Title)
}
