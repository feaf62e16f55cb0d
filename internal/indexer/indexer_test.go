package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/keyword"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

const exportHTML = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<DL><p>
    <DT><H3>Go</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/blog" ADD_DATE="1700000000" TAGS="News">The Go Blog</A>
        <DD>News from the Go team
        <DT><A HREF="https://pkg.go.dev/">Go Packages</A>
    </DL><p>
    <DT><A HREF="javascript:void(0)">Bookmarklet</A>
    <DT><A HREF="https://doc.rust-lang.org/book/">The Rust Book</A>
</DL><p>
`

func testIndexer(t *testing.T) (*Indexer, storage.Storage, *keyword.BleveIndex) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "bookmarks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	kwIndex, err := keyword.NewBleveIndex(filepath.Join(dir, "bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kwIndex.Close() })
	return NewIndexer(store, kwIndex, WithLogger(zap.NewNop())), store, kwIndex
}

func searchIDs(t *testing.T, idx keyword.KeywordIndex, q *keyword.Query) []string {
	t.Helper()
	hits, _, err := idx.Search(context.Background(), q, 0, 100, nil)
	require.NoError(t, err)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

func TestIndexBookmark_create(t *testing.T) {
	idx, store, kw := testIndexer(t)
	ctx := context.Background()

	b, err := idx.IndexBookmark(ctx, &models.BookmarkInput{
		URL:         " https://go.dev/blog ",
		Title:       "  The Go Blog ",
		Description: "News",
		Tags:        []string{"Go", "Web Dev", "go"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "https://go.dev/blog", b.URL)
	assert.Equal(t, "The Go Blog", b.Title)
	assert.Equal(t, []string{"go", "web-dev"}, b.Tags)

	stored, err := store.GetBookmark(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Tags, stored.Tags)
	assert.Equal(t, []string{b.ID}, searchIDs(t, kw, &keyword.Query{Filters: []keyword.Filter{{Field: "tag", Value: "web dev"}}}))
}

func TestIndexBookmark_presetIDAndCreatedAt(t *testing.T) {
	idx, _, _ := testIndexer(t)
	added := time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC)
	b, err := idx.IndexBookmark(context.Background(), &models.BookmarkInput{
		ID: "fixed", URL: "https://example.com", CreatedAt: added,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", b.ID)
	assert.True(t, added.Equal(b.CreatedAt))
}

func TestIndexBookmark_upsertByURL(t *testing.T) {
	idx, store, kw := testIndexer(t)
	ctx := context.Background()

	first, err := idx.IndexBookmark(ctx, &models.BookmarkInput{URL: "https://Go.dev/blog/", Title: "Old title"})
	require.NoError(t, err)
	second, err := idx.IndexBookmark(ctx, &models.BookmarkInput{URL: "https://go.dev/blog#top", Title: "New title", Tags: []string{"news"}})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "equivalent URLs update the same bookmark")
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	n, err := store.CountBookmarks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stored, err := store.GetBookmark(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", stored.Title)
	assert.Empty(t, searchIDs(t, kw, &keyword.Query{Text: []string{"old"}}))
	assert.Equal(t, []string{first.ID}, searchIDs(t, kw, &keyword.Query{Text: []string{"new"}}))
}

func TestIndexBookmark_updateByID(t *testing.T) {
	idx, store, _ := testIndexer(t)
	ctx := context.Background()

	first, err := idx.IndexBookmark(ctx, &models.BookmarkInput{ID: "b1", URL: "https://old.example.com"})
	require.NoError(t, err)
	_, err = idx.IndexBookmark(ctx, &models.BookmarkInput{ID: "b1", URL: "https://new.example.com"})
	require.NoError(t, err)

	stored, err := store.GetBookmark(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", stored.URL)
	assert.True(t, first.CreatedAt.Equal(stored.CreatedAt))
}

func TestIndexBookmark_invalid(t *testing.T) {
	idx, _, _ := testIndexer(t)
	for _, u := range []string{"", "not a url", "/relative/path"} {
		_, err := idx.IndexBookmark(context.Background(), &models.BookmarkInput{URL: u})
		assert.Error(t, err, u)
	}
}

func TestDeleteBookmark(t *testing.T) {
	idx, store, kw := testIndexer(t)
	ctx := context.Background()

	b, err := idx.IndexBookmark(ctx, &models.BookmarkInput{URL: "https://go.dev", Title: "Go"})
	require.NoError(t, err)
	require.NoError(t, idx.DeleteBookmark(ctx, b.ID))

	_, err = store.GetBookmark(ctx, b.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	assert.Empty(t, searchIDs(t, kw, &keyword.Query{Text: []string{"go"}}))

	err = idx.DeleteBookmark(ctx, b.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestImportReader(t *testing.T) {
	idx, store, kw := testIndexer(t)
	ctx := context.Background()

	n, err := idx.ImportReader(ctx, strings.NewReader(exportHTML))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	blog, err := store.GetBookmarkByURL(ctx, "https://go.dev/blog")
	require.NoError(t, err)
	assert.Equal(t, "The Go Blog", blog.Title)
	assert.Equal(t, "News from the Go team", blog.Description)
	assert.Equal(t, []string{"go", "news"}, blog.Tags)
	assert.True(t, time.Unix(1700000000, 0).Equal(blog.CreatedAt))

	assert.Len(t, searchIDs(t, kw, &keyword.Query{Filters: []keyword.Filter{{Field: "tag", Value: "go"}}}), 2)

	// Importing the same export again updates in place.
	n, err = idx.ImportReader(ctx, strings.NewReader(exportHTML))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	count, err := store.CountBookmarks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestImportFile(t *testing.T) {
	idx, _, _ := testIndexer(t)
	path := filepath.Join(t.TempDir(), "bookmarks.html")
	require.NoError(t, os.WriteFile(path, []byte(exportHTML), 0600))

	n, err := idx.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = idx.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestImportReader_cancelled(t *testing.T) {
	idx, _, _ := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := idx.ImportReader(ctx, strings.NewReader(exportHTML))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestImportDirectory(t *testing.T) {
	idx, _, _ := testIndexer(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chrome.html"), []byte(exportHTML), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old", "firefox.htm"),
		[]byte(`<DL><DT><A HREF="https://www.mozilla.org/">Mozilla</A></DL>`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("https://ignored.example"), 0600))

	n, err := idx.ImportDirectory(context.Background(), dir, []string{".html", ".htm"})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = idx.ImportDirectory(context.Background(), filepath.Join(dir, "notes.txt"), nil)
	assert.Error(t, err, "not a directory")
}

func TestReindex(t *testing.T) {
	idx, store, _ := testIndexer(t)
	ctx := context.Background()
	for _, u := range []string{"https://a.example", "https://b.example"} {
		require.NoError(t, store.CreateBookmark(ctx, &models.Bookmark{ID: u, URL: u, Title: "only in storage"}))
	}
	_, err := idx.IndexBookmark(ctx, &models.BookmarkInput{URL: "https://c.example", Title: "indexed"})
	require.NoError(t, err)

	n, err := idx.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	fresh, err := keyword.NewBleveIndex(filepath.Join(t.TempDir(), "fresh"))
	require.NoError(t, err)
	defer fresh.Close()
	n, err = NewIndexer(store, fresh).Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	count, err := fresh.DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestExtensionAllowed(t *testing.T) {
	tests := []struct {
		ext     string
		allowed []string
		want    bool
	}{
		{".html", []string{".html", ".htm"}, true},
		{".HTML", []string{".html"}, true},
		{".htm", []string{"htm"}, true},
		{".json", []string{".html"}, false},
		{"", []string{".html"}, false},
	}
	for _, tt := range tests {
		got := extensionAllowed(tt.ext, tt.allowed)
		if got != tt.want {
			t.Errorf("extensionAllowed(%q, %v) = %v, want %v", tt.ext, tt.allowed, got, tt.want)
		}
	}
}
