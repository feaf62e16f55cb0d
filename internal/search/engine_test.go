package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/keyword"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

func newTestEngine(t testing.TB) (*Engine, storage.Storage, keyword.KeywordIndex) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	kwIndex, err := keyword.NewBleveIndex(filepath.Join(t.TempDir(), "bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kwIndex.Close() })

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, b := range []*models.Bookmark{
		{ID: "blog", URL: "https://go.dev/blog", Title: "The Go Blog", Description: "News from the Go team", Tags: []string{"go", "news"}},
		{ID: "rust", URL: "https://doc.rust-lang.org/book/", Title: "The Rust Programming Language", Description: "The book", Tags: []string{"rust"}},
		{ID: "pipelines", URL: "https://go.dev/blog/pipelines", Title: "Go Concurrency Patterns: Pipelines", Description: "Cancellation and fan-in", Tags: []string{"go", "my-tag"}},
	} {
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.CreateBookmark(ctx, b))
		require.NoError(t, kwIndex.Index(ctx, b))
	}

	cfg := &config.SearchConfig{DefaultLimit: 10, MaxLimit: 50, TitleBoost: 3}
	return NewEngine(store, kwIndex, cfg), store, kwIndex
}

func resultIDs(resp *models.SearchResponse) []string {
	ids := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		ids[i] = r.Bookmark.ID
	}
	return ids
}

func TestEngine_Search_highlights(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "pipelines"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []string{"pipelines"}, resp.Terms)

	r := resp.Results[0]
	assert.Equal(t, "pipelines", r.Bookmark.ID)
	assert.Equal(t, 1, r.Rank)
	assert.Greater(t, r.Score, 0.0)
	assert.Equal(t, []models.Segment{
		{Text: "Go Concurrency Patterns: "},
		{Text: "Pipelines", IsMatch: true},
	}, r.Highlights[models.FieldTitle])
	assert.Equal(t, []models.Segment{
		{Text: "https://go.dev/blog/"},
		{Text: "pipelines", IsMatch: true},
	}, r.Highlights[models.FieldURL])
	assert.Equal(t, []models.Segment{{Text: "Cancellation and fan-in"}}, r.Highlights[models.FieldDescription])
}

func TestEngine_Search_fieldFilters(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: `tag:"my tag" concurrency`})
	require.NoError(t, err)
	assert.Equal(t, []string{"pipelines"}, resultIDs(resp))
	assert.Equal(t, []string{"my tag", "concurrency"}, resp.Terms)

	resp, err = engine.Search(ctx, &models.SearchQuery{Query: "tag:rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rust"}, resultIDs(resp))
	assert.Equal(t, []models.Segment{
		{Text: "The "},
		{Text: "Rust", IsMatch: true},
		{Text: " Programming Language"},
	}, resp.Results[0].Highlights[models.FieldTitle])
}

func TestEngine_Search_punctuationTerms(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{"go - pipelines", []string{"pipelines"}},
		{"pipelines :", []string{"pipelines"}},
		{"tag:!!! go", []string{"blog", "pipelines"}},
		{"title:--- go", []string{"blog", "pipelines"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := engine.Search(ctx, &models.SearchQuery{Query: tt.query})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, resultIDs(resp))
			assert.Equal(t, len(tt.want), resp.Total)
		})
	}

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "go - pipelines"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "-", "pipelines"}, resp.Terms)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, []models.Segment{
		{Text: "Go", IsMatch: true},
		{Text: " Concurrency Patterns: "},
		{Text: "Pipelines", IsMatch: true},
	}, resp.Results[0].Highlights[models.FieldTitle])
}

func TestEngine_Search_emptyQueryListsNewestFirst(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "   "})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []string{"pipelines", "rust", "blog"}, resultIDs(resp))
	assert.Empty(t, resp.Terms)
	assert.NotNil(t, resp.Terms)
	for _, r := range resp.Results {
		assert.Equal(t, []models.Segment{{Text: r.Bookmark.Title}}, r.Highlights[models.FieldTitle])
	}
}

func TestEngine_Search_paging(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "go", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 2, resp.Results[0].Rank)

	resp, err = engine.Search(ctx, &models.SearchQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []string{"blog"}, resultIDs(resp))
	assert.Equal(t, 3, resp.Results[0].Rank)
}

func TestEngine_Search_limitCapped(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	q := &models.SearchQuery{Query: "go", Limit: 1000}
	_, err := engine.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 50, q.Limit)
}

func TestEngine_Search_skipsStaleIndexEntries(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, store.DeleteBookmark(ctx, "rust"))

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "rust"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestEngine_Search_metacharactersAreLiteral(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "title:.* a+"})
	require.NoError(t, err)
	assert.Equal(t, []string{".*", "a+"}, resp.Terms)
	assert.Empty(t, resp.Results)
}

func TestBuildKeywordQuery(t *testing.T) {
	q := BuildKeywordQuery(`go tag:"my tag" title:blog tag:"" rest`)
	assert.Equal(t, []string{"go", "rest"}, q.Text)
	assert.Equal(t, []keyword.Filter{
		{Field: "tag", Value: "my tag", Phrase: true},
		{Field: "title", Value: "blog"},
	}, q.Filters)

	assert.True(t, BuildKeywordQuery("").IsEmpty())
	assert.True(t, BuildKeywordQuery(`tag:""`).IsEmpty())
}

func TestProcessQuery(t *testing.T) {
	q := &models.SearchQuery{Offset: 3}
	require.NoError(t, ProcessQuery(q, nil))
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 3, q.Offset)

	err := ProcessQuery(&models.SearchQuery{Offset: -3}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidQuery)

	q = &models.SearchQuery{Limit: 500}
	require.NoError(t, ProcessQuery(q, &config.SearchConfig{DefaultLimit: 5, MaxLimit: 20}))
	assert.Equal(t, 20, q.Limit)
}
