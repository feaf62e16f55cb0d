// Package search provides query term extraction, highlighting and the bookmark search engine.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/keyword"
	"github.com/hyperjump/shirushi/internal/metrics"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

// Engine runs keyword search over bookmarks and highlights the query terms in each hit.
type Engine struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	config       *config.SearchConfig
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	storage storage.Storage,
	keywordIndex keyword.KeywordIndex,
	cfg *config.SearchConfig,
) *Engine {
	return &Engine{
		storage:      storage,
		keywordIndex: keywordIndex,
		config:       cfg,
	}
}

// Search runs the query and returns one page of results. A blank query lists
// bookmarks newest first.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (resp *models.SearchResponse, err error) {
	startTime := time.Now()
	defer func() {
		metrics.RecordSearch(err, time.Since(startTime).Seconds())
	}()

	if err := ProcessQuery(query, e.config); err != nil {
		return nil, err
	}

	terms := ExtractTerms(query.Query)
	kq := BuildKeywordQuery(query.Query)

	var results []*models.SearchResult
	var total int
	if kq.IsEmpty() {
		results, total, err = e.list(ctx, query.Offset, query.Limit)
	} else {
		results, total, err = e.search(ctx, kq, query.Offset, query.Limit)
	}
	if err != nil {
		return nil, err
	}

	matcher := NewMatcher(terms)
	for i, r := range results {
		r.Rank = query.Offset + i + 1
		r.Highlights = highlightBookmark(matcher, r.Bookmark)
	}

	return &models.SearchResponse{
		Results:   results,
		Total:     total,
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
		Terms:     terms,
	}, nil
}

func (e *Engine) search(ctx context.Context, kq *keyword.Query, offset, limit int) ([]*models.SearchResult, int, error) {
	opts := &keyword.SearchOptions{}
	if e.config != nil {
		opts.TitleBoost = e.config.TitleBoost
	}
	hits, total, err := e.keywordIndex.Search(ctx, kq, offset, limit, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("keyword search failed: %w", err)
	}

	results := make([]*models.SearchResult, 0, len(hits))
	for _, hit := range hits {
		b, err := e.storage.GetBookmark(ctx, hit.ID)
		if errors.Is(err, storage.ErrNotFound) {
			// Stale index entry.
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load bookmark %s: %w", hit.ID, err)
		}
		results = append(results, &models.SearchResult{Bookmark: b, Score: hit.Score})
	}
	return results, int(total), nil
}

func (e *Engine) list(ctx context.Context, offset, limit int) ([]*models.SearchResult, int, error) {
	bookmarks, err := e.storage.ListBookmarks(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	count, err := e.storage.CountBookmarks(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	results := make([]*models.SearchResult, len(bookmarks))
	for i, b := range bookmarks {
		results[i] = &models.SearchResult{Bookmark: b}
	}
	return results, int(count), nil
}

// highlightBookmark segments the displayed fields of b.
func highlightBookmark(m *Matcher, b *models.Bookmark) map[string][]models.Segment {
	return map[string][]models.Segment{
		models.FieldTitle:       m.Segments(b.Title),
		models.FieldURL:         m.Segments(b.URL),
		models.FieldDescription: m.Segments(b.Description),
	}
}

// IndexSize returns the number of bookmarks in the keyword index.
func (e *Engine) IndexSize() (uint64, error) {
	return e.keywordIndex.DocCount()
}
