// Package indexer stores bookmarks and keeps the keyword index in sync with storage.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/keyword"
	"github.com/hyperjump/shirushi/internal/metrics"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

// reindexPageSize is the number of bookmarks read per storage page during Reindex.
const reindexPageSize = 500

// Indexer writes bookmarks to storage and the keyword index.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	logger       *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (bookmark indexed, file imported, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
// Options (e.g. WithLogger) can be passed for debug logging.
func NewIndexer(
	storage storage.Storage,
	keywordIndex keyword.KeywordIndex,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		storage:      storage,
		keywordIndex: keywordIndex,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexBookmark stores and indexes a bookmark. A bookmark whose URL is equivalent to
// an existing one updates it in place, keeping its ID and creation time; so does an
// input whose ID names an existing bookmark. Otherwise a new bookmark is created with
// input.ID, or a new UUID when the ID is empty.
func (idx *Indexer) IndexBookmark(ctx context.Context, input *models.BookmarkInput) (*models.Bookmark, error) {
	return idx.indexBookmark(ctx, input, metrics.SourceAPI)
}

func (idx *Indexer) indexBookmark(ctx context.Context, input *models.BookmarkInput, source string) (*models.Bookmark, error) {
	input.URL = strings.TrimSpace(input.URL)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := idx.findExisting(ctx, input)
	if err != nil {
		return nil, err
	}

	b := &models.Bookmark{
		URL:         input.URL,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Tags:        keyword.NormalizeTags(input.Tags),
	}
	if existing != nil {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
		if err := idx.storage.UpdateBookmark(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to update bookmark: %w", err)
		}
	} else {
		b.ID = input.ID
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		b.CreatedAt = input.CreatedAt.UTC()
		if err := idx.storage.CreateBookmark(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to store bookmark: %w", err)
		}
	}

	if err := idx.keywordIndex.Index(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to index keywords: %w", err)
	}
	metrics.RecordIndexed(source, 1)
	if idx.logger != nil {
		idx.logger.Debug("indexer bookmark indexed",
			zap.String("id", b.ID), zap.String("url", b.URL), zap.Bool("updated", existing != nil))
	}
	return b, nil
}

// findExisting returns the bookmark input should update, or nil when it is new.
func (idx *Indexer) findExisting(ctx context.Context, input *models.BookmarkInput) (*models.Bookmark, error) {
	b, err := idx.storage.GetBookmarkByURL(ctx, input.URL)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up bookmark by url: %w", err)
	}
	if input.ID == "" {
		return nil, nil
	}
	b, err = idx.storage.GetBookmark(ctx, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up bookmark %s: %w", input.ID, err)
	}
	return b, nil
}

// DeleteBookmark removes a bookmark from the keyword index and storage.
// Returns an error wrapping storage.ErrNotFound if the bookmark does not exist.
func (idx *Indexer) DeleteBookmark(ctx context.Context, id string) error {
	if idx.logger != nil {
		idx.logger.Debug("indexer deleting bookmark", zap.String("id", id))
	}
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	if err := idx.storage.DeleteBookmark(ctx, id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

// ImportFile parses a browser bookmark export at path and indexes every entry.
// Returns the number of bookmarks indexed.
func (idx *Indexer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	n, err := idx.ImportReader(ctx, f)
	if idx.logger != nil {
		idx.logger.Debug("indexer file imported", zap.String("path", path), zap.Int("bookmarks", n))
	}
	return n, err
}

// ImportReader parses a browser bookmark export from r and indexes every entry.
// Entries that fail validation are skipped. Returns the number of bookmarks indexed.
func (idx *Indexer) ImportReader(ctx context.Context, r io.Reader) (int, error) {
	inputs, err := extract.ParseNetscape(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse export file: %w", err)
	}
	n := 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := idx.indexBookmark(ctx, input, metrics.SourceImport); err != nil {
			if idx.logger != nil {
				idx.logger.Debug("indexer skipping bookmark", zap.String("url", input.URL), zap.Error(err))
			}
			continue
		}
		n++
	}
	return n, nil
}

// ImportDirectory walks dir recursively and imports each regular file whose extension
// is in allowedExts (if non-nil and non-empty; otherwise all files). Returns the number
// of bookmarks indexed and the first error encountered, if any.
func (idx *Indexer) ImportDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so we only import regular files
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		count, importErr := idx.ImportFile(ctx, path)
		n += count
		return importErr
	})
	return n, err
}

// Reindex rebuilds the keyword index from storage. Returns the number of bookmarks indexed.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	n := 0
	for offset := 0; ; offset += reindexPageSize {
		page, err := idx.storage.ListBookmarks(ctx, offset, reindexPageSize)
		if err != nil {
			return n, fmt.Errorf("failed to list bookmarks: %w", err)
		}
		for _, b := range page {
			if err := idx.keywordIndex.Index(ctx, b); err != nil {
				return n, fmt.Errorf("failed to index bookmark %s: %w", b.ID, err)
			}
			n++
		}
		if len(page) < reindexPageSize {
			break
		}
	}
	metrics.RecordIndexed(metrics.SourceReindex, n)
	if idx.logger != nil {
		idx.logger.Debug("indexer reindexed", zap.Int("bookmarks", n))
	}
	return n, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
