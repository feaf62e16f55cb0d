// Package storage defines the persistence interface for bookmarks.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/shirushi/internal/models"
)

// ErrNotFound is returned (wrapped) when a bookmark does not exist.
var ErrNotFound = errors.New("bookmark not found")

// Storage defines bookmark persistence operations.
type Storage interface {
	CreateBookmark(ctx context.Context, b *models.Bookmark) error
	GetBookmark(ctx context.Context, id string) (*models.Bookmark, error)
	// GetBookmarkByURL finds a bookmark whose URL is equivalent to rawURL (see urlkey.Normalize).
	GetBookmarkByURL(ctx context.Context, rawURL string) (*models.Bookmark, error)
	UpdateBookmark(ctx context.Context, b *models.Bookmark) error
	DeleteBookmark(ctx context.Context, id string) error
	ListBookmarks(ctx context.Context, offset, limit int) ([]*models.Bookmark, error)
	CountBookmarks(ctx context.Context) (int64, error)

	// Backup writes a consistent copy of the database to destPath, which must not exist.
	Backup(ctx context.Context, destPath string) error

	Close() error
}
