// Package models defines core data structures for bookmarks, queries, and search results.
package models

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrInvalidInput is returned (wrapped) when a BookmarkInput fails validation.
var ErrInvalidInput = errors.New("invalid bookmark")

// Bookmark represents a stored bookmark.
type Bookmark struct {
	ID          string    `json:"id" db:"id"`
	URL         string    `json:"url" db:"url"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Tags        []string  `json:"tags" db:"tags"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// BookmarkInput is the input for creating or updating a bookmark.
type BookmarkInput struct {
	ID          string   `json:"id,omitempty"`
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	// CreatedAt, when set, is kept for new bookmarks (e.g. the ADD_DATE of an imported entry).
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks that the input carries an absolute URL.
func (in *BookmarkInput) Validate() error {
	if in.URL == "" {
		return fmt.Errorf("%w: url cannot be empty", ErrInvalidInput)
	}
	u, err := url.Parse(in.URL)
	if err != nil {
		return fmt.Errorf("%w: invalid url %q: %v", ErrInvalidInput, in.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url must be absolute: %q", ErrInvalidInput, in.URL)
	}
	return nil
}
