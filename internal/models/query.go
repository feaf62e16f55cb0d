package models

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned (wrapped) when a SearchQuery has a negative limit or offset.
var ErrInvalidQuery = errors.New("invalid search query")

// SearchQuery represents a search request. Query is the raw text typed into the
// search bar; it may mix plain keywords with field:value constraints.
type SearchQuery struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Validate rejects a negative limit or offset, then applies the default limit to a
// zero limit and caps it at maxLimit. An empty query is allowed and lists bookmarks
// newest first.
func (q *SearchQuery) Validate(defaultLimit, maxLimit int) error {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative: %d", ErrInvalidQuery, q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative: %d", ErrInvalidQuery, q.Offset)
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return nil
}
