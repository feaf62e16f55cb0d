// Package keyword provides keyword search indexing and search over bookmarks.
package keyword

import (
	"context"
	"strings"

	"github.com/gosimple/slug"

	"github.com/hyperjump/shirushi/internal/models"
)

// Indexed field names.
const (
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldDescription = "description"
	FieldTags        = "tags"
)

// fieldAliases maps query field names to indexed fields.
var fieldAliases = map[string]string{
	"title":       FieldTitle,
	"name":        FieldTitle,
	"url":         FieldURL,
	"link":        FieldURL,
	"site":        FieldURL,
	"description": FieldDescription,
	"desc":        FieldDescription,
	"note":        FieldDescription,
	"tag":         FieldTags,
	"tags":        FieldTags,
}

// CanonicalField resolves a query field name (case-insensitive) to an indexed field.
func CanonicalField(name string) (string, bool) {
	field, ok := fieldAliases[strings.ToLower(name)]
	return field, ok
}

// Filter restricts a search to bookmarks whose Field matches Value.
type Filter struct {
	Field string
	Value string
	// Phrase requires the words of Value to appear together, in order.
	Phrase bool
}

// Query is a keyword query: every Text term and every Filter must match.
type Query struct {
	Text    []string
	Filters []Filter
}

// IsEmpty reports whether q has no terms and no filters.
func (q *Query) IsEmpty() bool {
	return q == nil || (len(q.Text) == 0 && len(q.Filters) == 0)
}

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// TitleBoost multiplies the score contribution from free-text matches in the title.
	// Use 1.0 for no boost.
	TitleBoost float64
}

// KeywordIndex defines keyword search operations.
type KeywordIndex interface {
	Index(ctx context.Context, b *models.Bookmark) error
	// Search returns hits from..from+size ordered by score and the total number of hits.
	Search(ctx context.Context, q *Query, from, size int, opts *SearchOptions) ([]*KeywordResult, uint64, error)
	Delete(ctx context.Context, id string) error
	// DocCount returns the total number of bookmarks in the index.
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}

// NormalizeTag returns the indexed form of a tag: lower-case, ASCII, dash separated.
// "Web Dev" and "web-dev" normalize to the same tag.
func NormalizeTag(tag string) string {
	return slug.Make(strings.TrimSpace(tag))
}

// NormalizeTags normalizes tags, dropping empties and duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		n := NormalizeTag(tag)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
