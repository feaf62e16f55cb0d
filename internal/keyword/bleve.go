// Package keyword provides Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	keywordanalyzer "github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	regexptokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/shirushi/internal/models"
)

const (
	urlAnalyzer  = "url"
	urlTokenizer = "url_parts"
)

// bookmarkDoc is the indexed form of a bookmark.
type bookmarkDoc struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists the existing index is opened and reused.
// If you change the index mapping in code, remove the index directory and run reindex.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im, err := newIndexMapping()
	if err != nil {
		return nil, err
	}
	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func newIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	// URLs split on every non-alphanumeric rune so that "go.dev/blog" yields go, dev, blog.
	if err := im.AddCustomTokenizer(urlTokenizer, map[string]interface{}{
		"type":   regexptokenizer.Name,
		"regexp": `[\p{L}\p{N}]+`,
	}); err != nil {
		return nil, fmt.Errorf("failed to register url tokenizer: %w", err)
	}
	if err := im.AddCustomAnalyzer(urlAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     urlTokenizer,
		"token_filters": []interface{}{lowercase.Name},
	}); err != nil {
		return nil, fmt.Errorf("failed to register url analyzer: %w", err)
	}

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so "bayes" matches exactly.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(FieldTitle, textFieldMapping)
	docMapping.AddFieldMappingsAt(FieldDescription, textFieldMapping)

	urlFieldMapping := bleve.NewTextFieldMapping()
	urlFieldMapping.Analyzer = urlAnalyzer
	docMapping.AddFieldMappingsAt(FieldURL, urlFieldMapping)

	tagFieldMapping := bleve.NewTextFieldMapping()
	tagFieldMapping.Analyzer = keywordanalyzer.Name
	docMapping.AddFieldMappingsAt(FieldTags, tagFieldMapping)

	im.AddDocumentMapping("bookmark", docMapping)
	im.DefaultType = "bookmark"
	im.DefaultMapping = docMapping
	im.DefaultAnalyzer = standard.Name
	return im, nil
}

// Index indexes a bookmark by its ID.
func (b *BleveIndex) Index(ctx context.Context, bm *models.Bookmark) error {
	doc := bookmarkDoc{
		Title:       bm.Title,
		URL:         bm.URL,
		Description: bm.Description,
		Tags:        NormalizeTags(bm.Tags),
	}
	if err := b.index.Index(bm.ID, doc); err != nil {
		return fmt.Errorf("failed to index bookmark %s: %w", bm.ID, err)
	}
	return nil
}

// Search runs q and returns hits from..from+size along with the total hit count.
// Every free-text term must match in some field (title matches are boosted, a term
// also matches as a prefix). Every filter must match in its own field. Terms and filter
// values without a letter or digit are ignored. A query left with no clauses matches
// all bookmarks.
func (b *BleveIndex) Search(ctx context.Context, q *Query, from, size int, opts *SearchOptions) ([]*KeywordResult, uint64, error) {
	titleBoost := 1.0
	if opts != nil && opts.TitleBoost > 0 {
		titleBoost = opts.TitleBoost
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q, titleBoost), size, from, false)
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, results.Total, nil
}

func buildQuery(q *Query, titleBoost float64) blevequery.Query {
	if q.IsEmpty() {
		return bleve.NewMatchAllQuery()
	}
	clauses := make([]blevequery.Query, 0, len(q.Text)+len(q.Filters))
	for _, term := range q.Text {
		if !hasWordRune(term) {
			continue
		}
		clauses = append(clauses, textTermQuery(term, titleBoost))
	}
	for _, f := range q.Filters {
		if c := filterQuery(f, titleBoost); c != nil {
			clauses = append(clauses, c)
		}
	}
	if len(clauses) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(clauses...)
}

// textTermQuery matches term anywhere: as words or a word prefix in title, description
// and url, or as a tag.
func textTermQuery(term string, titleBoost float64) blevequery.Query {
	var alternatives []blevequery.Query
	for _, field := range []string{FieldTitle, FieldDescription, FieldURL} {
		boost := 1.0
		if field == FieldTitle {
			boost = titleBoost
		}
		mq := bleve.NewMatchQuery(term)
		mq.SetField(field)
		mq.SetOperator(blevequery.MatchQueryOperatorAnd)
		mq.SetBoost(boost)
		alternatives = append(alternatives, mq)

		if prefix := strings.ToLower(term); isWord(prefix) {
			pq := bleve.NewPrefixQuery(prefix)
			pq.SetField(field)
			pq.SetBoost(boost * 0.5)
			alternatives = append(alternatives, pq)
		}
	}
	if tag := NormalizeTag(term); tag != "" {
		tq := bleve.NewTermQuery(tag)
		tq.SetField(FieldTags)
		alternatives = append(alternatives, tq)
	}
	return bleve.NewDisjunctionQuery(alternatives...)
}

// filterQuery builds the clause for a field filter. Unknown fields search like free text.
// Filters whose value has no letter or digit add no clause.
func filterQuery(f Filter, titleBoost float64) blevequery.Query {
	if !hasWordRune(f.Value) {
		return nil
	}
	field, ok := CanonicalField(f.Field)
	if !ok {
		return textTermQuery(f.Value, titleBoost)
	}
	if field == FieldTags {
		tq := bleve.NewTermQuery(NormalizeTag(f.Value))
		tq.SetField(FieldTags)
		return tq
	}
	if f.Phrase {
		pq := bleve.NewMatchPhraseQuery(f.Value)
		pq.SetField(field)
		return pq
	}
	mq := bleve.NewMatchQuery(f.Value)
	mq.SetField(field)
	mq.SetOperator(blevequery.MatchQueryOperatorAnd)
	return mq
}

// hasWordRune reports whether s contains a letter or digit. The text and url analyzers
// drop everything else and tags are slugs, so a term without one can never match.
func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// isWord reports whether s is a single analyzer token, so a prefix query on it can match.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Delete removes a bookmark from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of bookmarks in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
