package search

import (
	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/keyword"
	"github.com/hyperjump/shirushi/internal/models"
)

// ProcessQuery validates and applies defaults to the search query.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig) error {
	if cfg == nil {
		return query.Validate(0, 0)
	}
	return query.Validate(cfg.DefaultLimit, cfg.MaxLimit)
}

// BuildKeywordQuery turns a query string into a keyword query: free-text pieces
// become required terms and field:value tokens become filters.
func BuildKeywordQuery(query string) *keyword.Query {
	q := &keyword.Query{}
	for _, tok := range Tokenize(query) {
		switch tok.Kind {
		case TokenText:
			q.Text = append(q.Text, tok.Value)
		case TokenField:
			if tok.Value == "" {
				continue
			}
			q.Filters = append(q.Filters, keyword.Filter{
				Field:  tok.Field,
				Value:  tok.Value,
				Phrase: tok.Quoted,
			})
		}
	}
	return q
}
