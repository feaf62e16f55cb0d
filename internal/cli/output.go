// Package cli formats search output for the shirushi command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/search"
	"github.com/hyperjump/shirushi/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact is one line per result: rank, highlighted title and URL.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// ParseOutputFormat parses an output format name.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch f := SearchOutputFormat(strings.ToLower(s)); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be text, compact, or json", s)
	}
}

// descriptionWidth is the number of runes of a description shown in text output.
const descriptionWidth = 200

// Options controls search output.
type Options struct {
	Format SearchOutputFormat
	// Color highlights matched terms in text and compact output.
	Color bool
}

// WriteSearchResults writes search results to w.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, opts Options) error {
	switch opts.Format {
	case OutputJSON:
		return WriteJSON(w, response)
	case OutputCompact:
		writeCompact(w, response, newStyles(opts.Color))
		return nil
	default:
		writeText(w, response, newStyles(opts.Color))
		return nil
	}
}

func writeText(w io.Writer, response *models.SearchResponse, st *styles) {
	fmt.Fprintf(w, "\nFound %d bookmarks in %dms", response.Total, response.QueryTime)
	if len(response.Terms) > 0 {
		fmt.Fprintf(w, " (terms: %s)", strings.Join(quoteAll(response.Terms), ", "))
	}
	fmt.Fprint(w, "\n\n")
	for _, result := range response.Results {
		writeOneResult(w, result, response.Terms, st)
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult, terms []string, st *styles) {
	b := result.Bookmark
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%s %s\n", st.dim.Sprintf("%d.", result.Rank), render(result, models.FieldTitle, b.Title, st, st.title))
	fmt.Fprintf(w, "   %s\n", render(result, models.FieldURL, b.URL, st, nil))
	if len(b.Tags) > 0 {
		fmt.Fprintf(w, "   %s\n", st.dim.Sprint("#"+strings.Join(b.Tags, " #")))
	}
	if b.Description != "" {
		desc := utils.Truncate(utils.SingleLine(b.Description), descriptionWidth)
		segments := search.Highlight(desc, terms)
		fmt.Fprintf(w, "   %s\n", search.JoinSegments(segments, func(s string) string { return st.match.Sprint(s) }))
	}
	fmt.Fprintln(w)
}

func writeCompact(w io.Writer, response *models.SearchResponse, st *styles) {
	for _, result := range response.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\n",
			result.Rank,
			render(result, models.FieldTitle, result.Bookmark.Title, st, nil),
			render(result, models.FieldURL, result.Bookmark.URL, st, nil))
	}
}

// render joins the highlight segments stored for field, falling back to the raw text.
// base, when non-nil, styles the unmatched runs.
func render(result *models.SearchResult, field, text string, st *styles, base *color.Color) string {
	segments, ok := result.Highlights[field]
	if !ok {
		segments = []models.Segment{{Text: text}}
	}
	var sb strings.Builder
	for _, seg := range segments {
		switch {
		case seg.IsMatch:
			sb.WriteString(st.match.Sprint(seg.Text))
		case base != nil:
			sb.WriteString(base.Sprint(seg.Text))
		default:
			sb.WriteString(seg.Text)
		}
	}
	return sb.String()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTerms writes the extracted terms of a query, one per line, or as a JSON array.
func WriteTerms(w io.Writer, terms []string, format SearchOutputFormat) error {
	if format == OutputJSON {
		if terms == nil {
			terms = []string{}
		}
		return WriteJSON(w, terms)
	}
	for _, t := range terms {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
	}
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
