package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/search"
)

func sampleResponse() *models.SearchResponse {
	b := &models.Bookmark{
		ID:          "b1",
		URL:         "https://go.dev/blog",
		Title:       "The Go Blog",
		Description: "News from\nthe Go team",
		Tags:        []string{"golang", "news"},
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	terms := []string{"go"}
	m := search.NewMatcher(terms)
	return &models.SearchResponse{
		Query:     "go",
		Terms:     terms,
		Total:     1,
		QueryTime: 3,
		Results: []*models.SearchResult{{
			Bookmark: b,
			Score:    1.5,
			Rank:     1,
			Highlights: map[string][]models.Segment{
				models.FieldTitle:       m.Segments(b.Title),
				models.FieldURL:         m.Segments(b.URL),
				models.FieldDescription: m.Segments(b.Description),
			},
		}},
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResults(&buf, sampleResponse(), Options{Format: OutputJSON}))

	var decoded models.SearchResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded), buf.String())
	assert.Equal(t, "go", decoded.Query)
	assert.Equal(t, []string{"go"}, decoded.Terms)
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "b1", decoded.Results[0].Bookmark.ID)
	title := decoded.Results[0].Highlights[models.FieldTitle]
	assert.Equal(t, []models.Segment{{Text: "The "}, {Text: "Go", IsMatch: true}, {Text: " Blog"}}, title)
}

func TestWriteSearchResults_textPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResults(&buf, sampleResponse(), Options{Format: OutputText}))
	out := buf.String()

	assert.Contains(t, out, "Found 1 bookmarks in 3ms")
	assert.Contains(t, out, `(terms: "go")`)
	assert.Contains(t, out, "1. The Go Blog")
	assert.Contains(t, out, "https://go.dev/blog")
	assert.Contains(t, out, "#golang #news")
	assert.Contains(t, out, "News from the Go team", "description is flattened to one line")
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteSearchResults_textColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResults(&buf, sampleResponse(), Options{Format: OutputText, Color: true}))
	out := buf.String()

	assert.Contains(t, out, "\x1b[33;1mGo")
	assert.Contains(t, out, "\x1b[33;1mgo")
}

func TestWriteSearchResults_compact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResults(&buf, sampleResponse(), Options{Format: OutputCompact}))
	assert.Equal(t, "1\tThe Go Blog\thttps://go.dev/blog\n", buf.String())
}

func TestWriteSearchResults_missingHighlights(t *testing.T) {
	resp := sampleResponse()
	resp.Results[0].Highlights = nil
	var buf bytes.Buffer
	require.NoError(t, WriteSearchResults(&buf, resp, Options{Format: OutputCompact, Color: true}))
	assert.Equal(t, "1\tThe Go Blog\thttps://go.dev/blog\n", buf.String())
}

func TestWriteTerms(t *testing.T) {
	terms := search.ExtractTerms(`foo tag:"my tag" status:done`)

	var buf bytes.Buffer
	require.NoError(t, WriteTerms(&buf, terms, OutputText))
	assert.Equal(t, "foo\nmy tag\ndone\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteTerms(&buf, terms, OutputJSON))
	var decoded []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"foo", "my tag", "done"}, decoded)

	buf.Reset()
	require.NoError(t, WriteTerms(&buf, nil, OutputJSON))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]SearchOutputFormat{
		"": OutputText, "text": OutputText, "JSON": OutputJSON, "compact": OutputCompact,
	} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOutputFormat("xml")
	assert.Error(t, err)
}

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode("always")
	require.NoError(t, err)
	assert.True(t, ResolveColors(m))

	m, err = ParseColorMode("never")
	require.NoError(t, err)
	assert.False(t, ResolveColors(m))

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestResolveColors_noColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(ColorAuto))
}
