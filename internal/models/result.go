package models

// Segment is a contiguous run of some original text, marked when it matched a search term.
// Concatenating the Text of a segment sequence in order reproduces the original text.
type Segment struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"is_match"`
}

// Highlight field keys used in SearchResult.Highlights.
const (
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldDescription = "description"
)

// SearchResult represents a single search hit.
type SearchResult struct {
	Bookmark   *Bookmark            `json:"bookmark"`
	Score      float64              `json:"score"`
	Highlights map[string][]Segment `json:"highlights,omitempty"`
	Rank       int                  `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	// Terms are the literal terms extracted from Query and used for highlighting.
	Terms []string `json:"terms"`
}
