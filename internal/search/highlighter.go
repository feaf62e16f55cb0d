package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/shirushi/internal/models"
)

// Matcher finds case-insensitive occurrences of a fixed list of terms.
// It is immutable and safe for concurrent use.
type Matcher struct {
	pattern *regexp.Regexp
}

// NewMatcher compiles terms into a single alternation, in the given order, with every
// term quoted so its content is matched literally. Empty terms and terms that are not
// valid UTF-8 are ignored. When two terms match at the same position the one listed
// first wins.
func NewMatcher(terms []string) *Matcher {
	alternatives := make([]string, 0, len(terms))
	for _, term := range terms {
		// The regexp engine reads every invalid byte as U+FFFD, so such a term would
		// match unrelated bytes.
		if term == "" || !utf8.ValidString(term) {
			continue
		}
		alternatives = append(alternatives, regexp.QuoteMeta(term))
	}
	if len(alternatives) == 0 {
		return &Matcher{}
	}
	pattern, err := regexp.Compile(`(?i)(?:` + strings.Join(alternatives, "|") + `)`)
	if err != nil {
		return &Matcher{}
	}
	return &Matcher{pattern: pattern}
}

// Empty reports whether the matcher has no terms and so never matches.
func (m *Matcher) Empty() bool {
	return m == nil || m.pattern == nil
}

// Segments splits text into alternating unmatched and matched runs, scanning left to
// right for non-overlapping matches. Concatenating the returned texts yields text.
// Empty text, or a matcher without terms, gives a single unmatched segment.
func (m *Matcher) Segments(text string) []models.Segment {
	if m.Empty() || text == "" {
		return []models.Segment{{Text: text}}
	}
	matches := m.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []models.Segment{{Text: text}}
	}
	segments := make([]models.Segment, 0, 2*len(matches)+1)
	cursor := 0
	for _, loc := range matches {
		if loc[0] > cursor {
			segments = append(segments, models.Segment{Text: text[cursor:loc[0]]})
		}
		segments = append(segments, models.Segment{Text: text[loc[0]:loc[1]], IsMatch: true})
		cursor = loc[1]
	}
	if cursor < len(text) {
		segments = append(segments, models.Segment{Text: text[cursor:]})
	}
	return segments
}

// Highlight marks every occurrence of terms in text. See Matcher.Segments.
func Highlight(text string, terms []string) []models.Segment {
	return NewMatcher(terms).Segments(text)
}

// JoinSegments concatenates segment texts, wrapping matched runs with wrap when it is non-nil.
func JoinSegments(segments []models.Segment, wrap func(string) string) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.IsMatch && wrap != nil {
			b.WriteString(wrap(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
