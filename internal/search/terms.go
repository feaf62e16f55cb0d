package search

import (
	"regexp"
	"strings"
)

// fieldPattern matches a field:value token. The value is either a double-quoted
// string (group 2, taken verbatim) or a run of non-whitespace (group 3).
var fieldPattern = regexp.MustCompile(`(\w+):(?:"([^"]*)"|(\S+))`)

// TokenKind distinguishes free text from field:value constraints.
type TokenKind int

const (
	// TokenText is a whitespace-delimited piece of free text.
	TokenText TokenKind = iota
	// TokenField is a field:value constraint.
	TokenField
)

// Token is one element of a tokenized query, in order of appearance.
type Token struct {
	Kind TokenKind
	// Field is the name before the colon; empty for TokenText.
	Field string
	// Value is the text piece, or the field value without surrounding quotes.
	Value string
	// Quoted reports whether a field value was written in double quotes.
	Quoted bool
}

// Tokenize splits query into free-text pieces and field:value tokens, left to right.
// Field names are not checked against any schema. A field token whose quoted value
// is empty (tag:"") is still returned, with an empty Value.
func Tokenize(query string) []Token {
	tokens := make([]Token, 0)
	cursor := 0
	for _, loc := range fieldPattern.FindAllStringSubmatchIndex(query, -1) {
		tokens = appendText(tokens, query[cursor:loc[0]])
		tok := Token{Kind: TokenField, Field: query[loc[2]:loc[3]]}
		if loc[4] >= 0 {
			tok.Value = query[loc[4]:loc[5]]
			tok.Quoted = true
		} else {
			tok.Value = query[loc[6]:loc[7]]
		}
		tokens = append(tokens, tok)
		cursor = loc[1]
	}
	return appendText(tokens, query[cursor:])
}

func appendText(tokens []Token, gap string) []Token {
	for _, piece := range strings.Fields(gap) {
		tokens = append(tokens, Token{Kind: TokenText, Value: piece})
	}
	return tokens
}

// ExtractTerms returns the literal terms of query in order of appearance: every
// free-text word plus the value of every field:value token. Field names are dropped
// and empty values skipped. Terms keep their case and are not deduplicated.
func ExtractTerms(query string) []string {
	terms := make([]string, 0)
	for _, tok := range Tokenize(query) {
		if tok.Value == "" {
			continue
		}
		terms = append(terms, tok.Value)
	}
	return terms
}
