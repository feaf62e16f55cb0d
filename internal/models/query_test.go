package models

import (
	"errors"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name       string
		query      *SearchQuery
		wantLimit  int
		wantOffset int
	}{
		{"empty query allowed", &SearchQuery{Query: ""}, 10, 0},
		{"sets default limit", &SearchQuery{Query: "x", Limit: 0}, 10, 0},
		{"keeps limit in range", &SearchQuery{Query: "x", Limit: 25}, 25, 0},
		{"caps limit at max", &SearchQuery{Query: "x", Limit: 200}, 100, 0},
		{"keeps offset", &SearchQuery{Query: "x", Offset: 30}, 10, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.query.Validate(10, 100); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if tt.query.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.query.Limit, tt.wantLimit)
			}
			if tt.query.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", tt.query.Offset, tt.wantOffset)
			}
		})
	}
}

func TestSearchQuery_ValidateRejectsNegative(t *testing.T) {
	for _, q := range []*SearchQuery{{Limit: -1}, {Offset: -3}} {
		err := q.Validate(10, 100)
		if !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Validate(%+v) error = %v, want ErrInvalidQuery", q, err)
		}
	}
}

func TestSearchQuery_ValidateFallbackLimits(t *testing.T) {
	q := &SearchQuery{Limit: 500}
	if err := q.Validate(0, 0); err != nil {
		t.Fatal(err)
	}
	if q.Limit != 100 {
		t.Errorf("Limit = %d, want 100", q.Limit)
	}
}

func TestBookmarkInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"empty", "", true},
		{"relative", "/docs/page", true},
		{"no scheme", "example.com/page", true},
		{"http", "http://example.com", false},
		{"https with path", "https://go.dev/doc/effective_go#names", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &BookmarkInput{URL: tt.url}
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
