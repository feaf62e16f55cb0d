// Package extract parses browser bookmark export files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/shirushi/internal/models"
)

// ExportExtensions are the file extensions of browser bookmark exports.
var ExportExtensions = []string{".html", ".htm"}

// IsExportFile reports whether path looks like a bookmark export file (by extension).
func IsExportFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ExportExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseFile reads the export file at path and returns its bookmarks.
func ParseFile(path string) ([]*models.BookmarkInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()
	return ParseNetscape(f)
}

// cleanText makes s valid UTF-8 and collapses whitespace runs to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(strings.ToValidUTF8(s, "�")), " ")
}
