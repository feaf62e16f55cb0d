package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/shirushi/internal/models"
)

// writeDataDir lays out a data directory the way the server does: database with its
// WAL sidecars, a keyword index directory and a backup directory.
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"bookmarks.db":                         "0123456789",
		"bookmarks.db-wal":                     "wal",
		"bookmarks.db-shm":                     "sh",
		"bleve/index_meta.json":                "{}",
		"bleve/store/000000000001.zap":         "segment",
		"backups/bookmarks-20240101-000000.db": "snapshot",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDiskUsageBytes(t *testing.T) {
	dir := writeDataDir(t)
	db := filepath.Join(dir, "bookmarks.db")
	bleveDir := filepath.Join(dir, "bleve")
	backups := filepath.Join(dir, "backups")

	tests := []struct {
		name  string
		paths []string
		want  int64
	}{
		{"database file only", []string{db}, 10},
		{"database with sidecars", DatabaseFiles(db), 15},
		{"index directory", []string{bleveDir}, 9},
		{"everything", append(DatabaseFiles(db), bleveDir, backups), 32},
		{"missing backup directory", []string{db, filepath.Join(dir, "no-backups")}, 10},
		{"empty paths skipped", []string{"", db, ""}, 10},
		{"nothing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskUsageBytes(tt.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DiskUsageBytes(%v) = %d, want %d", tt.paths, got, tt.want)
			}
		})
	}
}

func TestDatabaseFiles(t *testing.T) {
	got := DatabaseFiles("/data/bookmarks.db")
	want := []string{"/data/bookmarks.db", "/data/bookmarks.db-wal", "/data/bookmarks.db-shm"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if DatabaseFiles(":memory:") != nil {
		t.Error(":memory: has no files")
	}
	if DatabaseFiles("") != nil {
		t.Error("empty path has no files")
	}
}

func TestDiskUsageBytes_liveDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateBookmark(ctx, &models.Bookmark{
		ID:          "bm1",
		URL:         "https://go.dev/blog/pipelines",
		Title:       "Go Concurrency Patterns: Pipelines",
		Description: strings.Repeat("fan-in ", 200),
	}); err != nil {
		t.Fatal(err)
	}

	// WAL mode keeps the write in the -wal sidecar until a checkpoint.
	if _, err := os.Stat(path + "-wal"); err != nil {
		t.Fatalf("expected WAL sidecar: %v", err)
	}
	main, err := DiskUsageBytes(path)
	if err != nil {
		t.Fatal(err)
	}
	all, err := DiskUsageBytes(DatabaseFiles(path)...)
	if err != nil {
		t.Fatal(err)
	}
	if main == 0 {
		t.Error("expected a non-empty database file")
	}
	if all <= main {
		t.Errorf("usage with sidecars = %d, want more than the database file alone (%d)", all, main)
	}
}
