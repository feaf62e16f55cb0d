// Package backup writes timestamped database snapshots and prunes old ones.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/hyperjump/shirushi/internal/metrics"
)

// timeLayout is the timestamp format in snapshot file names.
const timeLayout = "20060102-150405"

var snapshotPattern = regexp.MustCompile(`^bookmarks-\d{8}-\d{6}\.db$`)

// Snapshotter can write a consistent copy of its database to a path.
type Snapshotter interface {
	Backup(ctx context.Context, destPath string) error
}

// FileName returns the snapshot file name for t, e.g. bookmarks-20240102-150405.db.
func FileName(t time.Time) string {
	return "bookmarks-" + t.UTC().Format(timeLayout) + ".db"
}

// Run writes a snapshot of store into dir named after now, then prunes dir down to
// the newest keep snapshots (keep <= 0 keeps all). Returns the snapshot path.
func Run(ctx context.Context, store Snapshotter, dir string, keep int, now time.Time) (path string, err error) {
	defer func() { metrics.RecordBackup(err) }()

	if dir == "" {
		return "", errors.New("backup directory is not configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	path = filepath.Join(dir, FileName(now))
	if _, statErr := os.Stat(path); statErr == nil {
		return "", fmt.Errorf("backup %s already exists", path)
	}
	if err := store.Backup(ctx, path); err != nil {
		return "", err
	}
	if _, err := Prune(dir, keep); err != nil {
		return path, err
	}
	return path, nil
}

// List returns the snapshot files in dir, oldest first. Other files are ignored.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && snapshotPattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	// The timestamp layout sorts chronologically.
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// Prune deletes all but the newest keep snapshots in dir and returns the deleted paths.
// keep <= 0 keeps everything.
func Prune(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	paths, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) <= keep {
		return nil, nil
	}
	stale := paths[:len(paths)-keep]
	for _, p := range stale {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove old backup: %w", err)
		}
	}
	return stale, nil
}
