// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/urlkey"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		url_key TEXT NOT NULL UNIQUE,
		title TEXT,
		description TEXT,
		tags TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_created_at ON bookmarks(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const selectBookmark = `SELECT id, url, title, description, tags, created_at, updated_at FROM bookmarks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (*models.Bookmark, error) {
	var b models.Bookmark
	var title, description, tagsJSON sql.NullString
	if err := row.Scan(&b.ID, &b.URL, &title, &description, &tagsJSON, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Title = title.String
	b.Description = description.String
	b.Tags = []string{}
	if tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &b.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	return &b, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(data), nil
}

// CreateBookmark inserts a bookmark. CreatedAt is kept when already set.
func (s *SQLiteStorage) CreateBookmark(ctx context.Context, b *models.Bookmark) error {
	tagsJSON, err := marshalTags(b.Tags)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, url, url_key, title, description, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.URL, urlkey.Key(b.URL), b.Title, b.Description, tagsJSON, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark %s: %w", b.ID, err)
	}
	return nil
}

// GetBookmark returns a bookmark by ID.
func (s *SQLiteStorage) GetBookmark(ctx context.Context, id string) (*models.Bookmark, error) {
	b, err := scanBookmark(s.db.QueryRowContext(ctx, selectBookmark+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

// GetBookmarkByURL returns the bookmark stored under the canonical key of rawURL.
func (s *SQLiteStorage) GetBookmarkByURL(ctx context.Context, rawURL string) (*models.Bookmark, error) {
	b, err := scanBookmark(s.db.QueryRowContext(ctx, selectBookmark+` WHERE url_key = ?`, urlkey.Key(rawURL)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	return b, err
}

// UpdateBookmark updates an existing bookmark.
func (s *SQLiteStorage) UpdateBookmark(ctx context.Context, b *models.Bookmark) error {
	tagsJSON, err := marshalTags(b.Tags)
	if err != nil {
		return err
	}

	b.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET url = ?, url_key = ?, title = ?, description = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		b.URL, urlkey.Key(b.URL), b.Title, b.Description, tagsJSON, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bookmark %s: %w", b.ID, err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, b.ID)
	}
	return nil
}

// DeleteBookmark removes a bookmark by ID.
func (s *SQLiteStorage) DeleteBookmark(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListBookmarks returns bookmarks newest first with offset and limit.
func (s *SQLiteStorage) ListBookmarks(ctx context.Context, offset, limit int) ([]*models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		selectBookmark+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []*models.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// CountBookmarks returns the total number of bookmarks.
func (s *SQLiteStorage) CountBookmarks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count, err
}

// Backup copies the live database to destPath with VACUUM INTO, which produces a
// compacted, transactionally consistent snapshot while the database stays in use.
func (s *SQLiteStorage) Backup(ctx context.Context, destPath string) error {
	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, destPath); err != nil {
		return fmt.Errorf("failed to back up database to %s: %w", destPath, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
