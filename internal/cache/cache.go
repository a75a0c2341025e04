// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores successful DOI lookups in a local SQLite
// database so repeated runs over overlapping citation lists do not
// re-query the CrossRef API.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doi-finder/pkg/types"
)

const dbFile = "lookups.db"

// Cache is a positive-only lookup cache: only queries that resolved to
// a DOI are stored, so a citation that failed once is retried on the
// next run.
type Cache struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the per-user location of the lookup database,
// e.g. ~/.cache/doi-finder/lookups.db on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(dir, "doi-finder", dbFile), nil
}

// Open opens or creates the lookup database at path. Parent
// directories and the schema are created as needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db, path: path}

	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the location of the database file.
func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			query TEXT PRIMARY KEY,
			doi TEXT NOT NULL,
			title TEXT,
			score REAL,
			source TEXT,
			resolved_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// Key normalizes a citation query for cache lookup: lowercased, with
// runs of whitespace collapsed to single spaces.
func Key(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Get returns the cached match for query. The second result reports
// whether the query was present.
func (c *Cache) Get(ctx context.Context, query string) (types.Match, bool, error) {
	var m types.Match
	err := c.db.QueryRowContext(ctx,
		`SELECT doi, title, score, source FROM lookups WHERE query = ?`, Key(query),
	).Scan(&m.DOI, &m.Title, &m.Score, &m.Source)

	if errors.Is(err, sql.ErrNoRows) {
		return types.Match{}, false, nil
	}
	if err != nil {
		return types.Match{}, false, fmt.Errorf("reading cache: %w", err)
	}
	return m, true, nil
}

// Put stores a successful lookup, replacing any previous entry for the
// same normalized query. Matches without a DOI are rejected: a failed
// lookup today may succeed tomorrow.
func (c *Cache) Put(ctx context.Context, query string, m types.Match) error {
	if m.DOI == "" || m.DOI == types.NotFoundDOI {
		return errors.New("refusing to cache a match without a DOI")
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO lookups (query, doi, title, score, source, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(query) DO UPDATE SET
			doi=excluded.doi, title=excluded.title, score=excluded.score,
			source=excluded.source, resolved_at=excluded.resolved_at`,
		Key(query), m.DOI, m.Title, m.Score, m.Source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Info describes the cache contents for the cache info command.
type Info struct {
	Path    string
	Entries int
	Newest  time.Time
}

// Stats reports the entry count and the most recent resolution time.
func (c *Cache) Stats(ctx context.Context) (Info, error) {
	info := Info{Path: c.path}

	var newest sql.NullString
	err := c.db.QueryRowContext(ctx,
		`SELECT count(*), max(resolved_at) FROM lookups`,
	).Scan(&info.Entries, &newest)
	if err != nil {
		return Info{}, fmt.Errorf("reading cache stats: %w", err)
	}

	if newest.Valid {
		if t, err := time.Parse(time.RFC3339, newest.String); err == nil {
			info.Newest = t
		}
	}

	return info, nil
}

// Clear removes every cached lookup and reports how many were deleted.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM lookups`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared entries: %w", err)
	}
	return int(n), nil
}
