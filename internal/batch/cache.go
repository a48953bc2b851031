package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS aligned_pairs (
    source_path  TEXT NOT NULL,
    target_path  TEXT NOT NULL,
    source_size  INTEGER NOT NULL,
    source_mtime TEXT NOT NULL,
    target_size  INTEGER NOT NULL,
    target_mtime TEXT NOT NULL,
    output_path  TEXT NOT NULL,
    ratio        REAL NOT NULL,
    links        INTEGER NOT NULL,
    run_id       TEXT NOT NULL,
    created_at   TEXT NOT NULL,
    PRIMARY KEY (source_path, target_path)
);
`

// Cache records completed alignments so reruns can skip unchanged pairs.
type Cache struct {
	db   *sql.DB
	path string
}

// Entry is one cached alignment keyed by the pair's file identities.
type Entry struct {
	SourcePath string
	TargetPath string
	SourceSize int64
	SourceMod  time.Time
	TargetSize int64
	TargetMod  time.Time
	OutputPath string
	Ratio      float64
	Links      int
	RunID      string
	CreatedAt  time.Time
}

// OpenCache opens (creating if needed) the alignment cache under dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	path := filepath.Join(dir, "align-cache.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached entry for a pair, if any.
func (c *Cache) Lookup(ctx context.Context, srcPath, trgPath string) (*Entry, bool, error) {
	row := c.db.QueryRowContext(ctx, `
SELECT source_size, source_mtime, target_size, target_mtime,
       output_path, ratio, links, run_id, created_at
FROM aligned_pairs WHERE source_path = ? AND target_path = ?`, srcPath, trgPath)

	var e Entry
	var srcMod, trgMod, created string
	err := row.Scan(&e.SourceSize, &srcMod, &e.TargetSize, &trgMod,
		&e.OutputPath, &e.Ratio, &e.Links, &e.RunID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	e.SourcePath = srcPath
	e.TargetPath = trgPath
	if e.SourceMod, err = time.Parse(time.RFC3339Nano, srcMod); err != nil {
		return nil, false, fmt.Errorf("cache lookup: parse source mtime: %w", err)
	}
	if e.TargetMod, err = time.Parse(time.RFC3339Nano, trgMod); err != nil {
		return nil, false, fmt.Errorf("cache lookup: parse target mtime: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, false, fmt.Errorf("cache lookup: parse created_at: %w", err)
	}
	return &e, true, nil
}

// Record stores or replaces the entry for a pair.
func (c *Cache) Record(ctx context.Context, e Entry) error {
	_, err := c.db.ExecContext(ctx, `
INSERT INTO aligned_pairs
    (source_path, target_path, source_size, source_mtime,
     target_size, target_mtime, output_path, ratio, links, run_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(source_path, target_path) DO UPDATE SET
    source_size = excluded.source_size,
    source_mtime = excluded.source_mtime,
    target_size = excluded.target_size,
    target_mtime = excluded.target_mtime,
    output_path = excluded.output_path,
    ratio = excluded.ratio,
    links = excluded.links,
    run_id = excluded.run_id,
    created_at = excluded.created_at`,
		e.SourcePath, e.TargetPath, e.SourceSize, e.SourceMod.UTC().Format(time.RFC3339Nano),
		e.TargetSize, e.TargetMod.UTC().Format(time.RFC3339Nano),
		e.OutputPath, e.Ratio, e.Links, e.RunID, e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	return nil
}

// Fresh reports whether the cached entry still matches both files on disk.
func Fresh(e *Entry, srcInfo, trgInfo os.FileInfo) bool {
	if e == nil {
		return false
	}
	return e.SourceSize == srcInfo.Size() &&
		e.TargetSize == trgInfo.Size() &&
		e.SourceMod.Equal(srcInfo.ModTime().UTC()) &&
		e.TargetMod.Equal(trgInfo.ModTime().UTC())
}
