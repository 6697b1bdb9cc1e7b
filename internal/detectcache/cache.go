package detectcache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chapterize/internal/silence"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// ErrSchemaMismatch indicates the cache database was written by an
// incompatible version; deleting the file is the remedy.
var ErrSchemaMismatch = errors.New("detection cache schema mismatch")

// Cache is a sqlite-backed store of silencedetect results.
type Cache struct {
	db   *sql.DB
	path string
}

// Key identifies one detection run. Size and ModTime pin the file contents;
// the thresholds pin the detector configuration.
type Key struct {
	Path        string
	Size        int64
	ModTime     time.Time
	MinDuration float64
	NoiseFloor  float64
}

// KeyFor stats source and builds its cache key for the given thresholds.
func KeyFor(source string, minDuration, noiseFloor float64) (Key, error) {
	info, err := os.Stat(source)
	if err != nil {
		return Key{}, fmt.Errorf("stat source: %w", err)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return Key{}, fmt.Errorf("resolve source: %w", err)
	}
	return Key{
		Path:        abs,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		MinDuration: minDuration,
		NoiseFloor:  noiseFloor,
	}, nil
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create cache schema: %w", err)
		}
		return nil
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns cached intervals for key, reporting whether a usable entry
// existed.
func (c *Cache) Lookup(ctx context.Context, key Key) ([]silence.Interval, bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT intervals FROM detections
		 WHERE path = ? AND size = ? AND mtime_unix = ? AND min_duration = ? AND noise_floor = ?`,
		key.Path, key.Size, key.ModTime.Unix(), key.MinDuration, key.NoiseFloor,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}

	var intervals []silence.Interval
	if err := json.Unmarshal([]byte(payload), &intervals); err != nil {
		return nil, false, fmt.Errorf("decode cached intervals: %w", err)
	}
	return intervals, true, nil
}

// Store records the intervals for key, replacing any stale entries for the
// same source path.
func (c *Cache) Store(ctx context.Context, key Key, intervals []silence.Interval) error {
	payload, err := json.Marshal(intervals)
	if err != nil {
		return fmt.Errorf("encode intervals: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// One entry per source path: supersede earlier file versions or
	// threshold combinations.
	if _, err := tx.ExecContext(ctx, "DELETE FROM detections WHERE path = ?", key.Path); err != nil {
		return fmt.Errorf("evict stale entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO detections (path, size, mtime_unix, min_duration, noise_floor, intervals, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.Path, key.Size, key.ModTime.Unix(), key.MinDuration, key.NoiseFloor,
		string(payload), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return tx.Commit()
}
