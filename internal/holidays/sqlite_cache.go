package holidays

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache persists holiday lists in a SQLite database so they survive restarts
type SQLiteCache struct {
	DBPath string
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
}

// OpenSQLiteCache opens or creates the cache database
func OpenSQLiteCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve cache db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache := &SQLiteCache{
		DBPath: absPath,
		db:     db,
		ttl:    ttl,
		now:    time.Now,
	}

	if err := cache.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

// Close closes the database connection
func (c *SQLiteCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *SQLiteCache) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS holiday_cache (
	country TEXT NOT NULL,
	year INTEGER NOT NULL,
	fetched_at TEXT NOT NULL,
	holidays_json TEXT NOT NULL,
	PRIMARY KEY (country, year)
);
`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// Get implements Cache
func (c *SQLiteCache) Get(ctx context.Context, country string, year int) ([]Holiday, error) {
	var fetchedAt, payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_at, holidays_json FROM holiday_cache WHERE country = ? AND year = ?`,
		NormalizeCountry(country), year,
	).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query holiday cache: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at: %w", err)
	}
	if c.now().Sub(ts) >= c.ttl {
		return nil, ErrNotFound
	}

	var hs []Holiday
	if err := json.Unmarshal([]byte(payload), &hs); err != nil {
		return nil, fmt.Errorf("decode cached holidays: %w", err)
	}
	return hs, nil
}

// Set implements Cache
func (c *SQLiteCache) Set(ctx context.Context, country string, year int, hs []Holiday) error {
	payload, err := json.Marshal(hs)
	if err != nil {
		return fmt.Errorf("encode holidays: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
INSERT INTO holiday_cache (country, year, fetched_at, holidays_json)
VALUES (?, ?, ?, ?)
ON CONFLICT(country, year) DO UPDATE SET
	fetched_at = excluded.fetched_at,
	holidays_json = excluded.holidays_json`,
		NormalizeCountry(country), year, c.now().UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("write holiday cache: %w", err)
	}
	return nil
}
