package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/bloom"
)

// Compile-time interface verification.
var _ pagesift.ResultCache = (*ResultCache)(nil)

// ResultCache implements pagesift.ResultCache using SQLite. A Bloom filter
// fronts the database so lookups for never-cached URLs skip the read
// entirely.
type ResultCache struct {
	db     *DB
	filter *bloom.Filter
	warmed bool
}

// NewResultCache creates a new ResultCache on an open database. Call Warm to
// load existing entries into the membership filter; until then every lookup
// goes to the database.
func NewResultCache(db *DB) *ResultCache {
	return &ResultCache{
		db:     db,
		filter: bloom.NewFilter(100_000, 0.01),
	}
}

// Warm loads the URLs of all cached results into the membership filter so
// that lookups for never-cached URLs can skip the database.
func (c *ResultCache) Warm(ctx context.Context) error {
	rows, err := c.db.QueryContext(ctx, "SELECT url FROM results")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return err
		}
		c.filter.Add(url)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	c.warmed = true
	return nil
}

// hashURL computes the xxHash cache key for a URL.
func hashURL(url string) string {
	h := xxhash.Sum64String(url)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// Get returns the cached result for the URL, or ENOTFOUND.
func (c *ResultCache) Get(ctx context.Context, url string) (*pagesift.ContentResult, error) {
	// A warmed filter has no false negatives, so a miss means the URL was
	// never cached.
	if c.warmed && !c.filter.Test(url) {
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "no cached result for %q", url)
	}
	return c.get(ctx, url)
}

func (c *ResultCache) get(ctx context.Context, url string) (*pagesift.ContentResult, error) {
	var res pagesift.ContentResult
	var metadata string

	err := c.db.QueryRowContext(ctx, `
		SELECT url, title, text, content_html, method, duration_ms, metadata
		FROM results
		WHERE url_hash = ?
	`, hashURL(url)).Scan(&res.URL, &res.Title, &res.Text, &res.ContentHTML,
		&res.Method, &res.DurationMS, &metadata)

	if err == sql.ErrNoRows {
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "no cached result for %q", url)
	}
	if err != nil {
		return nil, err
	}

	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &res.Metadata); err != nil {
			return nil, pagesift.Errorf(pagesift.EINTERNAL, "corrupt cached metadata for %q: %v", url, err)
		}
	}
	res.Success = true

	return &res, nil
}

// Put stores a successful result, replacing any previous entry for the URL.
func (c *ResultCache) Put(ctx context.Context, result *pagesift.ContentResult) error {
	if result == nil || result.URL == "" {
		return pagesift.Errorf(pagesift.EINVALID, "cacheable results require a URL")
	}
	if !pagesift.IsValidResult(result) {
		return pagesift.Errorf(pagesift.EINVALID, "only valid results are cached")
	}

	metadata := "{}"
	if len(result.Metadata) > 0 {
		b, err := json.Marshal(result.Metadata)
		if err != nil {
			return err
		}
		metadata = string(b)
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO results (url_hash, url, title, text, content_html, method, duration_ms, metadata, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url_hash) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			text = excluded.text,
			content_html = excluded.content_html,
			method = excluded.method,
			duration_ms = excluded.duration_ms,
			metadata = excluded.metadata,
			cached_at = excluded.cached_at
	`, hashURL(result.URL), result.URL, result.Title, result.Text, result.ContentHTML,
		string(result.Method), result.DurationMS, metadata, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	c.filter.Add(result.URL)
	return nil
}

// Clear removes all cached results and resets the membership filter.
func (c *ResultCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM results"); err != nil {
		return err
	}
	c.filter.Reset()
	return nil
}

// Count returns the number of cached results.
func (c *ResultCache) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&n)
	return n, err
}
