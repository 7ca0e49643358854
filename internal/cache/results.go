package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Lookup returns the diagnostics stored for path when its content hash
// matches. The boolean reports a hit.
func (c *Cache) Lookup(ctx context.Context, path, hash string) ([]Diagnostic, bool, error) {
	if err := c.opened(); err != nil {
		return nil, false, err
	}

	var raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT diagnostics_json FROM results WHERE path = ? AND content_hash = ?`,
		path, hash,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up result for %s: %w", path, err)
	}

	var diags []Diagnostic
	if err := json.Unmarshal([]byte(raw), &diags); err != nil {
		// A corrupt row is a miss; the next Store overwrites it.
		c.logger.Warn("discarding unreadable cache entry", slog.String("path", path), slog.String("error", err.Error()))
		return nil, false, nil
	}

	c.logger.Debug("cache hit", slog.String("path", path))
	return diags, true, nil
}

// Store records the diagnostics for path at the given content hash,
// replacing any earlier entry.
func (c *Cache) Store(ctx context.Context, path, hash string, diags []Diagnostic) error {
	if err := c.opened(); err != nil {
		return err
	}

	if diags == nil {
		diags = []Diagnostic{}
	}
	raw, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO results (path, content_hash, diagnostics_json, checked_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		     content_hash = excluded.content_hash,
		     diagnostics_json = excluded.diagnostics_json,
		     checked_at = excluded.checked_at`,
		path, hash, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store result for %s: %w", path, err)
	}
	return nil
}

// Prune deletes every stored result whose path is not in keep and returns
// the number of rows removed.
func (c *Cache) Prune(ctx context.Context, keep []string) (int, error) {
	if err := c.opened(); err != nil {
		return 0, err
	}

	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}

	stale, err := c.stalePaths(ctx, keepSet)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE path = ?`, p); err != nil {
			return 0, fmt.Errorf("failed to delete result for %s: %w", p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}

	c.logger.Debug("pruned cache", slog.Int("removed", len(stale)))
	return len(stale), nil
}

func (c *Cache) stalePaths(ctx context.Context, keep map[string]bool) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT path FROM results`)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan result path: %w", err)
		}
		if !keep[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return stale, nil
}

// Count returns the number of stored results.
func (c *Cache) Count(ctx context.Context) (int, error) {
	if err := c.opened(); err != nil {
		return 0, err
	}

	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}
