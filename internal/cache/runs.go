package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Run is one invocation of the checker.
type Run struct {
	ID          string     `json:"id" yaml:"id"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Files       int        `json:"files" yaml:"files"`
	Diagnostics int        `json:"diagnostics" yaml:"diagnostics"`
}

// BeginRun records the start of a check run.
func (c *Cache) BeginRun(ctx context.Context) (*Run, error) {
	if err := c.opened(); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        generateID(),
		StartedAt: time.Now().UTC(),
	}

	c.logger.Debug("creating run", slog.String("id", run.ID))

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun stores the totals of a finished run.
func (c *Cache) CompleteRun(ctx context.Context, run *Run, files, diags int) error {
	if err := c.opened(); err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := c.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = ?, files = ?, diagnostics = ? WHERE id = ?`,
		now, files, diags, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}

	run.CompletedAt = &now
	run.Files = files
	run.Diagnostics = diags
	return nil
}

// LatestRun returns the most recently started run, or nil when none exists.
func (c *Cache) LatestRun(ctx context.Context) (*Run, error) {
	if err := c.opened(); err != nil {
		return nil, err
	}

	run := &Run{}
	var completedAt sql.NullTime
	err := c.db.QueryRowContext(ctx,
		`SELECT id, started_at, completed_at, files, diagnostics
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&run.ID, &run.StartedAt, &completedAt, &run.Files, &run.Diagnostics)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}
