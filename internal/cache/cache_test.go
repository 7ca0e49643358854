package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapscript/internal/testutil"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()
	c := New(testutil.NewTestLogger(t))
	require.NoError(t, c.Open(filepath.Join(t.TempDir(), "state", "cache.db")))
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Migrate())
	return c
}

func TestCache_OpenCreatesDirectoryAndMigrates(t *testing.T) {
	c := setupTestCache(t)

	version, err := c.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Migrating twice is a no-op.
	require.NoError(t, c.Migrate())
	assert.FileExists(t, c.Path())
}

func TestCache_InMemory(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Open(":memory:"))
	defer c.Close()
	require.NoError(t, c.Migrate())

	ctx := context.Background()
	require.NoError(t, c.Store(ctx, "a.ls", "h1", nil))
	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_NotOpened(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"migrate", c.Migrate},
		{"lookup", func() error { _, _, err := c.Lookup(ctx, "a", "h"); return err }},
		{"store", func() error { return c.Store(ctx, "a", "h", nil) }},
		{"prune", func() error { _, err := c.Prune(ctx, nil); return err }},
		{"count", func() error { _, err := c.Count(ctx); return err }},
		{"begin run", func() error { _, err := c.BeginRun(ctx); return err }},
		{"complete run", func() error { return c.CompleteRun(ctx, &Run{ID: "x"}, 0, 0) }},
		{"latest run", func() error { _, err := c.LatestRun(ctx); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "database not opened")
		})
	}

	assert.NoError(t, c.Close())
}

func TestCache_LookupAndStore(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	diags := []Diagnostic{
		{Line: 1, Column: 7, Kind: "parse", Message: "expected next token to be =, got INT instead"},
	}

	tests := []struct {
		name    string
		setup   func(t *testing.T)
		path    string
		hash    string
		wantHit bool
		want    []Diagnostic
	}{
		{
			name: "miss on empty cache",
			path: "main.ls",
			hash: "h1",
		},
		{
			name: "hit with diagnostics",
			setup: func(t *testing.T) {
				require.NoError(t, c.Store(ctx, "main.ls", "h1", diags))
			},
			path:    "main.ls",
			hash:    "h1",
			wantHit: true,
			want:    diags,
		},
		{
			name:  "miss on changed content",
			path:  "main.ls",
			hash:  "h2",
			setup: func(_ *testing.T) {},
		},
		{
			name: "overwrite replaces entry",
			setup: func(t *testing.T) {
				require.NoError(t, c.Store(ctx, "main.ls", "h2", nil))
			},
			path:    "main.ls",
			hash:    "h2",
			wantHit: true,
			want:    []Diagnostic{},
		},
		{
			name:  "old hash no longer hits",
			path:  "main.ls",
			hash:  "h1",
			setup: func(_ *testing.T) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}
			got, hit, err := c.Lookup(ctx, tt.path, tt.hash)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, hit)
			if tt.wantHit {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCache_Prune(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	for _, p := range []string{"a.ls", "b.ls", "c.ls"} {
		require.NoError(t, c.Store(ctx, p, HashContent([]byte(p)), nil))
	}

	removed, err := c.Prune(ctx, []string{"a.ls", "c.ls", "new.ls"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, hit, err := c.Lookup(ctx, "b.ls", HashContent([]byte("b.ls")))
	require.NoError(t, err)
	assert.False(t, hit)

	removed, err = c.Prune(ctx, []string{"a.ls", "c.ls"})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCache_Runs(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	latest, err := c.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	first, err := c.BeginRun(ctx)
	require.NoError(t, err)
	require.NoError(t, c.CompleteRun(ctx, first, 3, 1))

	second, err := c.BeginRun(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err = c.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Nil(t, latest.CompletedAt)

	require.NoError(t, c.CompleteRun(ctx, second, 5, 0))
	latest, err = c.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest.CompletedAt)
	assert.Equal(t, 5, latest.Files)
	assert.Equal(t, 0, latest.Diagnostics)

	err = c.CompleteRun(ctx, &Run{ID: "missing"}, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestHashContent(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashContent(nil))
	assert.NotEqual(t, HashContent([]byte("let x = 1")), HashContent([]byte("let x = 2")))
}

func TestCache_DatabaseErrors(t *testing.T) {
	boom := errors.New("disk I/O error")
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(c *Cache) error
		errSubstr string
	}{
		{
			name: "lookup",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT diagnostics_json FROM results").WillReturnError(boom)
			},
			call: func(c *Cache) error {
				_, _, err := c.Lookup(ctx, "a.ls", "h")
				return err
			},
			errSubstr: "failed to look up result for a.ls",
		},
		{
			name: "store",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO results").WillReturnError(boom)
			},
			call: func(c *Cache) error {
				return c.Store(ctx, "a.ls", "h", nil)
			},
			errSubstr: "failed to store result for a.ls",
		},
		{
			name: "begin run",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO runs").WillReturnError(boom)
			},
			call: func(c *Cache) error {
				_, err := c.BeginRun(ctx)
				return err
			},
			errSubstr: "failed to create run",
		},
		{
			name: "prune delete",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT path FROM results").
					WillReturnRows(sqlmock.NewRows([]string{"path"}).AddRow("gone.ls"))
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM results").WithArgs("gone.ls").WillReturnError(boom)
				mock.ExpectRollback()
			},
			call: func(c *Cache) error {
				_, err := c.Prune(ctx, nil)
				return err
			},
			errSubstr: "failed to delete result for gone.ls",
		},
		{
			name: "latest run",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, started_at").WillReturnError(boom)
			},
			call: func(c *Cache) error {
				_, err := c.LatestRun(ctx)
				return err
			},
			errSubstr: "failed to get latest run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)
			c := NewWithDB(db, testutil.NewTestLogger(t))

			err = tt.call(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.ErrorIs(t, err, boom)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT diagnostics_json FROM results").
		WithArgs("a.ls", "h").
		WillReturnRows(sqlmock.NewRows([]string{"diagnostics_json"}).AddRow("{not json"))

	c := NewWithDB(db, testutil.NewTestLogger(t))
	diags, hit, err := c.Lookup(context.Background(), "a.ls", "h")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, diags)
	assert.NoError(t, mock.ExpectationsWereMet())
}
