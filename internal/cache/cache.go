// Package cache persists check results in SQLite, keyed by file path and
// content hash, so unchanged files are not parsed again. It also records
// one row per check run.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

const memoryPath = ":memory:"

// Diagnostic is a stored parse or lex diagnostic.
type Diagnostic struct {
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Cache is the SQLite-backed result store.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// New creates a cache that is not yet opened.
func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{logger: logger}
}

// NewWithDB wraps an existing connection. The schema is not migrated.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Cache {
	c := New(logger)
	c.db = db
	return c
}

// Open opens the database at path, creating parent directories as needed.
// Use ":memory:" for an in-memory database.
func (c *Cache) Open(path string) error {
	dsn := memoryPath
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	// One connection serializes writers from parallel checks and keeps an
	// in-memory database alive for the lifetime of the cache.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping cache database: %w", err)
	}

	c.logger.Debug("cache opened", slog.String("path", path))
	c.db = db
	c.path = path
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Path returns the path passed to Open.
func (c *Cache) Path() string {
	return c.path
}

// HashContent returns the hex SHA-256 of data.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

func (c *Cache) opened() error {
	if c.db == nil {
		return fmt.Errorf("database not opened")
	}
	return nil
}
