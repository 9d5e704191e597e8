// Package cache stores the results of remote lookups in one SQLite file
// per namespace.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/calliope/internal/db"
)

const appName = "calliope"

// ErrInvalidNamespace is returned for a namespace that can't be a file name.
var ErrInvalidNamespace = errors.New("invalid cache namespace")

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Cache is a persistent key/value store. Values round-trip through JSON, so
// numbers come back as float64 and objects as map[string]any.
type Cache struct {
	db        *sql.DB
	namespace string
	path      string
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// Open opens the cache of namespace inside dir, or DefaultDir when dir is
// empty.
func Open(namespace, dir string) (*Cache, error) {
	if !namespacePattern.MatchString(namespace) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	if dir == "" {
		dir = DefaultDir()
	}
	path := filepath.Join(dir, namespace+".sqlite")

	conn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", namespace, err)
	}
	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init %s cache: %w", namespace, err)
	}
	return &Cache{db: conn, namespace: namespace, path: path}, nil
}

func initSchema(conn *sql.DB) error {
	return db.WithTx(conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS entries (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				stored_at INTEGER NOT NULL
			)
		`)
		return err
	})
}

// Namespace returns the namespace the cache was opened with.
func (c *Cache) Namespace() string {
	return c.namespace
}

// Path returns the database file.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the value stored under key.
func (c *Cache) Lookup(key string) (bool, any, error) {
	var raw string
	err := c.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("lookup %q: %w", key, err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return false, nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, value, nil
}

// Store saves value under key, replacing any previous value.
func (c *Cache) Store(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	_, err = c.db.Exec(`
		INSERT INTO entries (key, value, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at
	`, key, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
