// Copyright (c) 2024 The treereduce developers

// Package checkcache memoizes interestingness-check results keyed by the
// blake2b digest of the candidate bytes: an in-process LRU first, with
// atomic hit/miss counters, optionally backed by a
// snappy-compressed sqlite3 table so repeat runs over the same input (e.g.
// re-running a pass after a failed CAS race reproduces an identical
// candidate) warm-start instead of re-invoking the external check.
package checkcache

import (
	"database/sql"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/golang/snappy"
)

// Key is the blake2b-256 digest of a candidate's rendered bytes.
type Key [32]byte

// KeyOf hashes candidate bytes into a Key.
func KeyOf(candidate []byte) Key {
	return blake2b.Sum256(candidate)
}

// Stats tracks hit/miss counts with atomic counters.
type Stats struct {
	hit, miss atomic.Int64
}

// Hit records a cache hit.
func (s *Stats) Hit() int64 { return s.hit.Add(1) }

// Miss records a cache miss.
func (s *Stats) Miss() int64 { return s.miss.Add(1) }

// Counts returns the accumulated hit and miss totals.
func (s *Stats) Counts() (hits, misses int64) {
	return s.hit.Load(), s.miss.Load()
}

// Cache memoizes bool interestingness results by candidate digest.
type Cache struct {
	mem   *lru.Cache
	db    *sql.DB
	stats Stats
}

// New creates an in-memory-only Cache holding up to maxSize entries.
func New(maxSize int) (*Cache, error) {
	if maxSize < 16 {
		maxSize = 16
	}
	mem, err := lru.New(maxSize)
	if err != nil {
		return nil, errors.Wrap(err, "checkcache: create lru")
	}
	return &Cache{mem: mem}, nil
}

// NewPersistent creates a Cache additionally backed by a sqlite3 database
// at path, surviving across process runs.
func NewPersistent(maxSize int, path string) (*Cache, error) {
	c, err := New(maxSize)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "checkcache: open sqlite3 store")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS check_results (
		digest BLOB PRIMARY KEY,
		interesting INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "checkcache: create schema")
	}
	c.db = db
	return c, nil
}

// Close releases the persistent store, if any.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get looks up candidate's cached interestingness result, checking the
// in-memory LRU first and falling back to the sqlite3 store if configured.
func (c *Cache) Get(candidate []byte) (interesting bool, ok bool) {
	key := KeyOf(candidate)
	if v, hit := c.mem.Get(key); hit {
		c.stats.Hit()
		return v.(bool), true
	}
	if c.db == nil {
		c.stats.Miss()
		return false, false
	}

	var interestingInt int
	var payload []byte
	row := c.db.QueryRow(`SELECT interesting, payload FROM check_results WHERE digest = ?`, key[:])
	if err := row.Scan(&interestingInt, &payload); err != nil {
		c.stats.Miss()
		return false, false
	}
	c.stats.Hit()
	result := interestingInt != 0
	c.mem.Add(key, result)
	return result, true
}

// Put records candidate's interestingness result in the in-memory LRU and,
// if configured, the persistent store (candidate bytes themselves are
// snappy-compressed before storage, for post-hoc inspection/debugging).
func (c *Cache) Put(candidate []byte, interesting bool) error {
	key := KeyOf(candidate)
	c.mem.Add(key, interesting)
	if c.db == nil {
		return nil
	}

	compressed := snappy.Encode(nil, candidate)
	interestingInt := 0
	if interesting {
		interestingInt = 1
	}
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO check_results (digest, interesting, payload) VALUES (?, ?, ?)`,
		key[:], interestingInt, compressed,
	)
	return errors.Wrap(err, "checkcache: persist result")
}

// Stats returns the accumulated hit/miss counters.
func (c *Cache) Stats() Stats {
	return c.stats
}
