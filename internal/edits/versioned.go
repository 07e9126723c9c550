// Copyright (c) 2024 The treereduce developers

package edits

import "sync"

// Versioned wraps a value with a monotonic version counter, enabling
// optimistic-concurrency commits: workers read a snapshot, compute a
// candidate mutation against it, and commit only if the authoritative
// version hasn't moved since. See reduce's try-commit protocol.
type Versioned[T any] struct {
	value   T
	version uint64
}

// NewVersioned wraps v at version 0.
func NewVersioned[T any](v T) Versioned[T] {
	return Versioned[T]{value: v, version: 0}
}

// Get returns the wrapped value.
func (v Versioned[T]) Get() T {
	return v.value
}

// Version returns the current version number.
func (v Versioned[T]) Version() uint64 {
	return v.version
}

// OldVersion reports whether other is the immediate successor of v, i.e.
// other.version == v.version + 1. This is the CAS soundness check: a
// candidate built from v may only be committed over v, never over some
// other intervening version.
func (v Versioned[T]) OldVersion(other Versioned[T]) bool {
	return other.version == v.version+1
}

// Next returns a new Versioned holding value at the next version, derived
// from v. Pure: does not mutate v.
func (v Versioned[T]) Next(value T) Versioned[T] {
	return Versioned[T]{value: value, version: v.version + 1}
}

// Cell is a goroutine-safe authoritative holder of a Versioned[T], used by
// the reducer for the single shared Edits value every worker races to
// update. It is a thin sync.RWMutex wrapper rather than a lock-free atomic
// pointer: composite CAS over an immutable Edits value needs a
// read-snapshot/compare-write pair anyway, and a mutex expresses that
// directly without extra indirection.
type Cell[T any] struct {
	mu sync.RWMutex
	v  Versioned[T]
}

// NewCell creates a Cell holding initial at version 0.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{v: NewVersioned(initial)}
}

// Snapshot returns the current Versioned value.
func (c *Cell[T]) Snapshot() Versioned[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// TryCommit attempts to replace the cell's contents with candidate, which
// must have been derived (via Next) from base. It succeeds only if the
// cell's current version still equals base's version; otherwise the caller
// lost the race and must retry from a fresh Snapshot.
func (c *Cell[T]) TryCommit(base, candidate Versioned[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v.version != base.version {
		return false
	}
	c.v = candidate
	return true
}
