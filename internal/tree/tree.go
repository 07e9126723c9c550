// Copyright (c) 2024 The treereduce developers

// Package tree defines the minimal view of a parsed program that the
// reducer core needs: stable node identities, byte ranges, and parent/child
// navigation. The real parse tree is produced by an external, grammar-aware
// parser (see internal/adapter/treesitter); this package only describes the
// shape the reducer consumes.
package tree

import "fmt"

// NodeID is an opaque, stable identifier for a node within one Original's
// tree. It is only valid for the lifetime of that Original; after a re-parse
// a fresh tree numbers its nodes anew, so the same NodeID value can name an
// unrelated node in the next pass and must never be carried across passes.
type NodeID uint64

// String renders the id for logs.
func (id NodeID) String() string {
	return fmt.Sprintf("node#%d", uint64(id))
}

// Tree is the read-only view of a parse tree that the reducer core
// consumes. Implementations must be safe for concurrent reads: the pass
// holds one Tree for its duration and every worker goroutine queries it.
type Tree interface {
	// Root returns the id of the tree's root node.
	Root() NodeID

	// Kind returns the grammar node-type name of id.
	Kind(id NodeID) string

	// Range returns the half-open byte range [start, end) of id into the
	// Original's text.
	Range(id NodeID) (start, end int)

	// Parent returns the parent of id, or ok=false for the root.
	Parent(id NodeID) (parent NodeID, ok bool)

	// Children returns the direct children of id in document order.
	Children(id NodeID) []NodeID

	// HasError reports whether the tree contains a parse error node
	// anywhere, used by the on-parse-error policy.
	HasError() bool
}

// Size returns end-start for id, i.e. the byte-size of the node's range.
func Size(t Tree, id NodeID) int {
	start, end := t.Range(id)
	if end < start {
		return 0
	}
	return end - start
}

// Original is the immutable bundle of a parsed program handed to one
// reduction pass: the tree and the exact bytes it was parsed from. Byte
// offsets in tree nodes index into Text.
type Original struct {
	Tree Tree
	Text []byte
}

// NewOriginal builds an Original bundle.
func NewOriginal(t Tree, text []byte) Original {
	return Original{Tree: t, Text: text}
}
