// Copyright (c) 2024 The treereduce developers

// Package edits holds the accumulated deletions and replacements the
// reducer commits against a parse tree, keyed by tree.NodeID, plus the
// Versioned[T] wrapper used for optimistic-concurrency commits.
package edits

import (
	"maps"

	"github.com/quillparse/treereduce/internal/tree"
)

// Edits is a pair of mappings: the set of nodes to omit entirely, and the
// map of nodes to replace with a specific byte string. A NodeID is in at
// most one of the two. Edits is cheap to clone: With* methods return a new
// Edits sharing no mutable state with the receiver.
type Edits struct {
	omit    map[tree.NodeID]struct{}
	replace map[tree.NodeID][]byte
	// recorded tracks whether any edit (omit or replace) was ever added,
	// used by Progressed; IsEmpty intentionally reflects the omit-set only
	// (see DESIGN.md Open Question log).
	recorded bool
}

// Empty returns a new Edits with no omissions or replacements.
func Empty() Edits {
	return Edits{}
}

// IsEmpty reports whether the omit-set is empty. By convention in this
// implementation, a pass that only committed replacements (no deletions)
// still counts as empty here; the multi-pass driver decides fixed point
// with Progressed instead, which does count replacements.
func (e Edits) IsEmpty() bool {
	return len(e.omit) == 0
}

// Progressed reports whether any edit — omission or replacement — was ever
// recorded. The multi-pass driver uses this (not IsEmpty) to decide whether
// a pass made progress, since a replacement-only pass still shrinks output.
func (e Edits) Progressed() bool {
	return e.recorded
}

// HasEdit reports whether id has either an omission or a replacement.
func (e Edits) HasEdit(id tree.NodeID) bool {
	if _, ok := e.omit[id]; ok {
		return true
	}
	_, ok := e.replace[id]
	return ok
}

// ShouldOmit reports whether id is in the omit-set.
func (e Edits) ShouldOmit(id tree.NodeID) bool {
	_, ok := e.omit[id]
	return ok
}

// ShouldReplace returns the replacement bytes for id, if any.
func (e Edits) ShouldReplace(id tree.NodeID) ([]byte, bool) {
	b, ok := e.replace[id]
	return b, ok
}

// clone performs the copy-on-write backing this value's immutable API.
func (e Edits) clone() Edits {
	n := Edits{
		omit:     make(map[tree.NodeID]struct{}, len(e.omit)),
		replace:  make(map[tree.NodeID][]byte, len(e.replace)),
		recorded: e.recorded,
	}
	maps.Copy(n.omit, e.omit)
	maps.Copy(n.replace, e.replace)
	return n
}

// WithOmit returns a new Edits with id added to the omit-set. It is a
// caller error (and a violation of invariant (i) in spec.md §3) for id to
// already be in the replace-map; callers only reach WithOmit from the
// try-commit protocol, which never double-edits a node.
func (e Edits) WithOmit(id tree.NodeID) Edits {
	n := e.clone()
	delete(n.replace, id)
	n.omit[id] = struct{}{}
	n.recorded = true
	return n
}

// WithOmitMany omits every id in ids in a single new Edits.
func (e Edits) WithOmitMany(ids []tree.NodeID) Edits {
	n := e.clone()
	for _, id := range ids {
		delete(n.replace, id)
		n.omit[id] = struct{}{}
	}
	if len(ids) > 0 {
		n.recorded = true
	}
	return n
}

// WithReplace returns a new Edits with id replaced by bytes.
func (e Edits) WithReplace(id tree.NodeID, bytes []byte) Edits {
	n := e.clone()
	if _, omitted := n.omit[id]; !omitted {
		cp := make([]byte, len(bytes))
		copy(cp, bytes)
		n.replace[id] = cp
		n.recorded = true
	}
	return n
}

// Len returns the total number of edited nodes (omit plus replace).
func (e Edits) Len() int {
	return len(e.omit) + len(e.replace)
}
