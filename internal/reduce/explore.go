// Copyright (c) 2024 The treereduce developers

package reduce

import (
	"github.com/quillparse/treereduce/internal/task"
	"github.com/quillparse/treereduce/internal/tree"
)

// explore schedules the reduction tasks for one node per the grammar-type
// tactic selection in spec.md §4.6.1:
//
//   - if n is optional under its parent, schedule a single Delete(n);
//     its children are only explored later, reactively, if the Delete is
//     rejected (see dispatch).
//   - otherwise, for each list-typed child-kind of n, gather the batch of
//     n's direct children matching that kind (through its subtype
//     closure) and schedule one DeleteAll over the whole batch; then
//     schedule Explore for every direct child of n, since none of them
//     were covered by a Delete(n) task in this branch.
//
// In both branches, every configured canonical replacement for n's kind
// that is strictly smaller than n is also scheduled as a Replace(n, alt).
func (r *reducer) explore(n tree.NodeID) {
	kind := r.orig.Tree.Kind(n)
	size := tree.Size(r.orig.Tree, n)

	parent, hasParent := r.orig.Tree.Parent(n)
	optional := hasParent && r.nt.Optional(kind, r.orig.Tree.Kind(parent))

	if optional {
		r.pushTask(task.Delete(n), size)
	} else {
		r.exploreListChildren(n, kind)
		r.pushExploreChildren(n)
	}

	r.exploreReplacements(n, kind, size)
}

// exploreListChildren schedules one DeleteAll per list-typed child-kind of
// parentKind, batching every direct child of n whose kind falls in that
// list-kind's subtype closure.
func (r *reducer) exploreListChildren(n tree.NodeID, parentKind string) {
	listKinds := r.nt.ListTypes(parentKind)
	if len(listKinds) == 0 {
		return
	}
	children := r.orig.Tree.Children(n)

	for _, lk := range listKinds {
		accepted := make(map[string]struct{})
		for _, sub := range r.nt.Subtypes(lk) {
			accepted[sub] = struct{}{}
		}

		var batch []tree.NodeID
		batchSize := 0
		for _, c := range children {
			if _, ok := accepted[r.orig.Tree.Kind(c)]; !ok {
				continue
			}
			batch = append(batch, c)
			batchSize += tree.Size(r.orig.Tree, c)
		}
		if len(batch) == 0 {
			continue
		}
		r.pushTask(task.DeleteAll(batch), batchSize)
	}
}

// exploreReplacements schedules a Replace(n, alt) for every configured
// canonical alternative of kind that is strictly smaller than n's current
// size; ties and larger alternatives are never useful reductions.
func (r *reducer) exploreReplacements(n tree.NodeID, kind string, size int) {
	for _, alt := range r.cfg.Replacements[kind] {
		if len(alt) >= size {
			continue
		}
		r.pushTask(task.Replace(n, alt), size-len(alt))
	}
}

// pushExploreChildren schedules Explore for every direct child of n.
func (r *reducer) pushExploreChildren(n tree.NodeID) {
	for _, c := range r.orig.Tree.Children(n) {
		r.pushTask(task.Explore(c), tree.Size(r.orig.Tree, c))
	}
}
