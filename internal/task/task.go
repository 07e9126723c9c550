// Copyright (c) 2024 The treereduce developers

// Package task defines the reducer's unit of work and its priority
// wrapper (spec.md §3).
package task

import (
	"fmt"

	"github.com/quillparse/treereduce/internal/tree"
)

// Kind names a task's tactic, used for logging and stats keys only — never
// for ordering (the task heap breaks priority ties arbitrarily, not by kind).
type Kind string

const (
	KindExplore   Kind = "explore"
	KindDelete    Kind = "delete"
	KindDeleteAll Kind = "delete_all"
	KindReplace   Kind = "replace"
)

// Task is one of Explore, Delete, DeleteAll, or Replace (spec.md §3).
type Task struct {
	Kind Kind

	// Explore, Delete, Replace
	Node tree.NodeID

	// DeleteAll
	Nodes []tree.NodeID

	// Replace
	ReplaceWith []byte
}

// Explore builds an Explore(node) task.
func Explore(node tree.NodeID) Task {
	return Task{Kind: KindExplore, Node: node}
}

// Delete builds a Reduce(Delete(node)) task.
func Delete(node tree.NodeID) Task {
	return Task{Kind: KindDelete, Node: node}
}

// DeleteAll builds a Reduce(DeleteAll(nodes)) task.
func DeleteAll(nodes []tree.NodeID) Task {
	return Task{Kind: KindDeleteAll, Nodes: nodes}
}

// Replace builds a Reduce(Replace(node, with)) task.
func Replace(node tree.NodeID, with []byte) Task {
	return Task{Kind: KindReplace, Node: node, ReplaceWith: with}
}

// String renders a short description for logs.
func (t Task) String() string {
	switch t.Kind {
	case KindExplore:
		return fmt.Sprintf("explore(%s)", t.Node)
	case KindDelete:
		return fmt.Sprintf("delete(%s)", t.Node)
	case KindDeleteAll:
		return fmt.Sprintf("delete_all(%d nodes)", len(t.Nodes))
	case KindReplace:
		return fmt.Sprintf("replace(%s, %q)", t.Node, t.ReplaceWith)
	default:
		return "unknown task"
	}
}

// ID is a monotonic task sequence number, used only for logs and stats —
// never for heap ordering.
type ID uint64

// PrioritizedTask is a Task paired with its heap priority (the byte-size of
// the node(s) concerned) and a sequence ID.
type PrioritizedTask struct {
	Task     Task
	ID       ID
	Priority int
}

// String renders a short description for logs.
func (p PrioritizedTask) String() string {
	return fmt.Sprintf("task %d (%s, priority %d)", p.ID, p.Task, p.Priority)
}
