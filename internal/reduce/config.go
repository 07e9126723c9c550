// Copyright (c) 2024 The treereduce developers

// Package reduce is the parallel tree-reduction engine: the priority task
// heap, the versioned edit set, the interestingness-driven state
// transitions, the worker goroutine protocol, and the grammar-type-informed
// tactic selection (spec.md §4.6).
package reduce

import (
	"github.com/quillparse/treereduce/internal/check"
)

// Config configures one reduction pass (spec.md §4.6).
type Config struct {
	Check check.Check

	// Jobs is the worker-goroutine count, clamped to >= 1.
	Jobs int

	// MinReduction is the smallest byte-size task priority the engine
	// will bother attempting, clamped to >= 1.
	MinReduction int

	// Replacements maps a grammar node kind to its canonical small
	// alternative byte strings (spec.md §6). Each alternative becomes its
	// own Replace task, so shorter ones are tried first; alternatives of
	// equal length are tried in no defined order.
	Replacements map[string][][]byte

	// Hooks, if non-nil, observes reducer activity (internal/metrics).
	Hooks Hooks
}

func (c Config) hooks() Hooks {
	if c.Hooks == nil {
		return noopHooks{}
	}
	return c.Hooks
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
