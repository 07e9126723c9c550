// Copyright (c) 2024 The treereduce developers

// Package stats aggregates per-pass reduction statistics (duration, byte
// size before/after, and task tries/successes by kind) and, on a terminal,
// drives a progress bar over the pass budget the same way cmd/thor's
// logdb-sync routine does: gopkg.in/cheggaaa/pb.v1 gated by
// github.com/mattn/go-isatty so piped/non-interactive runs stay quiet.
package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	isatty "github.com/mattn/go-isatty"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/quillparse/treereduce/internal/task"
)

// PassStats holds one pass's outcome, including tries/successes/retries
// keyed by task kind (spec.md §6 supplemented --stats feature).
type PassStats struct {
	Index          int
	StartSize      int
	EndSize        int
	Duration       time.Duration
	TasksTried     map[task.Kind]int64
	TasksSucceeded map[task.Kind]int64
	CASRetries     map[task.Kind]int64
	ChecksRun      int64
}

// Reduced reports the byte count the pass shrank the program by.
func (p PassStats) Reduced() int {
	return p.StartSize - p.EndSize
}

// Run aggregates the whole multi-pass driver run.
type Run struct {
	Passes []PassStats
}

// TotalReduced sums Reduced() across every recorded pass.
func (r *Run) TotalReduced() int {
	total := 0
	for _, p := range r.Passes {
		total += p.Reduced()
	}
	return total
}

// Record appends p to the run's history and prints a one-line summary,
// matching this codebase's convention of plain fmt.Println progress
// narration around the structured logger (see cmd/thor/main.go).
func (r *Run) Record(p PassStats) {
	r.Passes = append(r.Passes, p)
	fmt.Printf(">> pass %d: %d -> %d bytes (-%d) in %s\n",
		p.Index, p.StartSize, p.EndSize, p.Reduced(), p.Duration.Round(time.Millisecond))
}

// byKind accumulates tries/successes/retries across every recorded pass,
// keyed by task kind.
type byKind struct {
	tried, succeeded, retried int64
}

// WriteByKind prints the --stats table: one line per task kind that was
// ever tried, with its tries/successes/retries totals across the whole
// run, sorted by kind name for stable output.
func (r *Run) WriteByKind(w io.Writer) {
	totals := make(map[task.Kind]*byKind)
	get := func(kind task.Kind) *byKind {
		bk, ok := totals[kind]
		if !ok {
			bk = &byKind{}
			totals[kind] = bk
		}
		return bk
	}
	for _, p := range r.Passes {
		for kind, n := range p.TasksTried {
			get(kind).tried += n
		}
		for kind, n := range p.TasksSucceeded {
			get(kind).succeeded += n
		}
		for kind, n := range p.CASRetries {
			get(kind).retried += n
		}
	}

	kinds := make([]string, 0, len(totals))
	for kind := range totals {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	fmt.Fprintf(w, "%-12s %8s %8s %8s\n", "kind", "tries", "success", "retries")
	for _, kind := range kinds {
		bk := totals[task.Kind(kind)]
		fmt.Fprintf(w, "%-12s %8d %8d %8d\n", kind, bk.tried, bk.succeeded, bk.retried)
	}
}

// Bar wraps a cheggaaa progress bar over a pass budget (total expected
// passes), silenced automatically when stdout isn't a terminal.
type Bar struct {
	bar    *pb.ProgressBar
	silent bool
}

// NewBar creates a Bar tracking progress toward total passes.
func NewBar(total int) *Bar {
	silent := !isatty.IsTerminal(os.Stdout.Fd())
	b := pb.New(total).SetMaxWidth(90)
	if silent {
		b.NotPrint = true
	} else {
		b.Start()
	}
	return &Bar{bar: b, silent: silent}
}

// Step advances the bar by one completed pass.
func (b *Bar) Step() {
	b.bar.Increment()
}

// Finish completes the bar, restoring the terminal cursor.
func (b *Bar) Finish() {
	b.bar.Finish()
}
