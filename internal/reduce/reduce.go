// Copyright (c) 2024 The treereduce developers

package reduce

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/quillparse/treereduce/internal/edits"
	"github.com/quillparse/treereduce/internal/idle"
	"github.com/quillparse/treereduce/internal/nodetypes"
	"github.com/quillparse/treereduce/internal/task"
	"github.com/quillparse/treereduce/internal/taskheap"
	"github.com/quillparse/treereduce/internal/tree"
)

// idleWaitInterval bounds how long an idle worker blocks before
// re-checking the heap, per spec.md §4.3.
const idleWaitInterval = 2 * time.Millisecond

// reducer holds the shared, per-pass state every worker goroutine reads
// and races to update (spec.md §5).
type reducer struct {
	nt    nodetypes.NodeTypes
	orig  tree.Original
	cfg   Config
	jobs  int
	min   int
	heap  *taskheap.TaskHeap
	cell  *edits.Cell[edits.Edits]
	idleT *idle.Tracker
	hooks Hooks
}

// Reduce runs one reduction pass: seeds the heap with Explore(root), spawns
// Config.Jobs worker goroutines, and returns the final committed Edits once
// every worker is simultaneously idle with an empty heap (spec.md §4.6).
func Reduce(ctx context.Context, nt nodetypes.NodeTypes, orig tree.Original, cfg Config) (edits.Edits, error) {
	jobs := clampMin(cfg.Jobs, 1)
	min := clampMin(cfg.MinReduction, 1)

	r := &reducer{
		nt:    nt,
		orig:  orig,
		cfg:   cfg,
		jobs:  jobs,
		min:   min,
		heap:  taskheap.New(),
		cell:  edits.NewCell(edits.Empty()),
		idleT: idle.New(),
		hooks: cfg.hooks(),
	}

	root := orig.Tree.Root()
	log.Info("starting reduction pass", "size", tree.Size(orig.Tree, root), "jobs", jobs, "min_reduction", min)
	r.pushTask(task.Explore(root), tree.Size(orig.Tree, root))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < jobs; i++ {
		g.Go(func() error {
			return r.workerLoop(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return edits.Edits{}, errors.Wrap(err, "reduce: worker failed")
	}

	final := r.cell.Snapshot().Get()
	log.Info("reduction pass complete", "edits", final.Len())
	return final, nil
}

// workerLoop is the per-goroutine dispatch cycle (spec.md §4.6.3).
func (r *reducer) workerLoop(ctx context.Context) error {
	idleFlag := false
	for r.idleT.Count() < int64(r.jobs) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if idleFlag {
			r.heap.WaitForPush(idleWaitInterval)
			r.idleT.Dec()
			idleFlag = false
		}

		for {
			pt, ok := r.heap.Pop()
			if !ok {
				break
			}
			r.hooks.TaskPopped(pt.Task.Kind)
			if err := r.dispatch(ctx, pt); err != nil {
				return err
			}
		}

		r.idleT.Inc()
		idleFlag = true
	}
	return nil
}

// pushTask enqueues t at priority, silently dropping it if priority falls
// below the pass's min-reduction floor (spec.md §4.6: "skip if priority <
// min_reduction").
func (r *reducer) pushTask(t task.Task, priority int) {
	if priority < r.min {
		return
	}
	r.heap.Push(t, priority)
	r.hooks.TaskPushed(t.Kind)
}

func (r *reducer) pushTasks(items []taskheap.Item) {
	filtered := items[:0:0]
	for _, it := range items {
		if it.Priority >= r.min {
			filtered = append(filtered, it)
		}
	}
	r.heap.PushAll(filtered)
	for _, it := range filtered {
		r.hooks.TaskPushed(it.Task.Kind)
	}
}
