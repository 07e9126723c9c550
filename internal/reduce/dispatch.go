// Copyright (c) 2024 The treereduce developers

package reduce

import (
	"context"

	"github.com/quillparse/treereduce/internal/check"
	"github.com/quillparse/treereduce/internal/edits"
	"github.com/quillparse/treereduce/internal/render"
	"github.com/quillparse/treereduce/internal/task"
)

// dispatch runs one popped task to completion. Explore only schedules more
// work; Delete, DeleteAll, and Replace attempt a try-commit. A rejected
// Delete falls back to exploring its node's children, since nothing else
// would ever schedule them (spec.md §4.6.2); DeleteAll and Replace never
// recurse on rejection — their constituent nodes are already covered by
// earlier or later Explore tasks.
func (r *reducer) dispatch(ctx context.Context, pt task.PrioritizedTask) error {
	switch pt.Task.Kind {
	case task.KindExplore:
		r.explore(pt.Task.Node)
		return nil

	case task.KindDelete:
		committed, err := r.tryCommit(ctx, pt.Task)
		if err != nil {
			return err
		}
		if !committed {
			r.pushExploreChildren(pt.Task.Node)
		}
		return nil

	case task.KindDeleteAll, task.KindReplace:
		_, err := r.tryCommit(ctx, pt.Task)
		return err

	default:
		return nil
	}
}

// tryCommit implements the optimistic-CAS try-commit protocol (spec.md
// §4.4): snapshot the shared Edits, apply t to produce a candidate, render
// and check it, and commit the candidate only if nothing else changed the
// shared Edits in the meantime. On a lost race it retries from a fresh
// snapshot, unbounded, rather than failing the task.
func (r *reducer) tryCommit(ctx context.Context, t task.Task) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		base := r.cell.Snapshot()
		candidateEdits := applyEdit(base.Get(), t)
		rendered := render.Render(r.orig.Tree, r.orig.Text, candidateEdits)

		r.hooks.CheckRun()
		ok, err := check.Interesting(ctx, r.cfg.Check, rendered)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		r.hooks.CheckInteresting(t.Kind)

		candidate := base.Next(candidateEdits)
		if r.cell.TryCommit(base, candidate) {
			return true, nil
		}
		r.hooks.CASRetry(t.Kind)
	}
}

// applyEdit returns the Edits that would result from committing t over e.
func applyEdit(e edits.Edits, t task.Task) edits.Edits {
	switch t.Kind {
	case task.KindDelete:
		return e.WithOmit(t.Node)
	case task.KindDeleteAll:
		return e.WithOmitMany(t.Nodes)
	case task.KindReplace:
		return e.WithReplace(t.Node, t.ReplaceWith)
	default:
		return e
	}
}
