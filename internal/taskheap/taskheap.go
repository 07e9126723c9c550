// Copyright (c) 2024 The treereduce developers

// Package taskheap is a thread-safe max-heap of prioritized tasks, ordered
// strictly by priority descending, with a push-wait condition variable so
// idle workers don't busy-spin (spec.md §4.3). The heap ordering is a plain
// container/heap wrapper used as a work queue.
package taskheap

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quillparse/treereduce/internal/task"
)

// TaskHeap is a concurrency-safe max-heap on task.PrioritizedTask.Priority.
type TaskHeap struct {
	mu      sync.Mutex
	entries entries
	nextID  atomic.Uint64

	pushMu sync.Mutex
	pushCV *sync.Cond
}

// New creates an empty TaskHeap.
func New() *TaskHeap {
	h := &TaskHeap{}
	h.pushCV = sync.NewCond(&h.pushMu)
	heap.Init(&h.entries)
	return h
}

// Push adds task at priority, assigning it the next monotonic task ID, and
// wakes every waiter blocked in WaitForPush.
func (h *TaskHeap) Push(t task.Task, priority int) task.PrioritizedTask {
	pt := task.PrioritizedTask{
		Task:     t,
		ID:       task.ID(h.nextID.Add(1)),
		Priority: priority,
	}
	h.mu.Lock()
	heap.Push(&h.entries, pt)
	h.mu.Unlock()
	h.pushCV.Broadcast()
	return pt
}

// PushAll adds every (task, priority) pair under a single lock hold, then
// wakes all waiters once.
func (h *TaskHeap) PushAll(items []Item) []task.PrioritizedTask {
	if len(items) == 0 {
		return nil
	}
	out := make([]task.PrioritizedTask, 0, len(items))
	h.mu.Lock()
	for _, it := range items {
		pt := task.PrioritizedTask{
			Task:     it.Task,
			ID:       task.ID(h.nextID.Add(1)),
			Priority: it.Priority,
		}
		heap.Push(&h.entries, pt)
		out = append(out, pt)
	}
	h.mu.Unlock()
	h.pushCV.Broadcast()
	return out
}

// Item is one task/priority pair for a batch PushAll.
type Item struct {
	Task     task.Task
	Priority int
}

// Pop removes and returns the highest-priority task, or ok=false if empty.
func (h *TaskHeap) Pop() (task.PrioritizedTask, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return task.PrioritizedTask{}, false
	}
	return heap.Pop(&h.entries).(task.PrioritizedTask), true
}

// Len reports the current number of queued tasks.
func (h *TaskHeap) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// IsEmpty reports whether the heap currently holds no tasks.
func (h *TaskHeap) IsEmpty() bool {
	return h.Len() == 0
}

// WaitForPush blocks until a push occurs or dur elapses, whichever is
// first. Workers call this after observing an empty heap, then re-check
// rather than busy-spinning.
func (h *TaskHeap) WaitForPush(dur time.Duration) {
	done := make(chan struct{})
	timer := time.AfterFunc(dur, func() {
		h.pushCV.Broadcast()
	})
	defer timer.Stop()
	go func() {
		h.pushMu.Lock()
		h.pushCV.Wait()
		h.pushMu.Unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(dur):
	}
}

// entries is the container/heap.Interface implementation, max-heap on
// Priority (larger reductions attempted first, per spec.md §9). Ties break
// arbitrarily — this implementation does not use task ID as a tiebreaker.
type entries []task.PrioritizedTask

func (e entries) Len() int            { return len(e) }
func (e entries) Less(i, j int) bool   { return e[i].Priority > e[j].Priority }
func (e entries) Swap(i, j int)        { e[i], e[j] = e[j], e[i] }
func (e *entries) Push(x interface{})  { *e = append(*e, x.(task.PrioritizedTask)) }
func (e *entries) Pop() interface{} {
	old := *e
	n := len(old)
	item := old[n-1]
	*e = old[:n-1]
	return item
}
