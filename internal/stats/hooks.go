// Copyright (c) 2024 The treereduce developers

package stats

import (
	"sync"

	"github.com/quillparse/treereduce/internal/task"
)

// HookCollector implements reduce.Hooks with plain counters, scoped to a
// single pass, so its totals can be read back into a PassStats once the
// pass completes. The prometheus-backed internal/metrics.Collector serves
// the same events over /metrics for long-running external observability;
// this one is for the driver's own per-pass summary line and the CLI's
// --stats table.
type HookCollector struct {
	mu        sync.Mutex
	tried     map[task.Kind]int64
	succeeded map[task.Kind]int64
	retried   map[task.Kind]int64
	checksRun int64
}

// NewHookCollector creates an empty, ready-to-use HookCollector.
func NewHookCollector() *HookCollector {
	return &HookCollector{
		tried:     make(map[task.Kind]int64),
		succeeded: make(map[task.Kind]int64),
		retried:   make(map[task.Kind]int64),
	}
}

// TaskPopped counts a task as tried.
func (c *HookCollector) TaskPopped(kind task.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tried[kind]++
}

// TaskPushed is not a per-pass summary statistic; it is a no-op here.
func (c *HookCollector) TaskPushed(task.Kind) {}

// CheckRun counts an interestingness check invocation.
func (c *HookCollector) CheckRun() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checksRun++
}

// CheckInteresting counts an interesting check result for a task kind. It
// fires before the optimistic commit, so a task that loses the race and is
// re-checked is counted once per interesting check.
func (c *HookCollector) CheckInteresting(kind task.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.succeeded[kind]++
}

// CASRetry counts a lost optimistic-commit race, by the retrying task's kind.
func (c *HookCollector) CASRetry(kind task.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retried[kind]++
}

// Into fills the tries/successes/retries/checks fields of p from the
// collected totals, leaving p's other fields untouched.
func (c *HookCollector) Into(p *PassStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.TasksTried = c.tried
	p.TasksSucceeded = c.succeeded
	p.CASRetries = c.retried
	p.ChecksRun = c.checksRun
}
