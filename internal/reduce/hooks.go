// Copyright (c) 2024 The treereduce developers

package reduce

import "github.com/quillparse/treereduce/internal/task"

// Hooks lets an optional observer (internal/metrics, internal/stats) record
// reducer activity without the reduce package depending on either directly.
// All methods must tolerate concurrent calls from every worker goroutine.
type Hooks interface {
	TaskPopped(kind task.Kind)
	TaskPushed(kind task.Kind)
	CheckRun()
	CheckInteresting(kind task.Kind)
	CASRetry(kind task.Kind)
}

type noopHooks struct{}

func (noopHooks) TaskPopped(task.Kind)       {}
func (noopHooks) TaskPushed(task.Kind)       {}
func (noopHooks) CheckRun()                  {}
func (noopHooks) CheckInteresting(task.Kind) {}
func (noopHooks) CASRetry(task.Kind)         {}

// FanOut combines two Hooks into one, calling both on every event. Used to
// feed a pass's activity to both a long-lived prometheus collector and a
// per-pass summary collector at once.
type FanOut struct {
	A, B Hooks
}

func (f FanOut) hooksOf() []Hooks {
	var hs []Hooks
	if f.A != nil {
		hs = append(hs, f.A)
	}
	if f.B != nil {
		hs = append(hs, f.B)
	}
	return hs
}

func (f FanOut) TaskPopped(kind task.Kind) {
	for _, h := range f.hooksOf() {
		h.TaskPopped(kind)
	}
}

func (f FanOut) TaskPushed(kind task.Kind) {
	for _, h := range f.hooksOf() {
		h.TaskPushed(kind)
	}
}

func (f FanOut) CheckRun() {
	for _, h := range f.hooksOf() {
		h.CheckRun()
	}
}

func (f FanOut) CheckInteresting(kind task.Kind) {
	for _, h := range f.hooksOf() {
		h.CheckInteresting(kind)
	}
}

func (f FanOut) CASRetry(kind task.Kind) {
	for _, h := range f.hooksOf() {
		h.CASRetry(kind)
	}
}
