// Copyright (c) 2024 The treereduce developers

package checkcache

import (
	"context"

	"github.com/quillparse/treereduce/internal/check"
)

// Wrapped decorates a check.Check with a Cache lookup: identical candidate
// bytes (rendered from a different task, or re-rendered after a lost CAS
// race) short-circuit straight to the memoized verdict instead of spawning
// another subprocess.
type Wrapped struct {
	inner check.Check
	cache *Cache
}

// Wrap returns a check.Check that consults cache before delegating to inner.
func Wrap(inner check.Check, cache *Cache) *Wrapped {
	return &Wrapped{inner: inner, cache: cache}
}

type wrappedState struct {
	candidate []byte
	cached    bool
	result    bool
	inner     check.State
}

// Start returns a cached verdict immediately if known, otherwise delegates
// to the wrapped Check and records the result in Wait.
func (w *Wrapped) Start(ctx context.Context, stdin []byte) (check.State, error) {
	if result, ok := w.cache.Get(stdin); ok {
		return &wrappedState{candidate: stdin, cached: true, result: result}, nil
	}
	inner, err := w.inner.Start(ctx, stdin)
	if err != nil {
		return nil, err
	}
	return &wrappedState{candidate: stdin, inner: inner}, nil
}

// TryWait polls the wrapped Check (cached verdicts are always done).
func (w *Wrapped) TryWait(state check.State) (bool, bool, error) {
	st := state.(*wrappedState)
	if st.cached {
		return st.result, true, nil
	}
	result, done, err := w.inner.TryWait(st.inner)
	if err != nil || !done {
		return result, done, err
	}
	w.cache.Put(st.candidate, result)
	return result, true, nil
}

// Wait blocks on the wrapped Check and caches the outcome, unless the
// verdict was already cached.
func (w *Wrapped) Wait(state check.State) (bool, error) {
	st := state.(*wrappedState)
	if st.cached {
		return st.result, nil
	}
	result, err := w.inner.Wait(st.inner)
	if err != nil {
		return false, err
	}
	w.cache.Put(st.candidate, result)
	return result, nil
}

// Cancel delegates to the wrapped Check; cached verdicts have nothing to
// cancel.
func (w *Wrapped) Cancel(state check.State) error {
	st := state.(*wrappedState)
	if st.cached {
		return nil
	}
	return w.inner.Cancel(st.inner)
}
