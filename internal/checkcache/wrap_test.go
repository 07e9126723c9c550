// Copyright (c) 2024 The treereduce developers

package checkcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillparse/treereduce/internal/check"
)

// countingCheck always reports the same verdict and counts invocations, so
// tests can assert the cache actually short-circuits repeat calls.
type countingCheck struct {
	calls   int
	verdict bool
}

func (c *countingCheck) Start(ctx context.Context, stdin []byte) (check.State, error) {
	c.calls++
	return c.verdict, nil
}
func (c *countingCheck) TryWait(state check.State) (bool, bool, error) {
	return state.(bool), true, nil
}
func (c *countingCheck) Wait(state check.State) (bool, error) {
	return state.(bool), nil
}
func (c *countingCheck) Cancel(state check.State) error { return nil }

func TestWrappedCachesRepeatCandidate(t *testing.T) {
	cache, err := New(16)
	require.NoError(t, err)
	inner := &countingCheck{verdict: true}
	wrapped := Wrap(inner, cache)

	first, err := check.Interesting(context.Background(), wrapped, []byte("same"))
	require.NoError(t, err)
	assert.True(t, first)

	second, err := check.Interesting(context.Background(), wrapped, []byte("same"))
	require.NoError(t, err)
	assert.True(t, second)

	assert.Equal(t, 1, inner.calls, "second call for an identical candidate should hit the cache")
}

func TestWrappedDelegatesOnDistinctCandidates(t *testing.T) {
	cache, err := New(16)
	require.NoError(t, err)
	inner := &countingCheck{verdict: false}
	wrapped := Wrap(inner, cache)

	_, err = check.Interesting(context.Background(), wrapped, []byte("one"))
	require.NoError(t, err)
	_, err = check.Interesting(context.Background(), wrapped, []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
