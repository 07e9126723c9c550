// Copyright (c) 2024 The treereduce developers

package taskheap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillparse/treereduce/internal/task"
)

func TestPopReturnsHighestPriorityFirst(t *testing.T) {
	h := New()
	h.Push(task.Explore(1), 5)
	h.Push(task.Explore(2), 20)
	h.Push(task.Explore(3), 10)

	first, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, 20, first.Priority)

	second, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, 10, second.Priority)

	third, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, 5, third.Priority)

	_, ok = h.Pop()
	assert.False(t, ok)
}

func TestPushAllWakesWaiter(t *testing.T) {
	h := New()
	done := make(chan struct{})
	go func() {
		h.WaitForPush(time.Second)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	h.PushAll([]Item{{Task: task.Explore(1), Priority: 1}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForPush did not wake on push")
	}
	assert.Equal(t, 1, h.Len())
}

func TestWaitForPushTimesOutWhenIdle(t *testing.T) {
	h := New()
	start := time.Now()
	h.WaitForPush(20 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestIsEmpty(t *testing.T) {
	h := New()
	assert.True(t, h.IsEmpty())
	h.Push(task.Explore(1), 1)
	assert.False(t, h.IsEmpty())
}
