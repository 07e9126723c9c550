// Copyright (c) 2024 The treereduce developers

package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quillparse/treereduce/internal/task"
)

func TestPassStatsReduced(t *testing.T) {
	p := PassStats{StartSize: 100, EndSize: 40}
	assert.Equal(t, 60, p.Reduced())
}

func TestRunTotalReducedSumsPasses(t *testing.T) {
	r := &Run{}
	r.Record(PassStats{Index: 0, StartSize: 100, EndSize: 80, Duration: time.Millisecond})
	r.Record(PassStats{Index: 1, StartSize: 80, EndSize: 55, Duration: time.Millisecond})

	assert.Equal(t, 45, r.TotalReduced())
	assert.Len(t, r.Passes, 2)
}

func TestBarStepAndFinishDoNotPanic(t *testing.T) {
	b := NewBar(3)
	b.Step()
	b.Step()
	b.Finish()
}

func TestHookCollectorIntoPopulatesPassStats(t *testing.T) {
	c := NewHookCollector()
	c.TaskPopped(task.KindDelete)
	c.TaskPopped(task.KindDelete)
	c.TaskPopped(task.KindExplore)
	c.CheckRun()
	c.CheckRun()
	c.CheckInteresting(task.KindDelete)
	c.CASRetry(task.KindDelete)

	var p PassStats
	c.Into(&p)

	assert.Equal(t, int64(2), p.TasksTried[task.KindDelete])
	assert.Equal(t, int64(1), p.TasksTried[task.KindExplore])
	assert.Equal(t, int64(1), p.TasksSucceeded[task.KindDelete])
	assert.Equal(t, int64(2), p.ChecksRun)
	assert.Equal(t, int64(1), p.CASRetries[task.KindDelete])
}

func TestRunWriteByKindAggregatesAcrossPasses(t *testing.T) {
	r := &Run{}
	r.Record(PassStats{
		Index:          0,
		StartSize:      100,
		EndSize:        80,
		TasksTried:     map[task.Kind]int64{task.KindDelete: 3},
		TasksSucceeded: map[task.Kind]int64{task.KindDelete: 1},
		CASRetries:     map[task.Kind]int64{task.KindDelete: 2},
	})
	r.Record(PassStats{
		Index:          1,
		StartSize:      80,
		EndSize:        60,
		TasksTried:     map[task.Kind]int64{task.KindDelete: 2, task.KindExplore: 5},
		TasksSucceeded: map[task.Kind]int64{task.KindDelete: 1},
	})

	var buf bytes.Buffer
	r.WriteByKind(&buf)

	out := buf.String()
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "explore")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
}
