// Copyright (c) 2024 The treereduce developers

package co

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoesGoAndWait(t *testing.T) {
	var g Goes
	var counter int32
	g.Go(func() { atomic.AddInt32(&counter, 1) })
	g.Go(func() { atomic.AddInt32(&counter, 1) })
	g.Wait()
	<-g.Done()
	assert.Equal(t, int32(2), atomic.LoadInt32(&counter))
}
