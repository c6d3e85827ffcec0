package shutdown

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type waiter struct{ waited int32 }

func (w *waiter) Wait() { atomic.AddInt32(&w.waited, 1) }

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestShutdown(t *testing.T) {
	w := &waiter{}
	ok := &closer{}
	failing := &closer{err: errors.New("already closed")}

	Shutdown(nil, w, ok, nil, failing)

	assert.Equal(t, int32(1), atomic.LoadInt32(&w.waited))
	assert.True(t, ok.closed)
	assert.True(t, failing.closed)
}
