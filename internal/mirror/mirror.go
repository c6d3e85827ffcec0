// Package mirror runs best-effort background writes to the remote store.
package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/datadog"
)

// Dispatcher launches each write in its own goroutine with a bounded context.
// Failures are logged and counted, never returned or retried.
type Dispatcher struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{timeout: timeout}
}

func (d *Dispatcher) Go(op string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Error().Err(err).Str("op", op).Msg("Remote sync failed")
			datadog.Incr("sync.failure", "op:"+op)
			return
		}
		log.Debug().Str("op", op).Msg("Remote sync complete")
	}()
}

// Wait blocks until every write launched so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
