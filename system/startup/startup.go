package startup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/datadog"
	"github.com/thatsimonsguy/energy-calculator/internal/history"
	"github.com/thatsimonsguy/energy-calculator/internal/registry"
)

// Restore loads the rooms and bill history saved by a previous run. A remote
// failure leaves the registry empty and the history on its local mirror;
// neither stops the calculator from starting.
func Restore(ctx context.Context, rooms *registry.Registry, hist *history.Store, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rooms.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Starting with no rooms")
		datadog.Incr("sync.failure", "op:rooms.load")
	}
	if err := hist.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Starting with empty bill history")
	}

	datadog.Gauge("rooms", float64(len(rooms.Rooms())))
	datadog.Gauge("bill_history.records", float64(hist.Len()))
}
