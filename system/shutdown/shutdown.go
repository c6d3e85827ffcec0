package shutdown

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/datadog"
)

const timeout = 10 * time.Second

// Waiter is anything with outstanding background work, such as the remote
// sync dispatcher.
type Waiter interface {
	Wait()
}

// Shutdown stops the API server, lets in-flight remote writes finish and then
// closes the given resources. Each step is bounded by the same deadline.
func Shutdown(server *http.Server, pending Waiter, closers ...io.Closer) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("API server forced to shut down")
		}
	}

	if pending != nil {
		done := make(chan struct{})
		go func() {
			pending.Wait()
			close(done)
		}()
		select {
		case <-done:
			log.Info().Msg("Pending remote writes flushed")
		case <-ctx.Done():
			log.Warn().Msg("Gave up waiting for pending remote writes")
		}
	}

	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
	datadog.Close()

	log.Info().Msg("Shutdown complete")
}

func ShutdownWithError(err error, msg string) {
	log.Error().Err(err).Msg(msg)
	datadog.Close()
	os.Exit(1)
}
