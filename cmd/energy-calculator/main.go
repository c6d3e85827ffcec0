package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/db"
	"github.com/thatsimonsguy/energy-calculator/internal/api"
	"github.com/thatsimonsguy/energy-calculator/internal/calculator"
	"github.com/thatsimonsguy/energy-calculator/internal/config"
	"github.com/thatsimonsguy/energy-calculator/internal/datadog"
	"github.com/thatsimonsguy/energy-calculator/internal/env"
	"github.com/thatsimonsguy/energy-calculator/internal/history"
	"github.com/thatsimonsguy/energy-calculator/internal/identity"
	"github.com/thatsimonsguy/energy-calculator/internal/logging"
	"github.com/thatsimonsguy/energy-calculator/internal/mirror"
	"github.com/thatsimonsguy/energy-calculator/internal/notifications"
	"github.com/thatsimonsguy/energy-calculator/internal/registry"
	"github.com/thatsimonsguy/energy-calculator/internal/remote"
	"github.com/thatsimonsguy/energy-calculator/internal/store"
	"github.com/thatsimonsguy/energy-calculator/system/shutdown"
	"github.com/thatsimonsguy/energy-calculator/system/startup"
)

func main() {
	cfg := config.Load()
	env.Cfg = &cfg
	logging.Init(cfg.LogLevel, cfg.LogFile)
	datadog.InitMetrics()

	log.Info().
		Str("config_file", cfg.ConfigFile).
		Str("db_driver", cfg.DBDriver).
		Str("local_store", cfg.LocalStoreDir).
		Msg("Starting energy calculator")

	local := store.New(cfg.LocalStoreDir)
	userID, err := identity.LoadOrCreate(local)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("User id will not survive a restart")
	}

	// The calculator runs without a remote store; history then lives only in
	// the local mirror.
	var (
		rooms       registry.Mirror
		billRemote  history.Remote
		closeRemote io.Closer
	)
	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error().Err(err).Msg("Remote store unavailable, continuing without it")
		datadog.Incr("sync.failure", "op:open")
	} else {
		client := remote.New(database, userID)
		rooms, billRemote, closeRemote = client, client, database
	}

	dispatch := mirror.NewDispatcher(time.Duration(cfg.SyncTimeoutSeconds) * time.Second)
	reg := registry.New(rooms, dispatch)
	hist := history.New(billRemote, local, dispatch)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup.Restore(ctx, reg, hist, time.Duration(cfg.SyncTimeoutSeconds)*time.Second)

	session := calculator.New(userID, reg, hist, cfg.DefaultRatePerUnit)
	if notifier := notifications.New(cfg.NtfyServer, cfg.NtfyTopic); notifier != nil {
		session.WithAlerts(notifier, dispatch)
	}
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.APIPort),
		Handler:           api.NewServer(session).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		log.Info().Str("address", server.Addr).Str("user_id", userID).Msg("Starting REST API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			shutdown.ShutdownWithError(err, "API server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")
	shutdown.Shutdown(server, dispatch, closeRemote)
}
