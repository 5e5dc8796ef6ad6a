package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/db"
	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/postgres"
	"github.com/gauravsharma29/Dev-Camper-API/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env, cfg.LogLevel).With("component", "sweeper")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	s := sweeper.New(sweeper.Config{Interval: cfg.SweepInterval},
		postgres.NewUsersRepo(pool, prom), nil, prom, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.SweeperPort),
		Handler:           s.HealthHandler(pool.Ping, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("health server starting", "port", cfg.SweeperPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server failed", "err", err)
			stop()
		}
	}()

	log.Info("sweeper has started", "interval", cfg.SweepInterval)

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("sweeper stopped with error", "err", err)
	}

	shutdownCtx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	log.Info("sweeper shutdown complete")
}
