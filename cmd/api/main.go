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
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gauravsharma29/Dev-Camper-API/internal/app"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/db"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	"github.com/gauravsharma29/Dev-Camper-API/internal/mail"
	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
	"github.com/gauravsharma29/Dev-Camper-API/internal/redisclient"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/memory"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Version:     version,
		Env:         cfg.Env,
		Endpoint:    cfg.OTELEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	stores, closeStores, err := openStores(ctx, cfg, prom, log)
	if err != nil {
		return err
	}
	defer closeStores()

	denylist, closeDenylist, err := openDenylist(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDenylist()

	geocoder, err := geocode.New(geocode.Config{
		Provider: cfg.GeocoderProvider,
		APIKey:   cfg.GeocoderAPIKey,
		BaseURL:  cfg.GeocoderBaseURL,
		Timeout:  cfg.GeocodeTimeout,
		CacheTTL: cfg.GeocodeCacheTTL,
	}, prom)
	if err != nil {
		return fmt.Errorf("geocoder: %w", err)
	}

	router := app.NewRouter(app.Options{
		Config:   cfg,
		Logger:   log,
		Stores:   stores,
		Tokens:   auth.NewManager(cfg.JWTSecret, cfg.JWTExpire),
		Denylist: denylist,
		Geocoder: geocoder,
		Mailer:   newMailer(cfg, prom, log),
		Prom:     prom,
		Gatherer: reg,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// openStores picks the storage backend. The postgres path migrates and seeds
// the admin account before the server accepts traffic.
func openStores(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (app.Stores, func(), error) {
	if cfg.StorageDriver == "memory" {
		log.Warn("using in-memory storage; data is lost on restart")
		return app.MemoryStores(memory.NewStore()), func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return app.Stores{}, nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.MigrateUp(cfg.DBURL); err != nil {
			pool.Close()
			return app.Stores{}, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	created, err := db.EnsureAdminUser(ctx, pool, db.AdminAccount{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	})
	if err != nil {
		pool.Close()
		return app.Stores{}, nil, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Info("admin user created", "email", cfg.AdminEmail)
	}

	return app.PostgresStores(pool, prom), pool.Close, nil
}

func openDenylist(ctx context.Context, cfg config.Config, log *slog.Logger) (auth.Denylist, func(), error) {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryDenylist(), func() {}, nil
	}

	rdb, err := redisclient.Connect(ctx, redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("token denylist on redis", "addr", cfg.RedisAddr)

	return auth.NewRedisDenylist(rdb), func() { _ = rdb.Close() }, nil
}

func newMailer(cfg config.Config, prom *observability.Prom, log *slog.Logger) mail.Mailer {
	var inner mail.Mailer
	switch cfg.MailDriver {
	case "log":
		inner = mail.NewLogMailer(log)
	default:
		inner = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPEmail,
			Password:  cfg.SMTPPassword,
			FromName:  cfg.FromName,
			FromEmail: cfg.FromEmail,
		})
	}

	return mail.NewProtected(inner, mail.ProtectedConfig{Timeout: cfg.MailTimeout}, prom)
}
