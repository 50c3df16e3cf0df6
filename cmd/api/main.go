package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/showfinder/internal/auth"
	"github.com/geocoder89/showfinder/internal/config"
	"github.com/geocoder89/showfinder/internal/db"
	"github.com/geocoder89/showfinder/internal/geosession"
	httpx "github.com/geocoder89/showfinder/internal/http"
	"github.com/geocoder89/showfinder/internal/http/handlers"
	"github.com/geocoder89/showfinder/internal/observability"
	"github.com/geocoder89/showfinder/internal/redisclient"
	"github.com/geocoder89/showfinder/internal/repo/postgres"
	"github.com/geocoder89/showfinder/internal/security"
	"github.com/geocoder89/showfinder/internal/upstream"
	"github.com/geocoder89/showfinder/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		sqlDB := stdlib.OpenDBFromPool(pool)
		err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()

		if err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	checks := map[string]handlers.PingFunc{"db": pool.Ping}

	// per-session geocode state: redis when configured, otherwise in process
	var sessions geosession.Store

	if cfg.RedisAddr == "" {
		mem := geosession.NewMemoryStore(cfg.GeoSessionTTL)
		defer mem.Close()
		sessions = mem
	} else {
		rdb, err := redisclient.Connect(ctx, redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer rdb.Close()

		sessions = geosession.NewRedisStore(rdb, cfg.GeoSessionTTL)
		checks["redis"] = rdb.Ping
	}

	users := postgres.NewUsersRepo(pool, prom)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(users, security.NewHasher(0), tokens)

	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	created, err := db.EnsureSeedUser(seedCtx, authSvc, cfg)
	cancelSeed()
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	if created {
		log.Info("seed user created", "email", cfg.SeedEmail)
	}

	if cfg.TicketmasterKey == "" || cfg.GeocodeKey == "" {
		log.Warn("upstream api keys missing; concert and location routes will fail upstream")
	}

	var shuttingDown atomic.Bool

	router := httpx.NewRouter(httpx.Deps{
		Config: cfg,
		Logger: log,
		Auth:   authSvc,
		Tokens: tokens,
		Saved:  postgres.NewSavedRepo(pool, prom),
		Finder: upstream.NewDiscovery(upstream.Config{
			BaseURL: cfg.TicketmasterURL,
			APIKey:  cfg.TicketmasterKey,
			Timeout: cfg.UpstreamTimeout,
		}, prom),
		Geocoder: upstream.NewGeocoder(upstream.Config{
			BaseURL: cfg.GeocodeURL,
			APIKey:  cfg.GeocodeKey,
			Timeout: cfg.UpstreamTimeout,
		}, prom),
		Sessions: sessions,
		Prom:     prom,
		Gatherer: reg,
		Checks:   checks,

		ShuttingDown: shuttingDown.Load,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shuttingDown.Store(true)

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}
