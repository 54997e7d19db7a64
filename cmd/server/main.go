package main

import (
	"collection-route-service/internal/adapters/cache"
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/adapters/routing"
	"collection-route-service/internal/api"
	"collection-route-service/internal/config"
	"collection-route-service/internal/platform/db"
	"collection-route-service/internal/platform/logger"
	"collection-route-service/internal/platform/metrics"
	"collection-route-service/internal/ports"
	"collection-route-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters behind ports and serves the HTTP API until
// SIGINT or SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env, cfg.LogLevel, cfg.LogFile)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer conn.Close()

	// Schema and depot reference data are applied on every start for local runs.
	if err := initAndSeed(ctx, conn, cfg.DepotSeedPath); err != nil {
		log.WithError(err).Fatal("database initialization failed")
	}

	roadRouter, closeCache, err := buildRouter(cfg, conn, appMetrics)
	if err != nil {
		log.WithError(err).Fatal("road router setup failed")
	}
	defer closeCache()

	depots := repositories.NewSQLDepotDirectory(conn)
	routes := repositories.NewSQLRouteRepository(conn)
	estimator := services.NewETAEstimator(cfg.Estimate.SpeedKmh, cfg.Estimate.DwellMinutesPerStop)

	planner := services.NewRoutePlanner(depots, routes, &services.PolylineAssembler{
		Router:  roadRouter,
		Delay:   cfg.Router.CallDelay,
		Timeout: cfg.Router.Timeout,
		Budget:  cfg.Router.Budget,
		Metrics: appMetrics,
	}, estimator)
	planner.Distance = services.DistanceMetric(cfg.Estimate.DistanceMetric)
	planner.KmPerDegree = cfg.Estimate.KmPerDegree
	planner.Metrics = appMetrics

	handler := api.NewRouter(api.Deps{
		DB:          conn,
		Depots:      depots,
		Routes:      routes,
		Planner:     planner,
		Estimator:   estimator,
		Metrics:     appMetrics,
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Planning stops calling the router after ROUTER_PLAN_BUDGET, so the write
	// timeout must stay above it.
	writeTimeout := 120 * time.Second
	if cfg.Router.Budget+30*time.Second > writeTimeout {
		writeTimeout = cfg.Router.Budget + 30*time.Second
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"router":   cfg.Router.Provider,
			"cache":    cfg.Cache.Backend,
			"database": cfg.DBDriver,
		}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", seedPath).Warn("depot seed file not found, skipping")
		return nil
	}
	if err := repositories.SeedDepotsFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildRouter selects the routing provider and wraps it with the configured
// segment cache. The returned func releases cache resources.
func buildRouter(cfg *config.Config, conn *sql.DB, m *metrics.Metrics) (ports.RoadRouter, func(), error) {
	provider, err := routing.NewRouter(routing.ProviderConfig{
		Type:    routing.ProviderType(cfg.Router.Provider),
		BaseURL: cfg.Router.BaseURL,
		Profile: cfg.Router.Profile,
		APIKey:  cfg.Router.APIKey,
	})
	if err != nil {
		return nil, nil, err
	}

	// The straight-line router is local; caching it gains nothing.
	if routing.ProviderType(cfg.Router.Provider) == routing.ProviderStraight {
		return provider, func() {}, nil
	}

	switch cfg.Cache.Backend {
	case "none":
		return provider, func() {}, nil
	case "sql":
		segments := cache.NewSQLSegmentCache(conn, cfg.Cache.TTL)
		return routing.NewCachedRouter(provider, segments, m), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		segments := cache.NewRedisSegmentCache(client, cfg.Cache.TTL)
		return routing.NewCachedRouter(provider, segments, m), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported segment cache backend: %s", cfg.Cache.Backend)
	}
}
