package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	timezone.SetDefault(cfg.DefaultTimezone)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
		}); err != nil {
			logger.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer dispatcher.Close()

	listeners := domain.Listeners{}

	var dashboardCache *cache.DashboardCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()

		dashboardCache = cache.NewDashboardCache(rdb, cfg.DashboardCacheTTL, logger)
		listeners = append(listeners, dashboardCache)
	}

	if publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger); publisher != nil {
		defer publisher.Close()
		listeners = append(listeners, publisher)
	}

	deps := routes.Deps{
		DB:               db,
		Config:           cfg,
		Logger:           logger,
		Audit:            dispatcher,
		Listener:         listeners,
		BookingMetrics:   metrics.NewBookingMetrics(prometheus.DefaultRegisterer),
		DashboardMetrics: metrics.NewDashboardMetrics(prometheus.DefaultRegisterer),
		HTTPMetrics:      metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Gatherer:         prometheus.DefaultGatherer,
	}
	if dashboardCache != nil {
		deps.Cache = dashboardCache
		deps.Setup = dashboardCache
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
