package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/brewery-backend/api/routes"
	"github.com/angelmondragon/brewery-backend/internal/beers"
	"github.com/angelmondragon/brewery-backend/pkg/cache"
	"github.com/angelmondragon/brewery-backend/pkg/config"
	"github.com/angelmondragon/brewery-backend/pkg/db"
	"github.com/angelmondragon/brewery-backend/pkg/instance"
	"github.com/angelmondragon/brewery-backend/pkg/logger"
	"github.com/angelmondragon/brewery-backend/pkg/metrics"
	"github.com/angelmondragon/brewery-backend/pkg/migrate"
	"github.com/angelmondragon/brewery-backend/pkg/pagination"
	"github.com/angelmondragon/brewery-backend/pkg/redis"
)

const serviceName = "brewery-api"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		multierr.AppendInto(&err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	store, err := newCacheStore(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		multierr.AppendInto(&err, store.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	readThrough := cache.NewReadThrough(store, cfg.Cache.TTL, metrics.NewCacheMetrics(registry), logg)
	beerService, err := beers.NewService(beers.NewRepository(dbClient.DB()), readThrough, logg, beers.ServiceOptions{
		Limits: pagination.Limits{
			DefaultSize: cfg.Catalog.DefaultPageSize,
			MaxSize:     cfg.Catalog.MaxPageSize,
		},
		DeleteTimeout: cfg.Catalog.DeleteTimeout,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cache_driver": cfg.Cache.Driver,
		"instance":     instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, store, beerService, registry, metrics.NewHTTPMetrics(registry)),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.App.ShutdownTimeout)
	defer cancel()

	return multierr.Combine(
		server.Shutdown(shutdownCtx),
		beerService.Wait(shutdownCtx),
	)
}

// newCacheStore builds the configured backend; the redis store owns the client it dials.
func newCacheStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cache.Store, error) {
	if !cfg.Cache.UsesRedis() {
		return cache.NewMemoryStore(cache.MemoryConfig{
			Capacity:           cfg.Cache.Capacity,
			NumShards:          cfg.Cache.NumShards,
			TTL:                cfg.Cache.TTL,
			EvictionPercentage: cfg.Cache.EvictionPercentage,
		})
	}
	client, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisStore(client), nil
}
