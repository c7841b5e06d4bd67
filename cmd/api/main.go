package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/prachya-dev/saithong-backend/api/routes"
	"github.com/prachya-dev/saithong-backend/internal/address"
	checkoutsvc "github.com/prachya-dev/saithong-backend/internal/checkout"
	"github.com/prachya-dev/saithong-backend/internal/geo"
	locationsvc "github.com/prachya-dev/saithong-backend/internal/locations"
	stocksvc "github.com/prachya-dev/saithong-backend/internal/stock"
	"github.com/prachya-dev/saithong-backend/pkg/config"
	"github.com/prachya-dev/saithong-backend/pkg/db"
	"github.com/prachya-dev/saithong-backend/pkg/logger"
	"github.com/prachya-dev/saithong-backend/pkg/metrics"
	"github.com/prachya-dev/saithong-backend/pkg/migrate"
	"github.com/prachya-dev/saithong-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	// The geo index must build cleanly or the process must not start: a
	// corrupt hierarchy corrupts every downstream address selection.
	rawDataset, err := geo.LoadFile(cfg.Geo.DatasetPath)
	if err != nil {
		logg.Error(context.Background(), "failed to load geo dataset", err)
		os.Exit(1)
	}
	index, err := geo.Build(rawDataset)
	if err != nil {
		logg.Error(context.Background(), "failed to build geo index", err)
		os.Exit(1)
	}
	resolver := address.NewResolver(index)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	stockMetrics := metrics.NewStockMetrics(registry)

	locationService, err := locationsvc.NewService(locationsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create locations service", err)
		os.Exit(1)
	}

	stockService, err := stocksvc.NewService(dbClient, stocksvc.NewRepository(dbClient.DB()), stockMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		locationService,
		stockService,
		checkoutsvc.NewAddressRepository(dbClient.DB()),
		cfg.Shipping,
		stockMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"provinces": len(index.Provinces()),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Resolver:  resolver,
			Locations: locationService,
			Stock:     stockService,
			Checkout:  checkoutService,
			Registry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
