package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/pokeshop-api/api/routes"
	"github.com/angelmondragon/pokeshop-api/internal/orders"
	"github.com/angelmondragon/pokeshop-api/internal/pokemon"
	"github.com/angelmondragon/pokeshop-api/internal/users"
	"github.com/angelmondragon/pokeshop-api/pkg/config"
	"github.com/angelmondragon/pokeshop-api/pkg/db"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
	"github.com/angelmondragon/pokeshop-api/pkg/metrics"
	"github.com/angelmondragon/pokeshop-api/pkg/redis"
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

	format := os.Getenv("LOG_FORMAT")
	if format == "" && cfg.App.IsDev() {
		format = logger.FormatConsole
	}
	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	var cache routes.Cache
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cache = redisClient
	} else {
		logg.Info(ctx, "redis not configured, idempotency keys disabled")
	}

	userRepo := users.NewRepository(dbClient)
	userService, err := users.NewService(userRepo)
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.NewRepository(dbClient), userRepo)
	if err != nil {
		return err
	}
	pokemonService, err := pokemon.NewService(pokemon.NewRepository(dbClient))
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.DB.Driver,
		"sqlite": cfg.FeatureFlags.UseSQLite,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeader,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			cache,
			httpMetrics,
			registry,
			userService,
			orderService,
			pokemonService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
