package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/greenhouse/plants-api/internal/api"
	"github.com/greenhouse/plants-api/internal/api/handler"
	"github.com/greenhouse/plants-api/internal/core/service"
	"github.com/greenhouse/plants-api/internal/infrastructure/config"
	mongostore "github.com/greenhouse/plants-api/internal/infrastructure/db/mongo"
	rediscache "github.com/greenhouse/plants-api/internal/infrastructure/db/redis"
	"github.com/greenhouse/plants-api/pkg/logger"
	"github.com/greenhouse/plants-api/pkg/metrics"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		l := logger.Init(logger.Options{Service: "plants-api"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "plants-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run wires the service and serves until ctx is cancelled. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connect to MongoDB at %s: %w", cfg.Mongo.URI, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to close MongoDB client")
		}
	}()

	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	readiness := map[string]handler.Pinger{"mongodb": store.Ping}

	var cache service.PlantCache
	if cfg.Redis.Enabled {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, running without plant cache")
		} else {
			defer rdb.Close()
			cache = rediscache.NewPlantCache(rdb, cfg.Redis.CacheTTL)
			readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret, service.AccessTokenTTL)
	authService := service.NewAuthService(
		mongostore.NewUserRepository(store.DB),
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		log.With().Str("component", "auth").Logger(),
	)
	plantService := service.NewPlantService(
		mongostore.NewPlantRepository(store.DB),
		cache,
		log.With().Str("component", "plants").Logger(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	if cfg.Auth.SeedDefaultUsers {
		if _, err := authService.SeedDefaultUsers(ctx); err != nil {
			return fmt.Errorf("seed default users: %w", err)
		}
	}

	e := api.NewRouter(api.Dependencies{
		Log:            log.With().Str("component", "http").Logger(),
		Auth:           authService,
		Plants:         plantService,
		Tokens:         tokens,
		Readiness:      readiness,
		Registry:       reg,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
		LoginRateBurst: cfg.Auth.LoginRateBurst,
		Production:     cfg.IsProduction(),
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
