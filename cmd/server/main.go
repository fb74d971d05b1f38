package main

import (
	"context"
	"errors"
	"goal-route-service/internal/adapters/cache"
	"goal-route-service/internal/adapters/routing"
	"goal-route-service/internal/adapters/session"
	"goal-route-service/internal/api"
	"goal-route-service/internal/config"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"goal-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (leg cache, routing provider, session store) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal(log.NewLogfmtLogger(os.Stderr), "load config", err)
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	obs.SetLogger(logger)
	if envErr != nil {
		level.Debug(logger).Log("msg", "no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := cache.Open(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		fatal(logger, "open cache database", err)
	}
	defer stores.Close()

	provider, geocoder, err := newProvider(cfg, stores)
	if err != nil {
		fatal(logger, "build routing provider", err)
	}

	store, closeStore, err := newSessionStore(ctx, cfg.RedisURL)
	if err != nil {
		fatal(logger, "connect session store", err)
	}
	defer closeStore()

	engine := services.NewRouteEngine(
		// provider calls are expensive and rate limited, so legs are cached persistently
		routing.NewCachedRouteProvider(provider, stores.Legs),
		services.EngineConfig{
			DetourFactor:   cfg.DetourFactor,
			Concurrency:    cfg.SearchConcurrency,
			LegTimeout:     cfg.LegTimeout,
			SearchDeadline: cfg.SearchDeadline,
		},
	)
	sessions := services.NewSessionService(engine, store, services.SessionConfig{
		TTL:         cfg.SessionTTL,
		MaxAttempts: cfg.MaxManualAttempts,
		Debounce:    cfg.ClickDebounce,
		ResetMode:   cfg.ResetMode,
	})

	deps := api.Deps{Engine: engine, Sessions: sessions}
	if geocoder != nil {
		deps.Geocoder = geocoder
	}

	// Timeouts are tuned for cold-cache searches (many provider round trips).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			level.Warn(logger).Log("msg", "shutdown", "err", err)
		}
	}()

	level.Info(logger).Log(
		"msg", "server listening",
		"addr", srv.Addr,
		"provider", cfg.Provider,
		"cache", stores.Driver,
		"reset_mode", cfg.ResetMode,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal(logger, "serve", err)
	}
}

func newProvider(cfg *config.Config, stores *cache.Stores) (ports.RouteProvider, *routing.ORSGeocoder, error) {
	switch cfg.Provider {
	case "osrm":
		return routing.NewOSRMRouteProvider(cfg.OSRMBaseURL), nil, nil
	default:
		provider, err := routing.NewORSRouteProvider(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.ORSProfile)
		if err != nil {
			return nil, nil, err
		}
		geocoder, err := routing.NewORSGeocoder(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.GeocodeCountry, stores.Geocodes)
		if err != nil {
			return nil, nil, err
		}
		return provider, geocoder, nil
	}
}

// newSessionStore uses Redis unless url is "memory", which keeps sessions in
// process and only suits a single instance.
func newSessionStore(ctx context.Context, url string) (ports.SessionStore, func(), error) {
	if url == "memory" {
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client), func() { client.Close() }, nil
}

func fatal(logger log.Logger, msg string, err error) {
	level.Error(logger).Log("msg", msg, "err", err)
	os.Exit(1)
}
