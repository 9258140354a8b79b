package app

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

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"backoffice-gateway/internal/catalog"
	"backoffice-gateway/internal/config"
	"backoffice-gateway/internal/database"
	"backoffice-gateway/internal/event"
	"backoffice-gateway/internal/handler"
	"backoffice-gateway/internal/metrics"
	"backoffice-gateway/internal/middleware"
	"backoffice-gateway/internal/repository"
	"backoffice-gateway/internal/router"
	"backoffice-gateway/internal/session"
	"backoffice-gateway/internal/storage"
	"backoffice-gateway/internal/upstream"
	"backoffice-gateway/internal/websocket"
)

const staleStateSweep = time.Hour

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// backend is the selected client state store plus what it needs at runtime.
type backend struct {
	storeFor session.StoreFactory
	checks   map[string]handler.HealthCheck
	sweep    func(ctx context.Context)
	close    func()
}

func New(cfg *config.Config) (*App, error) {
	state, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	bus := event.NewBus()
	sessions := session.NewManager(state.storeFor, bus, m)

	identity, err := middleware.NewClientIdentity(cfg.SessionSecret, cfg.ClientCookieName, cfg.ClientCookieTTL, cfg.CookieSecure, sessions)
	if err != nil {
		state.close()
		return nil, fmt.Errorf("failed to initialize client identity: %w", err)
	}

	api, err := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, upstream.WithObserver(m))
	if err != nil {
		state.close()
		return nil, fmt.Errorf("failed to initialize upstream client: %w", err)
	}

	hub := websocket.NewHub(bus)
	background, cancel := context.WithCancel(context.Background())
	go hub.Run(background)
	if state.sweep != nil {
		go state.sweep(background)
	}

	appRouter := router.New(cfg, identity, router.Handlers{
		Auth:     handler.NewAuthHandler(api, validator.New(validator.WithRequiredStructEnabled())),
		Resource: handler.NewResourceHandler(catalog.Registry(), api, m),
		Session:  handler.NewSessionHandler(hub, websocket.Upgrader(cfg.CORSOrigins), catalog.NewClients(api, m)),
		Health:   handler.NewHealthHandler(state.checks),
		Metrics:  m.Handler(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){cancel, bus.Close, state.close},
	}, nil
}

func openBackend(cfg *config.Config) (*backend, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		store, err := storage.NewFileStore(cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open state file: %w", err)
		}
		slog.Info("client state backend ready", "backend", cfg.StorageBackend, "path", cfg.StateFile)
		return &backend{
			storeFor: session.NamespacedFactory(store),
			checks:   map[string]handler.HealthCheck{},
			close:    func() {},
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("client state backend ready", "backend", cfg.StorageBackend, "addr", cfg.RedisAddr)
		return &backend{
			storeFor: session.NamespacedFactory(storage.NewRedisStore(client)),
			checks: map[string]handler.HealthCheck{
				"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
			},
			close: func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		slog.Info("connecting to PostgreSQL")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}
		repo := repository.NewClientStateRepository(db.Pool)
		slog.Info("client state backend ready", "backend", cfg.StorageBackend)
		return &backend{
			storeFor: repo.ForNamespace,
			checks:   map[string]handler.HealthCheck{"postgres": db.Health},
			sweep: func(ctx context.Context) {
				repository.RunStaleCleanup(ctx, repo, staleStateSweep, cfg.StateRetention)
			},
			close: db.Close,
		}, nil

	default:
		slog.Warn("client state is kept in memory and lost on restart")
		return &backend{
			storeFor: session.NamespacedFactory(storage.NewMemoryStore()),
			checks:   map[string]handler.HealthCheck{},
			close:    func() {},
		}, nil
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
