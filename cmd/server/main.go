package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"teamhub.app/server/common/id"
	"teamhub.app/server/common/logger"
	"teamhub.app/server/common/metrics"
	"teamhub.app/server/common/otel"
	"teamhub.app/server/core/config"
	"teamhub.app/server/core/db"
	"teamhub.app/server/internal/auth"
	"teamhub.app/server/internal/cache"
	"teamhub.app/server/internal/http/dto"
	"teamhub.app/server/internal/http/middleware"
	httprouter "teamhub.app/server/internal/http/router"
	"teamhub.app/server/internal/service"
	"teamhub.app/server/internal/store"
)

const cacheSweepInterval = time.Minute

func main() {
	fmt.Printf("%s\n", banner)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "teamhub starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.SnowflakeNode); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Metrics {
		metrics.Init()
	}

	workspaceCache, closeCache, err := setupCache(ctx, cfg.Cache)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up cache", "error", err, "backend", cfg.Cache.Backend)
		os.Exit(1)
	}
	defer closeCache()

	dto.RegisterValidators()

	services := service.NewServices(service.ServicesConfig{
		Stores:       store.NewStores(database.Conn()),
		TxRunner:     service.NewTxRunner(database),
		Cache:        workspaceCache,
		CacheTTL:     cfg.Cache.TTL,
		Hasher:       auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:       auth.NewJWTIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
		AtomicAccept: cfg.Invite.AtomicAccept,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// setupCache builds the configured workspace cache. The returned func
// releases its resources.
func setupCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.InfoContext(ctx, "redis cache connected", "addr", opts.Addr)
		return cache.NewRedis(client), func() { _ = client.Close() }, nil

	case config.CacheBackendNone:
		slog.InfoContext(ctx, "workspace cache disabled")
		return cache.NewNoop(), func() {}, nil

	default:
		mem := cache.NewMemory()
		mem.StartJanitor(ctx, cacheSweepInterval)
		slog.InfoContext(ctx, "in-memory workspace cache enabled", "ttl", cfg.TTL)
		return mem, func() {}, nil
	}
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if cfg.Metrics {
		router.Use(middleware.Metrics())
	}

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		MetricsEnabled: cfg.Metrics,
	})

	return router
}

const banner = `
████████╗███████╗ █████╗ ███╗   ███╗██╗  ██╗██╗   ██╗██████╗
╚══██╔══╝██╔════╝██╔══██╗████╗ ████║██║  ██║██║   ██║██╔══██╗
   ██║   █████╗  ███████║██╔████╔██║███████║██║   ██║██████╔╝
   ██║   ██╔══╝  ██╔══██║██║╚██╔╝██║██╔══██║██║   ██║██╔══██╗
   ██║   ███████╗██║  ██║██║ ╚═╝ ██║██║  ██║╚██████╔╝██████╔╝
   ╚═╝   ╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝
`
