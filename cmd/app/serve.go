package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"game_dashboard/internal/api"
	"game_dashboard/internal/cache"
	"game_dashboard/internal/middleware"
	"game_dashboard/internal/notify"
	"game_dashboard/internal/repository"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/auth"
	"game_dashboard/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func() (*Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *Config) error {
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	schedule, err := cfg.Schedule.Build()
	if err != nil {
		return err
	}

	var tsCache service.TimeseriesCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		tsCache = cache.NewTimeseriesCache(rdb, cfg.Redis.TTL())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := service.RegisterMetrics(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	metrics := middleware.NewMetrics(reg)

	hub := notify.NewHub()
	defer hub.Close()

	store := service.NewStore(repo)
	refresher := service.NewRefresher(
		service.NewResetEngine(schedule),
		service.NewRewardEngine(schedule, cfg.Schedule.PassThreshold),
		tsCache, hub)
	svc := service.NewService(
		service.NewGameService(store, schedule, hub, nil),
		service.NewTaskService(store, schedule, refresher, hub, nil),
		service.NewSpendingService(store, schedule, refresher, hub, nil),
		service.NewCurrencyService(store, schedule, refresher, tsCache, hub, nil),
		service.NewCharacterService(store, hub),
		service.NewEventService(store, schedule, hub, nil),
	)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))
	router.Use(middleware.RequestID(), metrics.Middleware())

	api.NewHealthRoutes(router)
	router.GET("/metrics", metrics.Handler())

	authz := middleware.NewAuthorization()
	a := router.Group("/api/v1")
	a.Use(
		middleware.RateLimiter(ctx, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
		auth.NewTokenAuth(cfg.Auth.AdminToken).Middleware(),
	)
	api.NewGameRoutes(a, svc.GameService, authz)
	api.NewTaskRoutes(a, svc.TaskService, authz)
	api.NewCurrencyRoutes(a, svc.CurrencyService, authz)
	api.NewSpendingRoutes(a, svc.SpendingService, authz)
	api.NewCharacterRoutes(a, svc.CharacterService, authz)
	api.NewEventRoutes(a, svc.EventService, authz)
	api.NewLiveRoutes(a, svc.GameService, hub)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zapLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.Close()
	return srv.Shutdown(shutdownCtx)
}
