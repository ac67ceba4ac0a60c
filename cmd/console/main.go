package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/admin-console/internal/app"
	"github.com/odyssey-erp/admin-console/internal/auth"
	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/console"
	"github.com/odyssey-erp/admin-console/internal/dashboard"
	"github.com/odyssey-erp/admin-console/internal/masterdata/announcements"
	"github.com/odyssey-erp/admin-console/internal/masterdata/categories"
	"github.com/odyssey-erp/admin-console/internal/masterdata/warehouses"
	"github.com/odyssey-erp/admin-console/internal/observability"
	"github.com/odyssey-erp/admin-console/internal/platform/cache"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/users"
	"github.com/odyssey-erp/admin-console/internal/view"
	"github.com/odyssey-erp/admin-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionPrefix, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	pages := view.Pages{Engine: templates, CSRF: csrfManager, Table: routes.Default, Logger: logger}

	backendClient := backend.New(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout})

	var notifier session.LogoutNotifier = jobs.InlineLogoutNotifier{
		Revoker: backendClient,
		Observe: metrics.ObserveLogoutNotice,
	}
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	if cfg.LogoutAsync {
		queue := jobs.NewClient(redisOpts)
		defer func() {
			if err := queue.Close(); err != nil {
				logger.Warn("asynq client close", slog.Any("error", err))
			}
		}()
		notifier = jobs.QueuedLogoutNotifier{Queue: queue, Fallback: notifier, Logger: logger}
	}

	browsers, err := console.NewBrowsers(cfg.SessionCacheSize, console.Factory{
		Backend: backendClient,
		Tokens: func(id string) session.TokenStore {
			return session.NewRedisTokenStore(redisClient, cfg.SessionPrefix, id, cfg.SessionTTL)
		},
		Notifier:       notifier,
		Logger:         logger,
		HydrateTimeout: cfg.HydrateTimeout,
		Listeners:      []session.Listener{metrics.ObserveTransition},
	})
	if err != nil {
		logger.Error("init browser registry", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.TrackBrowsers(browsers.Len)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Pages:                pages,
		SessionManager:       sessionManager,
		CSRFManager:          csrfManager,
		Browsers:             browsers,
		Metrics:              metrics,
		AuthHandler:          auth.NewHandler(logger, pages, browsers, sessionManager, csrfManager),
		DashboardHandler:     dashboard.NewHandler(logger, pages, dashboard.DefaultSources),
		UsersHandler:         users.NewHandler(logger, users.NewBackendService(), pages),
		WarehousesHandler:    warehouses.NewHandler(logger, warehouses.NewBackendService(), pages),
		AnnouncementsHandler: announcements.NewHandler(logger, announcements.NewBackendService(), pages),
		CategoriesHandler:    categories.NewHandler(logger, categories.NewBackendService(), pages),
		JobHandler:           jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
