package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/admin-console/internal/auth"
	"github.com/odyssey-erp/admin-console/internal/console"
	"github.com/odyssey-erp/admin-console/internal/dashboard"
	"github.com/odyssey-erp/admin-console/internal/masterdata/announcements"
	"github.com/odyssey-erp/admin-console/internal/masterdata/categories"
	"github.com/odyssey-erp/admin-console/internal/masterdata/warehouses"
	"github.com/odyssey-erp/admin-console/internal/observability"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/users"
	"github.com/odyssey-erp/admin-console/internal/view"
	"github.com/odyssey-erp/admin-console/jobs"
	"github.com/odyssey-erp/admin-console/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Pages          view.Pages
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Browsers       *console.Browsers
	Metrics        *observability.Metrics

	AuthHandler          *auth.Handler
	DashboardHandler     *dashboard.Handler
	UsersHandler         *users.Handler
	WarehousesHandler    *warehouses.Handler
	AnnouncementsHandler *announcements.Handler
	CategoriesHandler    *categories.Handler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hydrateWait := DefaultHydrateWait
	if params.Config != nil {
		hydrateWait = params.Config.HydrateWait
	}

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.JobHandler != nil {
		r.Route("/healthz/jobs", params.JobHandler.MountRoutes)
	}
	r.Handle("/metrics", params.Metrics.Handler())
	if static, err := fs.Sub(web.Static, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	} else {
		logger.Error("static assets unavailable", slog.Any("error", err))
	}

	browserChain := chi.Chain(
		SessionMiddleware(params.SessionManager, logger),
		BrowserMiddleware(params.Browsers, hydrateWait),
		CSRFMiddleware(params.CSRFManager, logger),
	)

	r.Group(func(r chi.Router) {
		r.Use(browserChain...)

		params.AuthHandler.MountRoutes(r)
		r.Get(routes.UnauthorizedPath, func(w http.ResponseWriter, r *http.Request) {
			params.Pages.Render(w, r, "unauthorized.html", "Unauthorized", nil, http.StatusForbidden)
		})
		r.Get("/api/session", sessionAPI(params.Pages.Table, hydrateTimeout(params.Config)))

		guard := routes.Guard{
			Table:   params.Pages.Table,
			Pending: http.HandlerFunc(params.Pages.Loading),
			Logger:  logger,
			Observe: params.Metrics.ObserveGuard,
		}
		r.Group(func(r chi.Router) {
			r.Use(guard.Middleware)

			r.Get("/", params.DashboardHandler.Show)
			r.Get(routes.DashboardPath, params.DashboardHandler.Show)
			if params.UsersHandler != nil {
				r.Route("/users", params.UsersHandler.MountRoutes)
			}
			if params.WarehousesHandler != nil {
				r.Route("/warehouses", params.WarehousesHandler.MountRoutes)
			}
			if params.AnnouncementsHandler != nil {
				r.Route("/announcements", params.AnnouncementsHandler.MountRoutes)
			}
			if params.CategoriesHandler != nil {
				r.Route("/categories", params.CategoriesHandler.MountRoutes)
			}
		})
	})

	// Misses inside a session-aware group already carry the browser; misses
	// at the top level still need it to render the shell.
	notFound := browserChain.HandlerFunc(params.Pages.NotFound)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if shared.SessionFromContext(req.Context()) != nil {
			params.Pages.NotFound(w, req)
			return
		}
		notFound.ServeHTTP(w, req)
	})
	return r
}
