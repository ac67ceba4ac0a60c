package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/admin-console/internal/console"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	pages          view.Pages
	browsers       *console.Browsers
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, pages view.Pages, browsers *console.Browsers, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		pages:          pages,
		browsers:       browsers,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(routes.LoginPath, h.showLogin)
	r.Post(routes.LoginPath, h.handleLogin)
	r.Post(routes.LogoutPath, h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if session.SnapshotFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, routes.DashboardPath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginForm{}, map[string]string{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				errs[fieldMessageKey(fieldErr.Field())] = fieldMessage(fieldErr)
			}
		}
		h.renderLogin(w, r, form, errs, http.StatusBadRequest)
		return
	}

	current := session.FromContext(r.Context())
	if current == nil {
		h.logger.Error("session store missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	// Sign in on a browser under a fresh id; the pre-login id is retired
	// once the credentials are accepted.
	sess := shared.SessionFromContext(r.Context())
	store := current
	var next *console.Browser
	if sess != nil && h.browsers != nil && h.sessionManager != nil {
		next = h.browsers.Resolve(h.sessionManager.NewID())
		store = next.Store
	}
	user, err := store.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if next != nil {
			h.browsers.Forget(next.ID)
		}
		status := http.StatusBadGateway
		if errors.Is(err, session.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		} else {
			h.logger.Error("login failed", slog.Any("error", err))
		}
		errs["general"] = shared.UserSafeMessage(err)
		h.renderLogin(w, r, form, errs, status)
		return
	}

	if next != nil {
		if err := current.Logout(r.Context()); err != nil {
			h.logger.Warn("retire pre-login session", slog.Any("error", err))
		}
		h.browsers.Forget(sess.ID)
		h.sessionManager.Renew(sess, next.ID)
	}
	if sess != nil {
		if _, err := h.csrfManager.Rotate(sess); err != nil {
			h.logger.Warn("rotate csrf token", slog.Any("error", err))
		}
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back, " + user.Name})
	}
	h.logger.Info("user signed in", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	http.Redirect(w, r, routes.DashboardPath, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if store := session.FromContext(r.Context()); store != nil {
		if err := store.Logout(r.Context()); err != nil {
			h.logger.Warn("logout", slog.Any("error", err))
		}
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if h.browsers != nil {
			h.browsers.Forget(sess.ID)
		}
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, routes.LoginPath, http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, errs map[string]string, status int) {
	h.pages.Render(w, r, "login.html", "Sign in", map[string]any{
		"Email":  form.Email,
		"Errors": errs,
	}, status)
}

func fieldMessageKey(field string) string {
	switch field {
	case "Email":
		return "email"
	case "Password":
		return "password"
	default:
		return "general"
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "required":
		return "This field is required"
	case fe.Tag() == "email":
		return "Enter a valid email address"
	default:
		return "Invalid value"
	}
}
