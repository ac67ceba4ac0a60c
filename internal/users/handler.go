package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/view"
)

const basePath = "/users"

// Handler manages user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   view.Pages
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pages view.Pages) *Handler {
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/new", h.showCreateUserForm)
	r.Post("/", h.createUser)
	r.Get("/{id}/edit", h.showEditUserForm)
	r.Post("/{id}", h.updateUser)
	r.Post("/{id}/delete", h.deleteUser)
}

type formErrors map[string]string

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "users", err)
		return
	}
	page, pagination := shared.Paginate(users, shared.ParseListFilters(r))
	h.pages.Render(w, r, "users_list.html", "Users", map[string]any{
		"Users":      page,
		"Pagination": pagination,
	}, http.StatusOK)
}

func (h *Handler) showCreateUserForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, User{Role: roles.SupportStaff}, basePath, false, formErrors{}, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := CreateInput{
		Email:    r.PostFormValue("email"),
		Name:     r.PostFormValue("name"),
		Role:     roles.Role(r.PostFormValue("role")),
		Password: r.PostFormValue("password"),
	}
	if _, err := h.service.CreateUser(r.Context(), in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("create user failed", slog.Any("error", err))
		h.renderForm(w, r, User{Email: in.Email, Name: in.Name, Role: in.Role}, basePath, false, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "User created")
}

func (h *Handler) showEditUserForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "user", err)
		return
	}
	h.renderForm(w, r, user, basePath+"/"+id, true, formErrors{}, http.StatusOK)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := UpdateInput{
		Email:    r.PostFormValue("email"),
		Name:     r.PostFormValue("name"),
		Role:     roles.Role(r.PostFormValue("role")),
		Password: r.PostFormValue("password"),
	}
	if _, err := h.service.UpdateUser(r.Context(), id, in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("update user failed", slog.Any("error", err), slog.String("id", id))
		h.renderForm(w, r, User{Email: in.Email, Name: in.Name, Role: in.Role}, basePath+"/"+id, true, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "User updated")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if snap := session.SnapshotFromContext(r.Context()); snap.User != nil && snap.User.ID == id {
		h.pages.RedirectWithFlash(w, r, basePath, "error", "You cannot delete your own account")
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("delete user failed", slog.Any("error", err), slog.String("id", id))
		h.pages.RedirectWithFlash(w, r, basePath, "error", shared.UserMessage(err))
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "User deleted")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, user User, action string, editing bool, errs formErrors, status int) {
	h.pages.Render(w, r, "users_form.html", "Users", map[string]any{
		"User":    user,
		"Action":  action,
		"Editing": editing,
		"Errors":  map[string]string(errs),
	}, status)
}
