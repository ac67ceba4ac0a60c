package announcements

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/view"
)

const basePath = "/announcements"

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   view.Pages
}

func NewHandler(logger *slog.Logger, service *Service, pages view.Pages) *Handler {
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers announcement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.Form)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "announcements", err)
		return
	}
	page, pagination := shared.Paginate(items, shared.ParseListFilters(r))
	h.pages.Render(w, r, "announcements_list.html", "Announcements", map[string]any{
		"Announcements": page,
		"Pagination":    pagination,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, Announcement{}, basePath, false, map[string]string{}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := Input{Title: r.PostFormValue("title"), Content: r.PostFormValue("content")}
	if _, err := h.service.Create(r.Context(), author(r), in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("create announcement failed", "error", err)
		h.renderForm(w, r, fromInput(in), basePath, false, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Announcement published")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "announcement", err)
		return
	}
	h.renderForm(w, r, item, basePath+"/"+id, true, map[string]string{}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := Input{Title: r.PostFormValue("title"), Content: r.PostFormValue("content")}
	if _, err := h.service.Update(r.Context(), id, in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("update announcement failed", "error", err, "id", id)
		h.renderForm(w, r, fromInput(in), basePath+"/"+id, true, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Announcement updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("delete announcement failed", "error", err, "id", id)
		h.pages.RedirectWithFlash(w, r, basePath, "error", shared.UserMessage(err))
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Announcement deleted")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, item Announcement, action string, editing bool, errs map[string]string, status int) {
	h.pages.Render(w, r, "announcements_form.html", "Announcements", map[string]any{
		"Announcement": item,
		"Action":       action,
		"Editing":      editing,
		"Errors":       errs,
	}, status)
}

func author(r *http.Request) string {
	snap := session.SnapshotFromContext(r.Context())
	if snap.User == nil {
		return ""
	}
	return snap.User.Name
}

func fromInput(in Input) Announcement {
	return Announcement{Title: in.Title, Content: in.Content}
}
