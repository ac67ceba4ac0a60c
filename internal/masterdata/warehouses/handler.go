package warehouses

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
	"github.com/odyssey-erp/admin-console/internal/view"
)

const basePath = "/warehouses"

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   view.Pages
}

func NewHandler(logger *slog.Logger, service *Service, pages view.Pages) *Handler {
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers warehouse routes.
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
		shared.LoadFailed(w, r, h.logger, "warehouses", err)
		return
	}
	page, pagination := shared.Paginate(items, shared.ParseListFilters(r))
	h.pages.Render(w, r, "warehouses_list.html", "Warehouses", map[string]any{
		"Warehouses": page,
		"Pagination": pagination,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, Warehouse{}, basePath, false, map[string]string{}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, errs := parseForm(r)
	if len(errs) > 0 {
		h.renderForm(w, r, fromInput(in), basePath, false, errs, http.StatusUnprocessableEntity)
		return
	}
	if _, err := h.service.Create(r.Context(), in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("create warehouse failed", "error", err)
		h.renderForm(w, r, fromInput(in), basePath, false, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Warehouse created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	warehouse, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "warehouse", err)
		return
	}
	h.renderForm(w, r, warehouse, basePath+"/"+id, true, map[string]string{}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, errs := parseForm(r)
	if len(errs) > 0 {
		h.renderForm(w, r, fromInput(in), basePath+"/"+id, true, errs, http.StatusUnprocessableEntity)
		return
	}
	if _, err := h.service.Update(r.Context(), id, in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("update warehouse failed", "error", err, "id", id)
		h.renderForm(w, r, fromInput(in), basePath+"/"+id, true, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Warehouse updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("delete warehouse failed", "error", err, "id", id)
		h.pages.RedirectWithFlash(w, r, basePath, "error", shared.UserMessage(err))
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Warehouse deleted successfully")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, warehouse Warehouse, action string, editing bool, errs map[string]string, status int) {
	h.pages.Render(w, r, "warehouses_form.html", "Warehouses", map[string]any{
		"Warehouse": warehouse,
		"Action":    action,
		"Editing":   editing,
		"Errors":    errs,
	}, status)
}

func parseForm(r *http.Request) (Input, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["general"] = "Bad request"
		return Input{}, errs
	}
	in := Input{City: r.PostFormValue("city")}
	var err error
	if in.Latitude, err = parseCoordinate(r.PostFormValue("latitude")); err != nil {
		errs["latitude"] = "Enter a number"
	}
	if in.Longitude, err = parseCoordinate(r.PostFormValue("longitude")); err != nil {
		errs["longitude"] = "Enter a number"
	}
	return in, errs
}

func parseCoordinate(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func fromInput(in Input) Warehouse {
	return Warehouse{City: in.City, Latitude: in.Latitude, Longitude: in.Longitude}
}
