package categories

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
	"github.com/odyssey-erp/admin-console/internal/view"
)

const (
	basePath    = "/categories"
	subBasePath = basePath + "/subcategories"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   view.Pages
}

func NewHandler(logger *slog.Logger, service *Service, pages view.Pages) *Handler {
	return &Handler{logger: logger, service: service, pages: pages}
}

// MountRoutes registers category and subcategory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.Form)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.EditForm)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)

	r.Route("/subcategories", func(r chi.Router) {
		r.Get("/", h.ListSub)
		r.Get("/new", h.SubForm)
		r.Post("/", h.CreateSub)
		r.Get("/{id}/edit", h.EditSubForm)
		r.Post("/{id}", h.UpdateSub)
		r.Post("/{id}/delete", h.DeleteSub)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListCategories(r.Context())
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "categories", err)
		return
	}
	page, pagination := shared.Paginate(items, shared.ParseListFilters(r))
	h.pages.Render(w, r, "categories_list.html", "Categories", map[string]any{
		"Categories": page,
		"Pagination": pagination,
	}, http.StatusOK)
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, Category{}, basePath, false, map[string]string{}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := categoryInput(w, r)
	if !ok {
		return
	}
	if _, err := h.service.CreateCategory(r.Context(), in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("create category failed", "error", err)
		h.renderForm(w, r, Category{Name: in.Name, Description: in.Description}, basePath, false, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Category created successfully")
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "category", err)
		return
	}
	h.renderForm(w, r, item, basePath+"/"+id, true, map[string]string{}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := categoryInput(w, r)
	if !ok {
		return
	}
	if _, err := h.service.UpdateCategory(r.Context(), id, in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("update category failed", "error", err, "id", id)
		h.renderForm(w, r, Category{Name: in.Name, Description: in.Description}, basePath+"/"+id, true, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Category updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("delete category failed", "error", err, "id", id)
		h.pages.RedirectWithFlash(w, r, basePath, "error", shared.UserMessage(err))
		return
	}
	h.pages.RedirectWithFlash(w, r, basePath, "success", "Category deleted successfully")
}

func (h *Handler) ListSub(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListSubCategories(r.Context())
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "subcategories", err)
		return
	}
	page, pagination := shared.Paginate(items, shared.ParseListFilters(r))
	h.pages.Render(w, r, "subcategories_list.html", "Subcategories", map[string]any{
		"SubCategories": page,
		"Pagination":    pagination,
	}, http.StatusOK)
}

func (h *Handler) SubForm(w http.ResponseWriter, r *http.Request) {
	h.renderSubForm(w, r, SubCategory{Category: backend.ID(r.URL.Query().Get("category"))}, subBasePath, false, map[string]string{}, http.StatusOK)
}

func (h *Handler) CreateSub(w http.ResponseWriter, r *http.Request) {
	in, ok := subCategoryInput(w, r)
	if !ok {
		return
	}
	if _, err := h.service.CreateSubCategory(r.Context(), in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("create subcategory failed", "error", err)
		h.renderSubForm(w, r, fromSubInput(in), subBasePath, false, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, subBasePath, "success", "Subcategory created successfully")
}

func (h *Handler) EditSubForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.service.GetSubCategory(r.Context(), id)
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "subcategory", err)
		return
	}
	h.renderSubForm(w, r, item, subBasePath+"/"+id, true, map[string]string{}, http.StatusOK)
}

func (h *Handler) UpdateSub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := subCategoryInput(w, r)
	if !ok {
		return
	}
	if _, err := h.service.UpdateSubCategory(r.Context(), id, in); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("update subcategory failed", "error", err, "id", id)
		h.renderSubForm(w, r, fromSubInput(in), subBasePath+"/"+id, true, shared.FieldErrors(err), http.StatusBadRequest)
		return
	}
	h.pages.RedirectWithFlash(w, r, subBasePath, "success", "Subcategory updated successfully")
}

func (h *Handler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteSubCategory(r.Context(), id); err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("delete subcategory failed", "error", err, "id", id)
		h.pages.RedirectWithFlash(w, r, subBasePath, "error", shared.UserMessage(err))
		return
	}
	h.pages.RedirectWithFlash(w, r, subBasePath, "success", "Subcategory deleted successfully")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, item Category, action string, editing bool, errs map[string]string, status int) {
	h.pages.Render(w, r, "categories_form.html", "Categories", map[string]any{
		"Category": item,
		"Action":   action,
		"Editing":  editing,
		"Errors":   errs,
	}, status)
}

// renderSubForm needs the category list for the parent select; a failure to
// load it degrades to an empty select rather than failing the page.
func (h *Handler) renderSubForm(w http.ResponseWriter, r *http.Request, item SubCategory, action string, editing bool, errs map[string]string, status int) {
	parents, err := h.service.ListCategories(r.Context())
	if err != nil {
		if shared.RedirectIfUnauthorized(w, r, err) {
			return
		}
		h.logger.Error("list categories failed", "error", err)
		parents = []Category{}
	}
	h.pages.Render(w, r, "subcategories_form.html", "Subcategories", map[string]any{
		"SubCategory": item,
		"Categories":  parents,
		"Action":      action,
		"Editing":     editing,
		"Errors":      errs,
	}, status)
}

func categoryInput(w http.ResponseWriter, r *http.Request) (CategoryInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return CategoryInput{}, false
	}
	return CategoryInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}, true
}

func subCategoryInput(w http.ResponseWriter, r *http.Request) (SubCategoryInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return SubCategoryInput{}, false
	}
	return SubCategoryInput{
		Name:        r.PostFormValue("name"),
		Category:    backend.ID(r.PostFormValue("category")),
		Description: r.PostFormValue("description"),
	}, true
}

func fromSubInput(in SubCategoryInput) SubCategory {
	return SubCategory{Name: in.Name, Category: in.Category, Description: in.Description}
}
