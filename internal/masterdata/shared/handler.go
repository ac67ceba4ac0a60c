// Package shared holds the plumbing common to the resource screens.
package shared

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/routes"
	internalShared "github.com/odyssey-erp/admin-console/internal/shared"
)

// UserMessage is internal/shared.UserSafeMessage, re-exported for screens.
func UserMessage(err error) string {
	return internalShared.UserSafeMessage(err)
}

// RedirectIfUnauthorized sends the browser to the login page when err is a
// backend authentication rejection. The client hook has already moved the
// session to anonymous by then.
func RedirectIfUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	http.Redirect(w, r, routes.LoginPath, http.StatusSeeOther)
	return true
}

// LoadFailed handles an error loading a page.
func LoadFailed(w http.ResponseWriter, r *http.Request, logger *slog.Logger, what string, err error) {
	if RedirectIfUnauthorized(w, r, err) {
		return
	}
	logger.Error("load "+what+" failed", "error", err, "path", r.URL.Path)
	if errors.Is(err, backend.ErrNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	http.Error(w, "Failed to load "+what, http.StatusBadGateway)
}

// SortByName orders items by a display name using English collation, so
// "Île" sorts with "i" and case does not split the list.
func SortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(name(items[i]), name(items[j])) < 0
	})
}
