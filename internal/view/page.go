package view

import (
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/shared"
)

// Pages couples the engine with the per-request values every screen needs:
// the CSRF token, the pending flash, the signed-in user and the filtered
// navigation.
type Pages struct {
	Engine *Engine
	CSRF   *shared.CSRFManager
	Table  routes.Table
	Logger *slog.Logger
}

// Data assembles TemplateData for r.
func (p Pages) Data(r *http.Request, title string, data any) TemplateData {
	sess := shared.SessionFromContext(r.Context())
	var (
		csrfToken string
		flash     *shared.FlashMessage
	)
	if sess != nil {
		csrfToken, _ = p.CSRF.EnsureToken(sess)
		flash = sess.PopFlash()
	}
	snap := session.SnapshotFromContext(r.Context())
	var user *session.User
	if snap.IsAuthenticated() {
		user = snap.User
	}
	return TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        user,
		Nav:         p.Table.Navigation(snap, r.URL.Path),
		Data:        data,
	}
}

// Render writes page with status.
func (p Pages) Render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	p.write(w, page, p.Data(r, title, data), status)
}

func (p Pages) write(w http.ResponseWriter, page string, data TemplateData, status int) {
	if err := p.Engine.RenderStatus(w, page, data, status); err != nil {
		p.logger().Error("render template", "error", err, "template", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Loading renders the self-refreshing placeholder shown while the session is
// being restored.
func (p Pages) Loading(w http.ResponseWriter, r *http.Request) {
	data := p.Data(r, "Loading", nil)
	data.Refresh = 1
	w.Header().Set("Cache-Control", "no-store")
	p.write(w, "loading.html", data, http.StatusOK)
}

// NotFound renders the catch-all page.
func (p Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, "notfound.html", "Not Found", nil, http.StatusNotFound)
}

// RedirectWithFlash queues a flash for the next page and redirects.
func (p Pages) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (p Pages) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
