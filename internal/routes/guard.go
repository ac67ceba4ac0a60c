package routes

import (
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/admin-console/internal/authz"
	"github.com/odyssey-erp/admin-console/internal/session"
)

// Outcome is the decision for one navigation.
type Outcome int

const (
	Pending Outcome = iota
	RedirectLogin
	RedirectUnauthorized
	Render
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decide gates a navigation on the session snapshot and the route rule.
func Decide(snap session.Snapshot, rule Rule) Outcome {
	switch {
	case snap.IsLoading():
		return Pending
	case !snap.IsAuthenticated():
		return RedirectLogin
	case rule.Roles != nil && !authz.Evaluate(snap.User, *rule.Roles):
		return RedirectUnauthorized
	default:
		return Render
	}
}

// Allowed reports whether the snapshot may render path.
func (t Table) Allowed(snap session.Snapshot, path string) bool {
	rule, ok := t.Lookup(path)
	if !ok {
		return false
	}
	return Decide(snap, rule) == Render
}

// Guard enforces the table on every request. It never caches a decision, so a
// re-login as another user is re-gated immediately.
type Guard struct {
	Table   Table
	Pending http.Handler
	Logger  *slog.Logger
	Observe func(Outcome)
}

// Middleware gates the wrapped handler with the rule matching the request path.
func (g Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rule, ok := g.Table.Lookup(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		snap := session.SnapshotFromContext(r.Context())
		outcome := Decide(snap, rule)
		if g.Observe != nil {
			g.Observe(outcome)
		}
		switch outcome {
		case Pending:
			w.Header().Set("Cache-Control", "no-store")
			if g.Pending != nil {
				g.Pending.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusAccepted)
		case RedirectLogin:
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		case RedirectUnauthorized:
			if g.Logger != nil {
				g.Logger.Info("route denied",
					slog.String("path", r.URL.Path),
					slog.String("role", string(snap.User.Role)))
			}
			http.Redirect(w, r, UnauthorizedPath, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
