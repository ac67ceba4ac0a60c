package app

import (
	"context"
	"net/http"
	"time"

	"github.com/odyssey-erp/admin-console/internal/platform/httpx"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
)

const (
	// DefaultHydrateWait applies when no Config is supplied.
	DefaultHydrateWait = 250 * time.Millisecond
	defaultHydrateTimeout = 5 * time.Second
)

type sessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	RoleLabel string `json:"roleLabel"`
}

type sessionNavEntry struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type sessionResponse struct {
	State         string            `json:"state"`
	Authenticated bool              `json:"authenticated"`
	User          *sessionUser      `json:"user,omitempty"`
	Navigation    []sessionNavEntry `json:"navigation"`
}

func hydrateTimeout(cfg *Config) time.Duration {
	if cfg == nil || cfg.HydrateTimeout <= 0 {
		return defaultHydrateTimeout
	}
	return cfg.HydrateTimeout
}

// sessionAPI reports the browser's snapshot and visible navigation. With
// ?wait=1 it blocks until a restore in flight has settled; ?path= marks the
// active navigation entry.
func sessionAPI(table routes.Table, wait time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := session.FromContext(r.Context())
		if store == nil {
			httpx.RespondError(w, httpx.ErrNoSession)
			return
		}
		if r.URL.Query().Get("wait") == "1" {
			ctx, cancel := context.WithTimeout(r.Context(), wait)
			err := store.WaitHydrated(ctx)
			cancel()
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
		}
		snap := store.Snapshot()
		resp := sessionResponse{
			State:         snap.State.String(),
			Authenticated: snap.IsAuthenticated(),
			Navigation:    []sessionNavEntry{},
		}
		if resp.Authenticated {
			resp.User = &sessionUser{
				ID:        snap.User.ID,
				Email:     snap.User.Email,
				Name:      snap.User.Name,
				Role:      string(snap.User.Role),
				RoleLabel: snap.User.RoleLabel(),
			}
		}
		for _, entry := range table.Navigation(snap, r.URL.Query().Get("path")) {
			resp.Navigation = append(resp.Navigation, sessionNavEntry{Path: entry.Path, Label: entry.Label, Active: entry.Active})
		}
		httpx.JSON(w, http.StatusOK, resp)
	}
}
