// Package dashboard renders the landing screen: a greeting and a count per
// collection the user may open.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/masterdata/shared"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/view"
)

// Tile is one count on the dashboard.
type Tile struct {
	Path   string
	Label  string
	Count  int
	Failed bool
}

// Source maps a screen path to the backend collection counted for it.
type Source struct {
	Path       string
	Collection string
}

// DefaultSources are the counted collections, in display order.
var DefaultSources = []Source{
	{Path: "/users", Collection: "users"},
	{Path: "/warehouses", Collection: "warehouses"},
	{Path: "/announcements", Collection: "announcements"},
	{Path: "/categories", Collection: "categories"},
}

type Handler struct {
	logger  *slog.Logger
	pages   view.Pages
	sources []Source
}

func NewHandler(logger *slog.Logger, pages view.Pages, sources []Source) *Handler {
	return &Handler{logger: logger, pages: pages, sources: sources}
}

// Show renders the dashboard.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	snap := session.SnapshotFromContext(r.Context())
	tiles, err := h.tiles(r.Context(), snap)
	if err != nil {
		shared.LoadFailed(w, r, h.logger, "dashboard", err)
		return
	}
	h.pages.Render(w, r, "dashboard.html", "Dashboard", map[string]any{
		"Tiles": tiles,
	}, http.StatusOK)
}

// tiles counts every source the snapshot may open, concurrently. A failing
// count marks its tile; only an authentication rejection aborts the page.
func (h *Handler) tiles(ctx context.Context, snap session.Snapshot) ([]Tile, error) {
	client := backend.FromContext(ctx)
	if client == nil {
		return nil, shared.ErrNoBackend
	}
	var tiles []Tile
	var sources []Source
	for _, src := range h.sources {
		rule, ok := h.pages.Table.Lookup(src.Path)
		if !ok || routes.Decide(snap, rule) != routes.Render {
			continue
		}
		tiles = append(tiles, Tile{Path: src.Path, Label: rule.Label})
		sources = append(sources, src)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			var items []json.RawMessage
			if err := client.Collection(src.Collection).List(gctx, &items); err != nil {
				if errors.Is(err, backend.ErrUnauthorized) {
					return err
				}
				h.logger.Warn("dashboard count failed", slog.String("collection", src.Collection), slog.Any("error", err))
				tiles[i].Failed = true
				return nil
			}
			tiles[i].Count = len(items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tiles, nil
}
