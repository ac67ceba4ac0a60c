package routes

import (
	"strings"

	"github.com/odyssey-erp/admin-console/internal/session"
)

// NavEntry is one visible menu item.
type NavEntry struct {
	Path   string
	Label  string
	Active bool
}

// Navigation filters the menu entries of the table down to what snap may
// open. It uses the same decision as the guard, so an entry is visible iff
// its path renders.
func (t Table) Navigation(snap session.Snapshot, current string) []NavEntry {
	if !snap.IsAuthenticated() {
		return nil
	}
	entries := make([]NavEntry, 0, len(t))
	for _, rule := range t {
		if !rule.Nav || Decide(snap, rule) != Render {
			continue
		}
		entries = append(entries, NavEntry{
			Path:   rule.Path,
			Label:  rule.Label,
			Active: isActive(rule.Path, current),
		})
	}
	return entries
}

func isActive(path, current string) bool {
	if path == DashboardPath && current == "/" {
		return true
	}
	return current == path || strings.HasPrefix(current, path+"/")
}
