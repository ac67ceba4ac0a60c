package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/web"
)

// Engine renders HTML templates. Each page is parsed into its own set
// together with the layouts and partials, so pages can all define the
// same "content" block.
type Engine struct {
	pages map[string]*template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        *session.User
	Nav         []routes.NavEntry
	Refresh     int
	Data        any
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"roleLabel": func(r roles.Role) string {
			return r.Label()
		},
		"roles": roles.All,
	}
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	base, err := template.New("root").Funcs(funcMap()).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(web.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	engine := &Engine{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tpl, err := clone.ParseFS(web.Templates, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		engine.pages[path.Base(file)] = tpl
	}
	return engine, nil
}

// Render executes page inside the shell layout.
func (e *Engine) Render(w http.ResponseWriter, page string, data TemplateData) error {
	return e.RenderStatus(w, page, data, http.StatusOK)
}

// RenderStatus renders into a buffer first so a template failure never
// produces a half-written page.
func (e *Engine) RenderStatus(w http.ResponseWriter, page string, data TemplateData, status int) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "shell", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
