// Package web renders the portal's HTML pages from templates embedded in the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutTemplate = "layout"
	pagesDir       = "templates/pages"
)

// TemplateManager holds one parsed template set per page, each sharing the layout
// and partials. It implements gin's render.HTMLRender.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	if err := tm.LoadTemplates(templateFS); err != nil {
		return nil, err
	}
	return tm, nil
}

// LoadTemplates parses the layout and partials once, then clones them for every page.
func (tm *TemplateManager) LoadTemplates(fsys fs.FS) error {
	base, err := template.New(layoutTemplate).Funcs(Funcs()).ParseFS(fsys, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := fs.Glob(fsys, pagesDir+"/*.html")
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tpl, err := base.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone layout for %s: %w", page, err)
		}
		if _, err := tpl.ParseFS(fsys, page); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		parsed[path.Base(page)] = tpl
	}

	tm.mutex.Lock()
	tm.templates = parsed
	tm.mutex.Unlock()
	return nil
}

func (tm *TemplateManager) lookup(name string) (*template.Template, bool) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	tpl, ok := tm.templates[pageName(name)]
	return tpl, ok
}

// Names lists the loaded pages.
func (tm *TemplateManager) Names() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()
	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}
	return names
}

// Instance satisfies render.HTMLRender.
func (tm *TemplateManager) Instance(name string, data any) render.Render {
	tpl, ok := tm.lookup(name)
	if !ok {
		return missingTemplate{name: name}
	}
	return render.HTML{Template: tpl, Name: layoutTemplate, Data: data}
}

// Render writes page name to w.
func (tm *TemplateManager) Render(w io.Writer, name string, data any) error {
	tpl, ok := tm.lookup(name)
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	if err := tpl.ExecuteTemplate(w, layoutTemplate, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

type missingTemplate struct {
	name string
}

func (m missingTemplate) Render(w http.ResponseWriter) error {
	m.WriteContentType(w)
	_, _ = io.WriteString(w, "page unavailable")
	return fmt.Errorf("template not found: %s", m.name)
}

func (missingTemplate) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "text/plain; charset=utf-8")
	}
}

// pageName maps "dashboard" and "dashboard.html" to the same key.
func pageName(name string) string {
	if strings.HasSuffix(name, ".html") {
		return name
	}
	return name + ".html"
}
