// Package render provides HTML template rendering for the reading list
// pages. Every page template is paired with the base layout at startup,
// and pages render to bytes first so the handlers can hand the result to
// the page cache before writing it out.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"readinglist/internal/library"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title   string         // Page title for the <title> tag
	Section string         // Active nav section ("home", "dashboard", "books", "categories")
	Errors  []string       // Display messages shown above a re-rendered form
	Data    map[string]any // Page-specific data
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	rn := &Renderer{templates: make(map[string]*template.Template)}

	funcMap := template.FuncMap{
		// deref safely dereferences a string pointer for templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// derefInt renders a nullable integer, empty when unset.
		"derefInt": func(n *int) string {
			if n == nil {
				return ""
			}
			return fmt.Sprintf("%d", *n)
		},
		// archiveName lets templates label the reserved category.
		"archiveName": func() string {
			return library.ArchiveName
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		tmplName := name[:len(name)-len(filepath.Ext(name))]
		rn.templates[tmplName] = tmpl
	}

	return rn, nil
}

// HTML renders a page to bytes. Handlers use this for pages that go
// through the page cache.
func (rn *Renderer) HTML(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Page renders a page straight to the response with the given status.
func (rn *Renderer) Page(w http.ResponseWriter, status int, name string, data *PageData) {
	html, err := rn.HTML(name, data)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	WriteHTML(w, status, html)
}

// WriteHTML writes already-rendered HTML with the given status.
func WriteHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(html)
}
