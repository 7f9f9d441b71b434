// Package router sets up all HTTP routes and middleware for the reading
// list server.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"readinglist/internal/handlers"
	"readinglist/internal/middleware"
	"readinglist/web"
)

// New creates the configured Chi router with all middleware and routes
// wired up.
func New(site *handlers.Site, books *handlers.Books, categories *handlers.Categories) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check for container orchestration.
	r.Get("/health", site.Health)

	// Static assets embedded in the binary.
	staticRoot, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))

	// Public pages.
	r.Get("/", site.Home)
	r.Get("/dashboard", site.Dashboard)

	// Books.
	r.Route("/books", func(r chi.Router) {
		r.Get("/new", books.New)
		r.Post("/new", books.Create)
		r.Get("/{id}", books.Details)
		r.Get("/{id}/edit", books.Edit)
		r.Post("/{id}/edit", books.Update)
		r.Post("/{id}/delete", books.Delete)
	})

	// Categories.
	r.Route("/categories", func(r chi.Router) {
		r.Get("/new", categories.New)
		r.Post("/new", categories.Create)
		r.Get("/{id}", categories.Details)
		r.Get("/{id}/edit", categories.Edit)
		r.Post("/{id}/edit", categories.Update)
		r.Post("/{id}/delete", categories.Delete)
	})

	r.NotFound(site.NotFound)

	return r
}
