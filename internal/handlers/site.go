package handlers

import (
	"log/slog"
	"net/http"

	"readinglist/internal/cache"
	"readinglist/internal/render"
	"readinglist/internal/store"
)

// Site groups the read-only pages: home, dashboard, health, and the
// not-found fallback.
type Site struct {
	renderer   *render.Renderer
	books      *store.BookStore
	categories *store.CategoryStore
	pages      *cache.PageCache
}

// NewSite creates the site handler group. pages may be nil when Valkey
// is not configured.
func NewSite(renderer *render.Renderer, books *store.BookStore, categories *store.CategoryStore, pages *cache.PageCache) *Site {
	return &Site{renderer: renderer, books: books, categories: categories, pages: pages}
}

// Home renders the landing page with the most recently added books.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	books, err := s.books.List()
	if err != nil {
		slog.Error("list books failed", "error", err)
		errorPage(s.renderer, w, http.StatusInternalServerError, "Could not load the home page.")
		return
	}
	if len(books) > 8 {
		books = books[:8]
	}

	s.renderer.Page(w, http.StatusOK, "home", &render.PageData{
		Title:   "Home",
		Section: "home",
		Data:    map[string]any{"Books": books},
	})
}

// Dashboard renders the management overview of every category and book.
// The rendered page is served from the Valkey cache when available.
func (s *Site) Dashboard(w http.ResponseWriter, r *http.Request) {
	key := cache.DashboardKey()
	if html, ok := s.pages.Get(r.Context(), key); ok {
		render.WriteHTML(w, http.StatusOK, html)
		return
	}

	categories, err := s.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		errorPage(s.renderer, w, http.StatusInternalServerError, "Could not load the dashboard.")
		return
	}
	books, err := s.books.List()
	if err != nil {
		slog.Error("list books failed", "error", err)
		errorPage(s.renderer, w, http.StatusInternalServerError, "Could not load the dashboard.")
		return
	}

	html, err := s.renderer.HTML("dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"Categories": categories,
			"Books":      books,
		},
	})
	if err != nil {
		slog.Error("render dashboard failed", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	s.pages.Set(r.Context(), key, html)
	render.WriteHTML(w, http.StatusOK, html)
}

// Health reports liveness for container orchestration.
func (s *Site) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// NotFound renders the shared 404 page.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	errorPage(s.renderer, w, http.StatusNotFound, "The page you are looking for does not exist.")
}
