// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
// The page cache stays nil here: caching is optional in production and
// the handlers must behave identically without it.
package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"readinglist/internal/database"
	"readinglist/internal/library"
	"readinglist/internal/middleware"
	"readinglist/internal/render"
	"readinglist/internal/store"
)

const testSecret = "handler-secret"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "readinglist")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "readinglist")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv bundles the wired router and its stores for handler tests.
type testEnv struct {
	db         *sql.DB
	router     chi.Router
	books      *store.BookStore
	categories *store.CategoryStore
	service    *library.Service
}

// newTestEnv wires the full handler stack against the test database.
// The router mirrors production wiring minus the static file mount,
// which needs no database coverage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	books := store.NewBookStore(db)
	categories := store.NewCategoryStore(db)
	service := library.NewService(library.NewGate(testSecret), books, categories)

	site := NewSite(renderer, books, categories, nil)
	bookHandlers := NewBooks(renderer, service, books, categories, nil)
	categoryHandlers := NewCategories(renderer, service, categories, books, nil)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", site.Home)
	r.Get("/dashboard", site.Dashboard)
	r.Get("/health", site.Health)
	r.Route("/books", func(r chi.Router) {
		r.Get("/new", bookHandlers.New)
		r.Post("/new", bookHandlers.Create)
		r.Get("/{id}", bookHandlers.Details)
		r.Get("/{id}/edit", bookHandlers.Edit)
		r.Post("/{id}/edit", bookHandlers.Update)
		r.Post("/{id}/delete", bookHandlers.Delete)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/new", categoryHandlers.New)
		r.Post("/new", categoryHandlers.Create)
		r.Get("/{id}", categoryHandlers.Details)
		r.Get("/{id}/edit", categoryHandlers.Edit)
		r.Post("/{id}/edit", categoryHandlers.Update)
		r.Post("/{id}/delete", categoryHandlers.Delete)
	})
	r.NotFound(site.NotFound)

	return &testEnv{db: db, router: r, books: books, categories: categories, service: service}
}

// get performs a GET request against the test router.
func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST against the test router.
func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// uniqueName generates names that cannot collide across test runs.
func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// mustCategory creates a category directly through the store and
// registers cleanup for it and any books it accumulates.
func (e *testEnv) mustCategory(t *testing.T, name string) int {
	t.Helper()
	c, err := e.categories.Create(name, nil)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	t.Cleanup(func() {
		e.db.Exec(`DELETE FROM books WHERE category_id = $1`, c.ID)
		e.db.Exec(`DELETE FROM categories WHERE id = $1`, c.ID)
	})
	return c.ID
}

// formToBookForm converts posted form values into the service's form
// type, for tests that seed data through the service directly.
func formToBookForm(form url.Values) library.BookForm {
	return library.BookForm{
		Title:         form.Get("title"),
		Author:        form.Get("author"),
		CategoryID:    form.Get("category_id"),
		CoverImageURL: form.Get("cover_image_url"),
		Genre:         form.Get("genre"),
		Rating:        form.Get("rating"),
		Summary:       form.Get("summary"),
		Review:        form.Get("review"),
	}
}

// cleanBook registers cleanup for a book by title.
func (e *testEnv) cleanBook(t *testing.T, title string) {
	t.Helper()
	t.Cleanup(func() { e.db.Exec(`DELETE FROM books WHERE title = $1`, title) })
}
