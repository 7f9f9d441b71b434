// Package handlers contains the HTTP handlers for the reading list.
// Handlers are grouped by concern (site, books, categories) and receive
// their dependencies through the handler struct. Mutating handlers all
// follow the same protocol: parse the form, run it through the library
// service, then either redirect with 303 See Other or re-render the form
// with the submitted values and error messages intact.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"readinglist/internal/library"
	"readinglist/internal/render"
)

// parseID extracts the integer {id} route parameter. Returns false for
// anything that is not a positive integer.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// returnTo resolves the navigation destination from the return_to
// field, which arrives as a query parameter on form pages and a hidden
// input on submissions. Only site-local paths are honored; anything else
// falls back to the given default so the redirect cannot leave the site.
func returnTo(r *http.Request, fallback string) string {
	dest := r.FormValue("return_to")
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return fallback
	}
	return dest
}

// adminPassword reads the submitted admin password field.
func adminPassword(r *http.Request) string {
	return r.PostFormValue("admin_password")
}

// bookFormFromRequest collects the raw book form values. Values are not
// trimmed here; the service normalizes and the template echoes as
// submitted.
func bookFormFromRequest(r *http.Request) library.BookForm {
	return library.BookForm{
		Title:         r.PostFormValue("title"),
		Author:        r.PostFormValue("author"),
		CategoryID:    r.PostFormValue("category_id"),
		CoverImageURL: r.PostFormValue("cover_image_url"),
		Genre:         r.PostFormValue("genre"),
		Rating:        r.PostFormValue("rating"),
		Summary:       r.PostFormValue("summary"),
		Review:        r.PostFormValue("review"),
	}
}

// categoryFormFromRequest collects the raw category form values.
func categoryFormFromRequest(r *http.Request) library.CategoryForm {
	return library.CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}

// errorPage renders the shared error template with the given status.
func errorPage(rn *render.Renderer, w http.ResponseWriter, status int, message string) {
	rn.Page(w, status, "error", &render.PageData{
		Title: http.StatusText(status),
		Data: map[string]any{
			"Code":    status,
			"Message": message,
		},
	})
}
