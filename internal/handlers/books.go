package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"readinglist/internal/cache"
	"readinglist/internal/library"
	"readinglist/internal/render"
	"readinglist/internal/store"
)

// Books groups the book pages and mutations.
type Books struct {
	renderer   *render.Renderer
	service    *library.Service
	books      *store.BookStore
	categories *store.CategoryStore
	pages      *cache.PageCache
}

// NewBooks creates the books handler group.
func NewBooks(renderer *render.Renderer, service *library.Service, books *store.BookStore, categories *store.CategoryStore, pages *cache.PageCache) *Books {
	return &Books{renderer: renderer, service: service, books: books, categories: categories, pages: pages}
}

// New renders the empty add-a-book form.
func (h *Books) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, library.BookForm{}, formContext{
		heading:  "Add a book",
		action:   "/books/new",
		submit:   "Add book",
		returnTo: returnTo(r, ""),
	}, nil)
}

// Create handles the add-a-book submission.
func (h *Books) Create(w http.ResponseWriter, r *http.Request) {
	form := bookFormFromRequest(r)

	id, err := h.service.CreateBook(form, adminPassword(r))
	res := library.Outcome(id, err)
	if res.Status != library.StatusSuccess {
		h.renderForm(w, res.Status.HTTPStatus(), form, formContext{
			heading:  "Add a book",
			action:   "/books/new",
			submit:   "Add book",
			returnTo: r.PostFormValue("return_to"),
		}, res.Errors)
		return
	}

	h.pages.InvalidatePage(r.Context(), cache.DashboardKey())
	if b, err := h.books.FindByID(res.ID); err == nil {
		h.pages.InvalidatePage(r.Context(), cache.CategoryKey(b.CategoryID))
	}

	http.Redirect(w, r, returnTo(r, fmt.Sprintf("/books/%d", res.ID)), http.StatusSeeOther)
}

// Details renders a single book page, served from the page cache when
// available.
func (h *Books) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}

	key := cache.BookKey(id)
	if html, ok := h.pages.Get(r.Context(), key); ok {
		render.WriteHTML(w, http.StatusOK, html)
		return
	}

	book, err := h.books.FindByID(id)
	if errors.Is(err, store.ErrNotFound) {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}
	if err != nil {
		slog.Error("find book failed", "id", id, "error", err)
		errorPage(h.renderer, w, http.StatusInternalServerError, "Could not load this book.")
		return
	}

	html, err := h.renderer.HTML("book_details", &render.PageData{
		Title:   book.Title,
		Section: "books",
		Data:    map[string]any{"Book": book},
	})
	if err != nil {
		slog.Error("render book failed", "id", id, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	h.pages.Set(r.Context(), key, html)
	render.WriteHTML(w, http.StatusOK, html)
}

// Edit renders the edit form pre-filled with the book's current values.
func (h *Books) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}

	book, err := h.books.FindByID(id)
	if errors.Is(err, store.ErrNotFound) {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}
	if err != nil {
		slog.Error("find book failed", "id", id, "error", err)
		errorPage(h.renderer, w, http.StatusInternalServerError, "Could not load this book.")
		return
	}

	form := library.BookForm{
		Title:         book.Title,
		Author:        book.Author,
		CategoryID:    fmt.Sprintf("%d", book.CategoryID),
		CoverImageURL: deref(book.CoverImageURL),
		Genre:         deref(book.Genre),
		Summary:       deref(book.Summary),
		Review:        deref(book.Review),
	}
	if book.Rating != nil {
		form.Rating = fmt.Sprintf("%d", *book.Rating)
	}

	h.renderForm(w, http.StatusOK, form, formContext{
		heading:  "Edit " + book.Title,
		action:   fmt.Sprintf("/books/%d/edit", id),
		submit:   "Save changes",
		returnTo: returnTo(r, ""),
	}, nil)
}

// Update handles the edit form submission.
func (h *Books) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}

	form := bookFormFromRequest(r)
	err := h.service.UpdateBook(id, form, adminPassword(r))
	res := library.Outcome(id, err)
	if res.Status == library.StatusNotFound {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}
	if res.Status != library.StatusSuccess {
		h.renderForm(w, res.Status.HTTPStatus(), form, formContext{
			heading:  "Edit book",
			action:   fmt.Sprintf("/books/%d/edit", id),
			submit:   "Save changes",
			returnTo: r.PostFormValue("return_to"),
		}, res.Errors)
		return
	}

	// A category change makes both the old and new category pages stale,
	// and the old id is gone by now. Clear everything.
	h.pages.InvalidateAll(r.Context())

	http.Redirect(w, r, returnTo(r, fmt.Sprintf("/books/%d", id)), http.StatusSeeOther)
}

// Delete handles the delete-book submission.
func (h *Books) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
		return
	}

	err := h.service.DeleteBook(id, adminPassword(r))
	res := library.Outcome(id, err)
	switch res.Status {
	case library.StatusSuccess:
		h.pages.InvalidateAll(r.Context())
		http.Redirect(w, r, returnTo(r, "/dashboard"), http.StatusSeeOther)
	case library.StatusNotFound:
		errorPage(h.renderer, w, http.StatusNotFound, "This book does not exist.")
	default:
		errorPage(h.renderer, w, res.Status.HTTPStatus(), res.Errors[0])
	}
}

// formContext carries the per-page chrome of the shared book form.
type formContext struct {
	heading  string
	action   string
	submit   string
	returnTo string
}

// renderForm renders the book form with the category dropdown populated
// and the submitted values echoed back.
func (h *Books) renderForm(w http.ResponseWriter, status int, form library.BookForm, fc formContext, errs []string) {
	categories, err := h.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		errorPage(h.renderer, w, http.StatusInternalServerError, "Could not load the form.")
		return
	}

	h.renderer.Page(w, status, "book_form", &render.PageData{
		Title:   fc.heading,
		Section: "books",
		Errors:  errs,
		Data: map[string]any{
			"Heading":    fc.heading,
			"Action":     fc.action,
			"Submit":     fc.submit,
			"ReturnTo":   fc.returnTo,
			"Form":       form,
			"Categories": categories,
		},
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
