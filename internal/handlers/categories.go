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

// Categories groups the category pages and mutations.
type Categories struct {
	renderer   *render.Renderer
	service    *library.Service
	categories *store.CategoryStore
	books      *store.BookStore
	pages      *cache.PageCache
}

// NewCategories creates the categories handler group.
func NewCategories(renderer *render.Renderer, service *library.Service, categories *store.CategoryStore, books *store.BookStore, pages *cache.PageCache) *Categories {
	return &Categories{renderer: renderer, service: service, categories: categories, books: books, pages: pages}
}

// New renders the empty add-a-category form.
func (h *Categories) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, library.CategoryForm{}, formContext{
		heading:  "Add a category",
		action:   "/categories/new",
		submit:   "Add category",
		returnTo: returnTo(r, ""),
	}, nil)
}

// Create handles the add-a-category submission.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	form := categoryFormFromRequest(r)

	id, err := h.service.CreateCategory(form, adminPassword(r))
	res := library.Outcome(id, err)
	if res.Status != library.StatusSuccess {
		h.renderForm(w, res.Status.HTTPStatus(), form, formContext{
			heading:  "Add a category",
			action:   "/categories/new",
			submit:   "Add category",
			returnTo: r.PostFormValue("return_to"),
		}, res.Errors)
		return
	}

	h.pages.InvalidatePage(r.Context(), cache.DashboardKey())

	http.Redirect(w, r, returnTo(r, fmt.Sprintf("/categories/%d", res.ID)), http.StatusSeeOther)
}

// Details renders a category page with its books, served from the page
// cache when available.
func (h *Categories) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}

	key := cache.CategoryKey(id)
	if html, ok := h.pages.Get(r.Context(), key); ok {
		render.WriteHTML(w, http.StatusOK, html)
		return
	}

	category, err := h.categories.FindByID(id)
	if errors.Is(err, store.ErrNotFound) {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}
	if err != nil {
		slog.Error("find category failed", "id", id, "error", err)
		errorPage(h.renderer, w, http.StatusInternalServerError, "Could not load this category.")
		return
	}

	books, err := h.books.ListByCategory(id)
	if err != nil {
		slog.Error("list category books failed", "id", id, "error", err)
		errorPage(h.renderer, w, http.StatusInternalServerError, "Could not load this category.")
		return
	}

	html, err := h.renderer.HTML("category_details", &render.PageData{
		Title:   category.Name,
		Section: "categories",
		Data: map[string]any{
			"Category": category,
			"Books":    books,
		},
	})
	if err != nil {
		slog.Error("render category failed", "id", id, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	h.pages.Set(r.Context(), key, html)
	render.WriteHTML(w, http.StatusOK, html)
}

// Edit renders the edit form pre-filled with the category's current
// values.
func (h *Categories) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}

	category, err := h.categories.FindByID(id)
	if errors.Is(err, store.ErrNotFound) {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}
	if err != nil {
		slog.Error("find category failed", "id", id, "error", err)
		errorPage(h.renderer, w, http.StatusInternalServerError, "Could not load this category.")
		return
	}

	form := library.CategoryForm{
		Name:        category.Name,
		Description: deref(category.Description),
	}

	h.renderForm(w, http.StatusOK, form, formContext{
		heading:  "Edit " + category.Name,
		action:   fmt.Sprintf("/categories/%d/edit", id),
		submit:   "Save changes",
		returnTo: returnTo(r, ""),
	}, nil)
}

// Update handles the edit form submission.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}

	form := categoryFormFromRequest(r)
	err := h.service.UpdateCategory(id, form, adminPassword(r))
	res := library.Outcome(id, err)
	if res.Status == library.StatusNotFound {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}
	if res.Status != library.StatusSuccess {
		h.renderForm(w, res.Status.HTTPStatus(), form, formContext{
			heading:  "Edit category",
			action:   fmt.Sprintf("/categories/%d/edit", id),
			submit:   "Save changes",
			returnTo: r.PostFormValue("return_to"),
		}, res.Errors)
		return
	}

	// A rename changes the category label shown on every book page.
	h.pages.InvalidateAll(r.Context())

	http.Redirect(w, r, returnTo(r, fmt.Sprintf("/categories/%d", id)), http.StatusSeeOther)
}

// Delete handles the delete-category submission. Books in the category
// move to the Archive category before the row is removed.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
		return
	}

	err := h.service.DeleteCategory(id, adminPassword(r))
	res := library.Outcome(id, err)
	switch res.Status {
	case library.StatusSuccess:
		h.pages.InvalidateAll(r.Context())
		http.Redirect(w, r, returnTo(r, "/dashboard"), http.StatusSeeOther)
	case library.StatusNotFound:
		errorPage(h.renderer, w, http.StatusNotFound, "This category does not exist.")
	default:
		errorPage(h.renderer, w, res.Status.HTTPStatus(), res.Errors[0])
	}
}

// renderForm renders the category form with the submitted values echoed
// back.
func (h *Categories) renderForm(w http.ResponseWriter, status int, form library.CategoryForm, fc formContext, errs []string) {
	h.renderer.Page(w, status, "category_form", &render.PageData{
		Title:   fc.heading,
		Section: "categories",
		Errors:  errs,
		Data: map[string]any{
			"Heading":  fc.heading,
			"Action":   fc.action,
			"Submit":   fc.submit,
			"ReturnTo": fc.returnTo,
			"Form":     form,
		},
	})
}
