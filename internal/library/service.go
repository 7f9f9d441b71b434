// Package library is the mutation core of the reading list: it sequences
// the admin gate, field validation, and store writes for every book and
// category change, and owns the category deletion protocol around the
// reserved Archive category. The HTTP layer above it is thin plumbing;
// all invariants live here and in the store constraints.
package library

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"readinglist/internal/models"
	"readinglist/internal/store"
	"readinglist/internal/validate"
)

const (
	// ArchiveName is the reserved category that absorbs books whose
	// category is deleted. It can never itself be deleted.
	ArchiveName = "Archive"

	archiveDescription = "Books from categories that have been deleted."
)

var (
	// ErrDenied is returned when the supplied admin password is wrong.
	ErrDenied = errors.New("incorrect admin password")

	// ErrArchiveUndeletable is returned for any attempt to delete the
	// Archive category. Retrying cannot succeed; the caller must pick a
	// different category.
	ErrArchiveUndeletable = errors.New("the Archive category cannot be deleted")
)

// BookForm carries the raw submitted values of a book form. Values stay
// strings so a failed submission can be echoed back to the user unchanged.
type BookForm struct {
	Title         string
	Author        string
	CategoryID    string
	CoverImageURL string
	Genre         string
	Rating        string
	Summary       string
	Review        string
}

func (f BookForm) fields() map[string]string {
	return map[string]string{
		"title":           f.Title,
		"author":          f.Author,
		"category_id":     f.CategoryID,
		"cover_image_url": f.CoverImageURL,
		"genre":           f.Genre,
		"rating":          f.Rating,
		"summary":         f.Summary,
		"review":          f.Review,
	}
}

// CategoryForm carries the raw submitted values of a category form.
type CategoryForm struct {
	Name        string
	Description string
}

func (f CategoryForm) fields() map[string]string {
	return map[string]string{
		"name":        f.Name,
		"description": f.Description,
	}
}

// Service sequences every mutation: admin gate first, then field
// validation, and only then the store write. Each method returns typed
// errors (ErrDenied, validate.Errors, store.ErrDuplicateName,
// store.ErrNotFound, ErrArchiveUndeletable) that Outcome translates for
// the form layer.
type Service struct {
	gate       Gate
	books      *store.BookStore
	categories *store.CategoryStore
}

// NewService creates the mutation service.
func NewService(gate Gate, books *store.BookStore, categories *store.CategoryStore) *Service {
	return &Service{gate: gate, books: books, categories: categories}
}

// --- Categories ---

// CreateCategory inserts a new category and returns its id.
func (s *Service) CreateCategory(f CategoryForm, secret string) (int, error) {
	if !s.gate.Check(secret) {
		return 0, ErrDenied
	}
	if errs := validate.Fields(validate.KindCategory, f.fields()); len(errs) > 0 {
		return 0, errs
	}

	created, err := s.categories.Create(strings.TrimSpace(f.Name), optional(f.Description))
	if err != nil {
		return 0, err
	}
	slog.Info("category created", "id", created.ID, "name", created.Name)
	return created.ID, nil
}

// UpdateCategory renames or re-describes an existing category.
func (s *Service) UpdateCategory(id int, f CategoryForm, secret string) error {
	if !s.gate.Check(secret) {
		return ErrDenied
	}
	if errs := validate.Fields(validate.KindCategory, f.fields()); len(errs) > 0 {
		return errs
	}

	return s.categories.Update(id, strings.TrimSpace(f.Name), optional(f.Description))
}

// DeleteCategory removes a category after reassigning its books to the
// Archive category. Deleting Archive itself fails with
// ErrArchiveUndeletable. The reassign-and-delete runs in one transaction,
// so every book keeps a valid category_id throughout.
func (s *Service) DeleteCategory(id int, secret string) error {
	if !s.gate.Check(secret) {
		return ErrDenied
	}

	archive, err := s.ResolveArchive()
	if err != nil {
		return err
	}
	if id == archive.ID {
		return ErrArchiveUndeletable
	}

	moved, err := s.categories.DeleteReassigning(id, archive.ID)
	if err != nil {
		return err
	}
	slog.Info("category deleted", "id", id, "books_archived", moved)
	return nil
}

// ResolveArchive returns the Archive category, creating it on first use.
// Safe to call concurrently: the store's find-or-create keys on the
// unique name constraint.
func (s *Service) ResolveArchive() (*models.Category, error) {
	desc := archiveDescription
	return s.categories.FindOrCreateByName(ArchiveName, &desc)
}

// --- Books ---

// CreateBook inserts a new book and returns its id.
func (s *Service) CreateBook(f BookForm, secret string) (int, error) {
	if !s.gate.Check(secret) {
		return 0, ErrDenied
	}
	if errs := validate.Fields(validate.KindBook, f.fields()); len(errs) > 0 {
		return 0, errs
	}

	created, err := s.books.Create(bookFromForm(f))
	if err != nil {
		return 0, err
	}
	slog.Info("book created", "id", created.ID, "title", created.Title)
	return created.ID, nil
}

// UpdateBook rewrites an existing book from the submitted form.
func (s *Service) UpdateBook(id int, f BookForm, secret string) error {
	if !s.gate.Check(secret) {
		return ErrDenied
	}
	if errs := validate.Fields(validate.KindBook, f.fields()); len(errs) > 0 {
		return errs
	}

	b := bookFromForm(f)
	b.ID = id
	return s.books.Update(b)
}

// DeleteBook removes a book.
func (s *Service) DeleteBook(id int, secret string) error {
	if !s.gate.Check(secret) {
		return ErrDenied
	}
	return s.books.Delete(id)
}

// bookFromForm normalizes already-validated form values into a Book
// record: strings trimmed, empty optionals as NULL, numbers parsed.
func bookFromForm(f BookForm) *models.Book {
	b := &models.Book{
		Title:         strings.TrimSpace(f.Title),
		Author:        strings.TrimSpace(f.Author),
		CoverImageURL: optional(f.CoverImageURL),
		Genre:         optional(f.Genre),
		Summary:       optional(f.Summary),
		Review:        optional(f.Review),
	}
	b.CategoryID, _ = strconv.Atoi(strings.TrimSpace(f.CategoryID))
	if v := strings.TrimSpace(f.Rating); v != "" {
		n, _ := strconv.Atoi(v)
		b.Rating = &n
	}
	return b
}

// optional turns a trimmed form value into a nullable column value.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
