package store

import (
	"database/sql"
	"errors"
	"fmt"

	"readinglist/internal/models"
)

// BookStore manages books in the database.
type BookStore struct {
	db *sql.DB
}

// NewBookStore returns a new BookStore.
func NewBookStore(db *sql.DB) *BookStore {
	return &BookStore{db: db}
}

const bookColumns = `id, title, author, cover_image_url, genre, rating, summary, review, category_id, created_at, updated_at`

// scanBook scans a row into a Book struct.
func scanBook(scanner interface{ Scan(...any) error }) (*models.Book, error) {
	var b models.Book
	err := scanner.Scan(
		&b.ID, &b.Title, &b.Author, &b.CoverImageURL, &b.Genre,
		&b.Rating, &b.Summary, &b.Review, &b.CategoryID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all books with their category names, newest first.
func (s *BookStore) List() ([]models.Book, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.title, b.author, b.cover_image_url, b.genre,
		       b.rating, b.summary, b.review, b.category_id,
		       b.created_at, b.updated_at,
		       c.name AS category_name
		FROM books b
		JOIN categories c ON b.category_id = c.id
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// ListByCategory returns the books in one category, newest first.
func (s *BookStore) ListByCategory(categoryID int) ([]models.Book, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.title, b.author, b.cover_image_url, b.genre,
		       b.rating, b.summary, b.review, b.category_id,
		       b.created_at, b.updated_at,
		       c.name AS category_name
		FROM books b
		JOIN categories c ON b.category_id = c.id
		WHERE b.category_id = $1
		ORDER BY b.created_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list books by category: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// collectBooks drains a joined book query into a slice.
func collectBooks(rows *sql.Rows) ([]models.Book, error) {
	var items []models.Book
	for rows.Next() {
		var b models.Book
		err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.CoverImageURL, &b.Genre,
			&b.Rating, &b.Summary, &b.Review, &b.CategoryID,
			&b.CreatedAt, &b.UpdatedAt, &b.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// FindByID retrieves a book with its category name. Returns ErrNotFound
// if absent.
func (s *BookStore) FindByID(id int) (*models.Book, error) {
	row := s.db.QueryRow(`
		SELECT b.id, b.title, b.author, b.cover_image_url, b.genre,
		       b.rating, b.summary, b.review, b.category_id,
		       b.created_at, b.updated_at,
		       c.name AS category_name
		FROM books b
		JOIN categories c ON b.category_id = c.id
		WHERE b.id = $1
	`, id)

	var b models.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.CoverImageURL, &b.Genre,
		&b.Rating, &b.Summary, &b.Review, &b.CategoryID,
		&b.CreatedAt, &b.UpdatedAt, &b.CategoryName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book by id: %w", err)
	}
	return &b, nil
}

// Create inserts a new book and returns it. A dangling category_id
// surfaces as ErrCategoryMissing.
func (s *BookStore) Create(b *models.Book) (*models.Book, error) {
	row := s.db.QueryRow(`
		INSERT INTO books (title, author, cover_image_url, genre, rating, summary, review, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookColumns,
		b.Title, b.Author, b.CoverImageURL, b.Genre, b.Rating, b.Summary, b.Review, b.CategoryID,
	)
	created, err := scanBook(row)
	if err != nil {
		if err = translateConstraint(err); errors.Is(err, ErrCategoryMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("create book: %w", err)
	}
	return created, nil
}

// Update modifies an existing book. Returns ErrNotFound when the id has no
// row and ErrCategoryMissing when the new category_id does not exist.
func (s *BookStore) Update(b *models.Book) error {
	res, err := s.db.Exec(`
		UPDATE books
		SET title = $1, author = $2, cover_image_url = $3, genre = $4,
		    rating = $5, summary = $6, review = $7, category_id = $8,
		    updated_at = NOW()
		WHERE id = $9
	`, b.Title, b.Author, b.CoverImageURL, b.Genre, b.Rating, b.Summary, b.Review, b.CategoryID, b.ID)
	if err != nil {
		if err = translateConstraint(err); errors.Is(err, ErrCategoryMissing) {
			return err
		}
		return fmt.Errorf("update book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a book by id. Returns ErrNotFound when no row matched.
func (s *BookStore) Delete(id int) error {
	res, err := s.db.Exec(`DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
