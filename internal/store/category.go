package store

import (
	"database/sql"
	"errors"
	"fmt"

	"readinglist/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, with book counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
		       COUNT(b.id) AS book_count
		FROM categories c
		LEFT JOIN books b ON b.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.BookCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by id. Returns ErrNotFound if absent.
func (s *CategoryStore) FindByID(id int) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. A name collision surfaces
// as ErrDuplicateName.
func (s *CategoryStore) Create(name string, description *string) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, description,
	)
	c, err := scanCategory(row)
	if err != nil {
		if err = translateConstraint(err); errors.Is(err, ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update modifies an existing category's name and description. Returns
// ErrNotFound when the id has no row and ErrDuplicateName when the new
// name collides.
func (s *CategoryStore) Update(id int, name string, description *string) error {
	res, err := s.db.Exec(`
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`, name, description, id)
	if err != nil {
		if err = translateConstraint(err); errors.Is(err, ErrDuplicateName) {
			return err
		}
		return fmt.Errorf("update category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindOrCreateByName resolves a category by its unique name, inserting it
// when absent. The upsert keys on the name constraint, so concurrent
// first-time calls converge on a single row and the call is idempotent.
func (s *CategoryStore) FindOrCreateByName(name string, description *string) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name)
		DO UPDATE SET name = EXCLUDED.name
		RETURNING `+categoryColumns,
		name, description,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("find or create category %q: %w", name, err)
	}
	return c, nil
}

// DeleteReassigning moves every book in the category onto destinationID
// and deletes the category row, in a single transaction so no reader can
// observe a book pointing at a category that no longer exists. Returns the
// number of books moved, or ErrNotFound when the category id has no row.
func (s *CategoryStore) DeleteReassigning(id, destinationID int) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE books
		SET category_id = $1, updated_at = NOW()
		WHERE category_id = $2
	`, destinationID, id)
	if err != nil {
		return 0, fmt.Errorf("reassign books: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign rows affected: %w", err)
	}

	res, err = tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete rows affected: %w", err)
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return moved, nil
}

// CountBooks returns how many books currently reference the category.
func (s *CategoryStore) CountBooks(id int) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM books WHERE category_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count books in category: %w", err)
	}
	return n, nil
}
