package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Typed failures surfaced by the stores. Callers match with errors.Is and
// never see raw driver errors for constraint violations.
var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName is returned when a category write collides with
	// the unique constraint on categories.name.
	ErrDuplicateName = errors.New("category name already exists")

	// ErrCategoryMissing is returned when a book write references a
	// category id with no matching row.
	ErrCategoryMissing = errors.New("referenced category does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateConstraint maps PostgreSQL constraint violations onto the typed
// store errors above, passing every other error through unchanged.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateName
		case pgForeignKeyViolation:
			return ErrCategoryMissing
		}
	}
	return err
}
