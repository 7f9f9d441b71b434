package models

import "time"

// Category is a reading-status bucket. Every book belongs to exactly one
// category; the reserved "Archive" category absorbs books whose category
// is deleted.
type Category struct {
	ID          int
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// BookCount is populated by list queries, not a table column.
	BookCount int
}
