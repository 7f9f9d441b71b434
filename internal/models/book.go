package models

import "time"

// Book is a single tracked title. Nullable columns are pointers so an
// absent value round-trips as NULL rather than an empty string or zero.
type Book struct {
	ID            int
	Title         string
	Author        string
	CoverImageURL *string
	Genre         *string
	Rating        *int
	Summary       *string
	Review        *string
	CategoryID    int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// CategoryName is populated by joined queries for display.
	CategoryName string
}
