package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedBook holds one row of development seed data.
type seedBook struct {
	title    string
	author   string
	genre    string
	rating   *int
	review   string
	category string
	coverURL string
}

// Seed populates the database with initial development data: the four
// reading-status categories and a handful of books. It is a no-op when
// any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	categories := []struct {
		name        string
		description string
	}{
		{"Read", "Books that I have completed."},
		{"Want to Read", "My reading backlog."},
		{"Currently Reading", "Books I am actively reading."},
		{"Unfinished", "Books I started but did not finish."},
	}

	ids := make(map[string]int, len(categories))
	for _, c := range categories {
		var id int
		err := db.QueryRow(`
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			RETURNING id
		`, c.name, c.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.name, err)
		}
		ids[c.name] = id
	}

	five := 5
	books := []seedBook{
		{
			title:    "The Poppy War",
			author:   "R.F. Kuang",
			genre:    "Military Fantasy",
			rating:   &five,
			review:   "An incredible and brutal start to a trilogy. A masterpiece of grimdark fantasy.",
			category: "Read",
			coverURL: "https://m.media-amazon.com/images/I/71ZVpkRIGsL.jpg",
		},
		{
			title:    "The Dragon Republic",
			author:   "R.F. Kuang",
			genre:    "Military Fantasy",
			category: "Want to Read",
			coverURL: "https://m.media-amazon.com/images/I/81-pYcJnBlL.jpg",
		},
		{
			title:    "Babel",
			author:   "R.F. Kuang",
			genre:    "Dark Academia",
			rating:   &five,
			category: "Read",
			coverURL: "https://m.media-amazon.com/images/I/A1lv97-jJoL.jpg",
		},
		{
			title:    "Yellowface",
			author:   "R.F. Kuang",
			genre:    "Literary Fiction",
			category: "Currently Reading",
			coverURL: "https://m.media-amazon.com/images/I/61pZ0M900BL.jpg",
		},
		{
			title:    "The Burning God",
			author:   "R.F. Kuang",
			genre:    "Military Fantasy",
			review:   "Got halfway through but needed a break. Will come back to it later.",
			category: "Unfinished",
			coverURL: "https://m.media-amazon.com/images/I/71pNOR-3x3L.jpg",
		},
	}

	for _, b := range books {
		_, err := db.Exec(`
			INSERT INTO books (title, author, genre, rating, review, category_id, cover_image_url)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		`, b.title, b.author, b.genre, b.rating, b.review, ids[b.category], b.coverURL)
		if err != nil {
			return fmt.Errorf("seed insert book %q: %w", b.title, err)
		}
	}

	slog.Info("database seeded with development data",
		"categories", len(categories),
		"books", len(books),
	)

	return nil
}
