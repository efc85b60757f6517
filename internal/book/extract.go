package book

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// RowScanner is the part of pgx.Rows the mappers need.
type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ExtractBooks folds book-outer-join-author rows into books with their authors.
//
// Rows must carry b_id, b_title, b_publish_year, a_id, a_name and be sorted by book id
// then author id: a new book starts whenever the book id differs from the previous row.
// Authors are shared between books within one call, so two books by the same author
// reference the same *Author.
func ExtractBooks(rows RowScanner) ([]*Book, error) {
	books := []*Book{}
	authors := map[int64]*Author{}
	var current *Book

	for rows.Next() {
		var (
			bookID      int64
			title       string
			publishYear int
			authorID    pgtype.Int8
			authorName  pgtype.Text
		)
		if err := rows.Scan(&bookID, &title, &publishYear, &authorID, &authorName); err != nil {
			return nil, err
		}

		if current == nil || current.ID != bookID {
			current = &Book{
				ID:          bookID,
				Title:       title,
				PublishYear: publishYear,
				Authors:     map[int64]*Author{},
			}
			books = append(books, current)
		}

		// A NULL author id from the outer join surfaces as 0.
		if authorID.Int64 == 0 {
			return nil, &MissingAuthorError{BookID: current.ID}
		}

		author, ok := authors[authorID.Int64]
		if !ok {
			author = &Author{ID: authorID.Int64, Name: authorName.String, Books: map[int64]*Book{}}
			authors[author.ID] = author
		}
		current.AddAuthor(author)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

// MapBook maps the current id, title, publish_year row to a book without authors.
func MapBook(row RowScanner) (*Book, error) {
	var b Book
	if err := row.Scan(&b.ID, &b.Title, &b.PublishYear); err != nil {
		return nil, err
	}
	return &b, nil
}
