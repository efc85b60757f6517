package book

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// MissingAuthorError is returned by ExtractBooks when a joined row carries no author.
// The whole extraction is aborted, not only the offending book.
type MissingAuthorError struct {
	BookID int64
}

func (e *MissingAuthorError) Error() string {
	return fmt.Sprintf("no author for book %d", e.BookID)
}

// ValidationError reports author ids that do not exist.
type ValidationError struct {
	UnknownAuthorIDs []int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unknown author ids: %v", e.UnknownAuthorIDs)
}

// Book represents a book entity.
//
// Authors is nil when the book was loaded without its authors and an empty map when
// the authors were loaded and there are none.
type Book struct {
	ID          int64
	Title       string
	PublishYear int
	Authors     map[int64]*Author
}

// Author is the inverse side of the book/author association.
type Author struct {
	ID    int64
	Name  string
	Books map[int64]*Book
}

// NewBook returns an unsaved book linked to author stubs carrying only their ids.
func NewBook(title string, publishYear int, authorIDs ...int64) *Book {
	b := &Book{Title: title, PublishYear: publishYear, Authors: map[int64]*Author{}}
	for _, id := range lo.Uniq(authorIDs) {
		b.AddAuthor(&Author{ID: id})
	}
	return b
}

// AddAuthor links a and b on both sides of the association.
func (b *Book) AddAuthor(a *Author) {
	if b.Authors == nil {
		b.Authors = map[int64]*Author{}
	}
	if a.Books == nil {
		a.Books = map[int64]*Book{}
	}
	b.Authors[a.ID] = a
	a.Books[b.ID] = b
}

// assignID sets the generated id and re-keys the book in its authors' sets.
func (b *Book) assignID(id int64) {
	for _, a := range b.Authors {
		if a.Books == nil {
			a.Books = map[int64]*Book{}
		}
		if a.Books[b.ID] == b {
			delete(a.Books, b.ID)
		}
		a.Books[id] = b
	}
	b.ID = id
}

// AuthorIDs returns the ids of the book's authors in ascending order.
func (b *Book) AuthorIDs() []int64 {
	ids := lo.Keys(b.Authors)
	slices.Sort(ids)
	return ids
}

// SortedAuthors returns the book's authors ordered by id.
func (b *Book) SortedAuthors() []*Author {
	out := make([]*Author, 0, len(b.Authors))
	for _, id := range b.AuthorIDs() {
		out = append(out, b.Authors[id])
	}
	return out
}

// BookIDs returns the ids of the author's books in ascending order.
func (a *Author) BookIDs() []int64 {
	ids := lo.Keys(a.Books)
	slices.Sort(ids)
	return ids
}
