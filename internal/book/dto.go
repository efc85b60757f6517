package book

import "github.com/samber/lo"

// AuthorRef is an author rendered inside a book, without its books.
type AuthorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PublishYear int    `json:"publish_year"`
	// Authors is omitted when the book was listed without its authors.
	Authors []AuthorRef `json:"authors,omitempty"`
}

// SaveBookRequest is the body of POST /books and PUT /books/{id}.
type SaveBookRequest struct {
	Title       string  `json:"title" validate:"notblank,max=500"`
	PublishYear int     `json:"publish_year" validate:"gte=0,lte=9999"`
	AuthorIDs   []int64 `json:"author_ids" validate:"required,min=1,unique,dive,gt=0"`
}

func NewBookResponse(b *Book) BookResponse {
	resp := BookResponse{ID: b.ID, Title: b.Title, PublishYear: b.PublishYear}
	if b.Authors != nil {
		resp.Authors = lo.Map(b.SortedAuthors(), func(a *Author, _ int) AuthorRef {
			return AuthorRef{ID: a.ID, Name: a.Name}
		})
	}
	return resp
}

func NewBookResponses(books []*Book) []BookResponse {
	return lo.Map(books, func(b *Book, _ int) BookResponse { return NewBookResponse(b) })
}
