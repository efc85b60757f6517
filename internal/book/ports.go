package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	FindAllWithoutAuthors(ctx context.Context) ([]*Book, error)
	FindAll(ctx context.Context) ([]*Book, error)
	FindAllByTitlePart(ctx context.Context, part string) ([]*Book, error)
	// FindByID reports ok == false when no book has the id.
	FindByID(ctx context.Context, id int64) (b *Book, ok bool, err error)
	Insert(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	// InTx runs fn with a repository whose statements share one transaction.
	InTx(ctx context.Context, fn func(Repository) error) error
}

// AuthorLookup resolves which of the given author ids exist.
type AuthorLookup interface {
	FindByIDs(ctx context.Context, ids ...int64) ([]*Author, error)
}
