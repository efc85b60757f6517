package author

import (
	"context"

	"booklib/internal/book"
)

// Repository defines the contract for author data storage.
type Repository interface {
	FindAllWithoutBooksByNamePart(ctx context.Context, part string) ([]*book.Author, error)
	FindByIDs(ctx context.Context, ids ...int64) ([]*book.Author, error)
}
