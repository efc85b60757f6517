package author

import (
	"context"

	"booklib/internal/book"

	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindAllWithoutBooksByNamePart(ctx context.Context, part string) ([]*book.Author, error) {
	args := m.Called(ctx, part)
	authors, _ := args.Get(0).([]*book.Author)
	return authors, args.Error(1)
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids ...int64) ([]*book.Author, error) {
	args := m.Called(ctx, ids)
	authors, _ := args.Get(0).([]*book.Author)
	return authors, args.Error(1)
}
