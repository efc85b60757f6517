package book

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) FindAllWithoutAuthors(ctx context.Context) ([]*Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]*Book)
	return books, args.Error(1)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]*Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]*Book)
	return books, args.Error(1)
}

func (m *mockRepository) FindAllByTitlePart(ctx context.Context, part string) ([]*Book, error) {
	args := m.Called(ctx, part)
	books, _ := args.Get(0).([]*Book)
	return books, args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*Book, bool, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Book)
	return b, args.Bool(1), args.Error(2)
}

func (m *mockRepository) Insert(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepository) Update(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

// InTx runs fn against the mock itself.
func (m *mockRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	m.Called(ctx)
	return fn(m)
}

type mockAuthorLookup struct {
	mock.Mock
}

func (m *mockAuthorLookup) FindByIDs(ctx context.Context, ids ...int64) ([]*Author, error) {
	args := m.Called(ctx, ids)
	authors, _ := args.Get(0).([]*Author)
	return authors, args.Error(1)
}
