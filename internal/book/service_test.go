package book

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *mockRepository, *mockAuthorLookup) {
	repo := &mockRepository{}
	authors := &mockAuthorLookup{}
	return NewService(repo, authors, zerolog.Nop()), repo, authors
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		svc, repo, _ := newTestService()
		want := &Book{ID: 1, Title: "A"}
		repo.On("FindByID", ctx, int64(1)).Return(want, true, nil)

		got, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Same(t, want, got)
	})

	t.Run("absent", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("FindByID", ctx, int64(2)).Return(nil, false, nil)

		_, err := svc.GetByID(ctx, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		svc, repo, _ := newTestService()
		storeErr := errors.New("down")
		repo.On("FindByID", ctx, int64(3)).Return(nil, false, storeErr)

		_, err := svc.GetByID(ctx, 3)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestService_Listing(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()
	all := []*Book{{ID: 1}}
	bare := []*Book{{ID: 2}}
	hits := []*Book{{ID: 3}}
	repo.On("FindAll", ctx).Return(all, nil)
	repo.On("FindAllWithoutAuthors", ctx).Return(bare, nil)
	repo.On("FindAllByTitlePart", ctx, "hob").Return(hits, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = svc.ListWithoutAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, bare, got)

	got, err = svc.SearchByTitle(ctx, "hob")
	require.NoError(t, err)
	assert.Equal(t, hits, got)

	repo.AssertExpectations(t)
}

func TestService_SaveInsert(t *testing.T) {
	ctx := context.Background()
	svc, repo, authors := newTestService()

	tolkien := &Author{ID: 10, Name: "Tolkien"}
	authors.On("FindByIDs", ctx, []int64{10}).Return([]*Author{tolkien}, nil)
	repo.On("InTx", ctx).Return()
	repo.On("Insert", ctx, mock.AnythingOfType("*book.Book")).
		Run(func(args mock.Arguments) { args.Get(1).(*Book).assignID(42) }).
		Return(nil)

	b := NewBook("The Hobbit", 1937, 10)
	require.NoError(t, svc.Save(ctx, b))

	assert.Equal(t, int64(42), b.ID)
	assert.Same(t, tolkien, b.Authors[10], "stubs are replaced by stored authors")
	assert.Same(t, b, tolkien.Books[42])
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_SaveUpdate(t *testing.T) {
	ctx := context.Background()
	svc, repo, authors := newTestService()

	authors.On("FindByIDs", ctx, []int64{1, 2}).Return([]*Author{{ID: 1}, {ID: 2}}, nil)
	repo.On("InTx", ctx).Return()
	repo.On("Update", ctx, mock.AnythingOfType("*book.Book")).Return(nil)

	b := NewBook("Good Omens", 1990, 2, 1)
	b.assignID(5)
	require.NoError(t, svc.Save(ctx, b))

	assert.Equal(t, []int64{1, 2}, b.AuthorIDs())
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestService_SaveUnknownAuthors(t *testing.T) {
	ctx := context.Background()
	svc, repo, authors := newTestService()

	authors.On("FindByIDs", ctx, []int64{1, 7, 9}).Return([]*Author{{ID: 7}}, nil)

	err := svc.Save(ctx, NewBook("Orphan", 2001, 9, 1, 7))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []int64{1, 9}, verr.UnknownAuthorIDs)
	repo.AssertNotCalled(t, "InTx", mock.Anything)
}

func TestService_SaveInsertFailureResetsID(t *testing.T) {
	ctx := context.Background()
	svc, repo, authors := newTestService()
	insertErr := errors.New("batch failed")

	authors.On("FindByIDs", ctx, []int64{3}).Return([]*Author{{ID: 3}}, nil)
	repo.On("InTx", ctx).Return()
	repo.On("Insert", ctx, mock.AnythingOfType("*book.Book")).
		Run(func(args mock.Arguments) { args.Get(1).(*Book).assignID(99) }).
		Return(insertErr)

	b := NewBook("Lost", 2020, 3)
	err := svc.Save(ctx, b)

	assert.ErrorIs(t, err, insertErr)
	assert.Zero(t, b.ID)
	assert.Equal(t, []int64{0}, b.Authors[3].BookIDs())
}

func TestService_SaveWithoutAuthors(t *testing.T) {
	ctx := context.Background()
	svc, repo, authors := newTestService()
	repo.On("InTx", ctx).Return()
	repo.On("Insert", ctx, mock.AnythingOfType("*book.Book")).Return(nil)

	require.NoError(t, svc.Save(ctx, NewBook("Anonymous", 1500)))
	authors.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}
