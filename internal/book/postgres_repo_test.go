package book_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booklib/internal/book"
	"booklib/internal/database"
	"booklib/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveBook(t *testing.T, repo *book.PostgresRepo, title string, year int, authorIDs ...int64) *book.Book {
	t.Helper()
	b := book.NewBook(title, year, authorIDs...)
	err := repo.InTx(context.Background(), func(tx book.Repository) error {
		return tx.Insert(context.Background(), b)
	})
	require.NoError(t, err)
	require.NotZero(t, b.ID)
	return b
}

func countAssociations(t *testing.T, pool *pgxpool.Pool, bookID int64) map[int64]int {
	t.Helper()
	rows, err := pool.Query(context.Background(),
		`SELECT author_id, count(*) FROM books_authors WHERE book_id = $1 GROUP BY author_id`, bookID)
	require.NoError(t, err)
	defer rows.Close()

	out := map[int64]int{}
	for rows.Next() {
		var authorID int64
		var n int
		require.NoError(t, rows.Scan(&authorID, &n))
		out[authorID] = n
	}
	require.NoError(t, rows.Err())
	return out
}

func TestPostgresRepo_InsertFindByIDRoundTrip(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	pratchett := testutil.InsertAuthor(t, pool, "Terry Pratchett")
	gaiman := testutil.InsertAuthor(t, pool, "Neil Gaiman")

	saved := saveBook(t, repo, "Good Omens", 1990, gaiman, pratchett)

	got, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Good Omens", got.Title)
	assert.Equal(t, 1990, got.PublishYear)
	assert.ElementsMatch(t, saved.AuthorIDs(), got.AuthorIDs())
	assert.Equal(t, "Neil Gaiman", got.Authors[gaiman].Name)
	assert.Same(t, got, got.Authors[pratchett].Books[got.ID])
}

func TestPostgresRepo_FindByIDAbsent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)

	got, ok, err := repo.FindByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPostgresRepo_UpdateReplacesAuthors(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	a1 := testutil.InsertAuthor(t, pool, "A1")
	a2 := testutil.InsertAuthor(t, pool, "A2")
	a3 := testutil.InsertAuthor(t, pool, "A3")
	saved := saveBook(t, repo, "Draft", 2000, a1, a2)

	update := func() {
		b, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		b.Title = "Final"
		delete(b.Authors, a1)
		b.AddAuthor(&book.Author{ID: a3})
		require.NoError(t, repo.InTx(ctx, func(tx book.Repository) error { return tx.Update(ctx, b) }))
	}

	update()
	update()

	assert.Equal(t, map[int64]int{a2: 1, a3: 1}, countAssociations(t, pool, saved.ID))

	got, _, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, []int64{a2, a3}, got.AuthorIDs())
}

func TestPostgresRepo_UpdateMissingBook(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)

	b := book.NewBook("Ghost", 1999)
	b.ID = 777
	err := repo.Update(context.Background(), b)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestPostgresRepo_FindAllByTitlePart(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	tolkien := testutil.InsertAuthor(t, pool, "J. R. R. Tolkien")
	hobbit := saveBook(t, repo, "The Hobbit", 1937, tolkien)
	percent := saveBook(t, repo, "100% Pure", 2010, tolkien)
	underscore := saveBook(t, repo, "snake_case guide", 2015, tolkien)
	saveBook(t, repo, "Silmarillion", 1977, tolkien)

	tests := []struct {
		part string
		want []int64
	}{
		{"the", []int64{hobbit.ID}},
		{"HOBBIT", []int64{hobbit.ID}},
		{"%", []int64{percent.ID}},
		{"_", []int64{underscore.ID}},
		{"e_c", []int64{underscore.ID}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			books, err := repo.FindAllByTitlePart(ctx, tt.part)
			require.NoError(t, err)

			var ids []int64
			for _, b := range books {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPostgresRepo_FindAllSharesAuthors(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	x := testutil.InsertAuthor(t, pool, "X")
	y := testutil.InsertAuthor(t, pool, "Y")
	b1 := saveBook(t, repo, "A", 2000, x, y)
	b2 := saveBook(t, repo, "B", 2001, x)

	books, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, b1.ID, books[0].ID)
	assert.Equal(t, b2.ID, books[1].ID)
	assert.Same(t, books[0].Authors[x], books[1].Authors[x])
	assert.Equal(t, []int64{b1.ID, b2.ID}, books[0].Authors[x].BookIDs())
}

func TestPostgresRepo_AuthorlessBook(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	lonely := saveBook(t, repo, "Anonymous", 1500)

	bare, err := repo.FindAllWithoutAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, bare, 1)
	assert.Equal(t, "Anonymous", bare[0].Title)
	assert.Nil(t, bare[0].Authors)

	_, err = repo.FindAll(ctx)
	var missing *book.MissingAuthorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, lonely.ID, missing.BookID)
}

func TestPostgresRepo_InsertUnknownAuthor(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	b := book.NewBook("Broken", 2000, 9999)
	err := repo.InTx(ctx, func(tx book.Repository) error { return tx.Insert(ctx, b) })
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))

	bare, err := repo.FindAllWithoutAuthors(ctx)
	require.NoError(t, err)
	assert.Empty(t, bare, "the book row is rolled back with its associations")
}

func TestPostgresRepo_InTxRollback(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := book.NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()
	abort := errors.New("abort")

	a := testutil.InsertAuthor(t, pool, "A")
	err := repo.InTx(ctx, func(tx book.Repository) error {
		if err := tx.Insert(ctx, book.NewBook("Temp", 2000, a)); err != nil {
			return err
		}
		return abort
	})
	assert.ErrorIs(t, err, abort)

	bare, err := repo.FindAllWithoutAuthors(ctx)
	require.NoError(t, err)
	assert.Empty(t, bare)
}
