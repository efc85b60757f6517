package book

import (
	"context"
	"fmt"
	"time"

	"booklib/internal/database"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type PostgresRepo struct {
	db      database.DBTX
	timeout time.Duration
}

func NewPostgresRepo(db database.DBTX, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(NewPostgresRepo(tx, r.timeout))
	})
}

func (r *PostgresRepo) FindAllWithoutAuthors(ctx context.Context) ([]*Book, error) {
	query, args, err := selectBooks().ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	out := []*Book{}
	for rows.Next() {
		b, err := MapBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]*Book, error) {
	return r.queryWithAuthors(ctx, selectBooksWithAuthors())
}

func (r *PostgresRepo) FindAllByTitlePart(ctx context.Context, part string) ([]*Book, error) {
	return r.queryWithAuthors(ctx, selectBooksWithAuthors().Where(ContainsLower("b.title", part)))
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (*Book, bool, error) {
	books, err := r.queryWithAuthors(ctx, selectBooksWithAuthors().Where(squirrel.Eq{"b.id": id}))
	if err != nil {
		return nil, false, err
	}
	if len(books) == 0 {
		return nil, false, nil
	}
	return books[0], true, nil
}

func (r *PostgresRepo) queryWithAuthors(ctx context.Context, q squirrel.SelectBuilder) ([]*Book, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books with authors: %w", err)
	}
	defer rows.Close()

	return ExtractBooks(rows)
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	query, args, err := insertBook(b).ToSql()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int64
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&id); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	b.assignID(id)

	return r.insertAuthors(timeoutCtx, b)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	query, args, err := updateBook(b).ToSql()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.deleteAuthors(timeoutCtx, b.ID); err != nil {
		return err
	}
	return r.insertAuthors(timeoutCtx, b)
}

func (r *PostgresRepo) deleteAuthors(ctx context.Context, bookID int64) error {
	query, args, err := deleteBookAuthors(bookID).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete authors of book %d: %w", bookID, err)
	}
	return nil
}

func (r *PostgresRepo) insertAuthors(ctx context.Context, b *Book) error {
	if len(b.Authors) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, authorID := range b.AuthorIDs() {
		batch.Queue(insertBookAuthorSQL, b.ID, authorID)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert authors of book %d: %w", b.ID, err)
	}
	return nil
}
