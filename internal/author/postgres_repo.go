package author

import (
	"context"
	"fmt"
	"time"

	"booklib/internal/book"
	"booklib/internal/database"

	"github.com/Masterminds/squirrel"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

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

// FindAllWithoutBooksByNamePart matches name case-insensitively; LIKE metacharacters in
// part match literally.
func (r *PostgresRepo) FindAllWithoutBooksByNamePart(ctx context.Context, part string) ([]*book.Author, error) {
	return r.list(ctx, psql.Select("id", "name").
		From("authors").
		Where(book.ContainsLower("name", part)).
		OrderBy("name", "id"))
}

// FindByIDs returns the authors among ids that exist, ordered by id.
func (r *PostgresRepo) FindByIDs(ctx context.Context, ids ...int64) ([]*book.Author, error) {
	if len(ids) == 0 {
		return []*book.Author{}, nil
	}
	return r.list(ctx, psql.Select("id", "name").
		From("authors").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id"))
}

func (r *PostgresRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*book.Author, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	defer rows.Close()

	out := []*book.Author{}
	for rows.Next() {
		var a book.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
