package book

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern normalizes a user search fragment into a LIKE pattern: trimmed,
// lowercased, LIKE metacharacters escaped with a backslash, wrapped in wildcards.
func ContainsPattern(part string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(part))) + "%"
}

// ContainsLower is a case-insensitive "column contains part" condition.
func ContainsLower(column, part string) squirrel.Sqlizer {
	return squirrel.Expr("lower("+column+`) LIKE ? ESCAPE '\'`, ContainsPattern(part))
}

func selectBooks() squirrel.SelectBuilder {
	return psql.Select("id", "title", "publish_year").
		From("books").
		OrderBy("id")
}

func selectBooksWithAuthors() squirrel.SelectBuilder {
	return psql.Select(
		"b.id AS b_id",
		"b.title AS b_title",
		"b.publish_year AS b_publish_year",
		"a.id AS a_id",
		"a.name AS a_name",
	).
		From("books b").
		LeftJoin("books_authors ba ON b.id = ba.book_id").
		LeftJoin("authors a ON ba.author_id = a.id").
		OrderBy("b.id", "a.id")
}

func insertBook(b *Book) squirrel.InsertBuilder {
	return psql.Insert("books").
		Columns("title", "publish_year").
		Values(b.Title, b.PublishYear).
		Suffix("RETURNING id")
}

func updateBook(b *Book) squirrel.UpdateBuilder {
	return psql.Update("books").
		Set("title", b.Title).
		Set("publish_year", b.PublishYear).
		Where(squirrel.Eq{"id": b.ID})
}

func deleteBookAuthors(bookID int64) squirrel.DeleteBuilder {
	return psql.Delete("books_authors").Where(squirrel.Eq{"book_id": bookID})
}

const insertBookAuthorSQL = `INSERT INTO books_authors (book_id, author_id) VALUES ($1, $2)`
