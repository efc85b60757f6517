package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://user:secret@db:5432/books", "postgres://***@db:5432/books"},
		{"postgres://db:5432/books", "postgres://db:5432/books"},
		{"host=db user=u", "host=db user=u"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactDSN(tt.in))
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert authors of book 1: %w", fk)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(errors.New("23503")))
	assert.False(t, IsForeignKeyViolation(nil))
}
