package author

import (
	"context"

	"booklib/internal/book"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FindByNamePart returns authors whose name contains part, without their books.
func (s *Service) FindByNamePart(ctx context.Context, part string) ([]*book.Author, error) {
	return s.repo.FindAllWithoutBooksByNamePart(ctx, part)
}
