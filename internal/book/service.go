package book

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	authors AuthorLookup
	log     zerolog.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, authors AuthorLookup, log zerolog.Logger) *Service {
	return &Service{repo: repo, authors: authors, log: log.With().Str("component", "book_service").Logger()}
}

// ListWithoutAuthors returns every book without loading authors.
func (s *Service) ListWithoutAuthors(ctx context.Context) ([]*Book, error) {
	return s.repo.FindAllWithoutAuthors(ctx)
}

// List returns every book with its authors.
func (s *Service) List(ctx context.Context) ([]*Book, error) {
	return s.repo.FindAll(ctx)
}

// SearchByTitle returns the books whose title contains part, ignoring case.
func (s *Service) SearchByTitle(ctx context.Context, part string) ([]*Book, error) {
	return s.repo.FindAllByTitlePart(ctx, part)
}

// GetByID returns a book with its authors, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*Book, error) {
	b, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Save inserts b when it has no id and updates it otherwise. The book row and its
// author associations are written in one transaction.
func (s *Service) Save(ctx context.Context, b *Book) error {
	if err := s.resolveAuthors(ctx, b); err != nil {
		return err
	}

	isNew := b.ID == 0
	err := s.repo.InTx(ctx, func(repo Repository) error {
		if isNew {
			return repo.Insert(ctx, b)
		}
		return repo.Update(ctx, b)
	})
	if err != nil {
		if isNew && b.ID != 0 {
			// the generated id belongs to a rolled back row
			b.assignID(0)
		}
		return err
	}

	s.log.Info().
		Int64("book_id", b.ID).
		Bool("created", isNew).
		Ints64("author_ids", b.AuthorIDs()).
		Msg("book saved")
	return nil
}

// resolveAuthors replaces author stubs with stored authors and rejects unknown ids.
func (s *Service) resolveAuthors(ctx context.Context, b *Book) error {
	ids := b.AuthorIDs()
	if len(ids) == 0 {
		return nil
	}

	found, err := s.authors.FindByIDs(ctx, ids...)
	if err != nil {
		return err
	}
	if unknown := lo.Without(ids, lo.Map(found, func(a *Author, _ int) int64 { return a.ID })...); len(unknown) > 0 {
		return &ValidationError{UnknownAuthorIDs: unknown}
	}

	for _, old := range b.Authors {
		delete(old.Books, b.ID)
	}
	b.Authors = map[int64]*Author{}
	for _, a := range found {
		b.AddAuthor(a)
	}
	return nil
}
