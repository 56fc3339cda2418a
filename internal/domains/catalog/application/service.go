package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/catalog/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

// Service orchestrates genre and book use cases.
type Service struct {
	genres ports.GenreRepository
	books  ports.BookRepository
	newID  func() string
}

// Option customises the service.
type Option func(*Service)

// WithIDGenerator overrides UUID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(genres ports.GenreRepository, books ports.BookRepository, opts ...Option) *Service {
	s := &Service{
		genres: genres,
		books:  books,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGenre inserts a genre. A soft-deleted genre with the same name is
// restored instead, keeping its id.
func (s *Service) CreateGenre(ctx context.Context, name string) (*ports.GenreProjection, error) {
	genre, err := domain.NewGenre(s.newID(), name)
	if err != nil {
		return nil, mapError(err)
	}
	active, err := s.genres.FindActiveByName(ctx, genre.Name, "")
	if err != nil && !errors.Is(err, ports.ErrGenreNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, ports.ErrDuplicateGenre
	}
	deleted, err := s.genres.FindDeletedByName(ctx, genre.Name)
	if err != nil && !errors.Is(err, ports.ErrGenreNotFound) {
		return nil, err
	}
	if deleted != nil {
		return s.genres.Restore(ctx, deleted.Entity.ID)
	}
	return s.genres.Create(ctx, genre)
}

func (s *Service) ListGenres(ctx context.Context) ([]*ports.GenreProjection, error) {
	return s.genres.List(ctx)
}

func (s *Service) GetGenre(ctx context.Context, id string) (*ports.GenreProjection, error) {
	return s.genres.GetByID(ctx, id)
}

// UpdateGenre renames a genre. The new name must not collide with another active genre.
func (s *Service) UpdateGenre(ctx context.Context, input types.UpdateGenreInput) (*ports.GenreProjection, error) {
	existing, err := s.genres.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	genre := *existing.Entity
	if err := genre.Rename(input.Name); err != nil {
		return nil, mapError(err)
	}
	clash, err := s.genres.FindActiveByName(ctx, genre.Name, genre.ID)
	if err != nil && !errors.Is(err, ports.ErrGenreNotFound) {
		return nil, err
	}
	if clash != nil {
		return nil, ports.ErrDuplicateGenre
	}
	return s.genres.Update(ctx, &genre)
}

func (s *Service) DeleteGenre(ctx context.Context, id string) error {
	return s.genres.Delete(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, input types.CreateBookInput) (*ports.BookProjection, error) {
	book, err := domain.NewBook(s.newID(), domain.Details{
		Title:           input.Title,
		Writer:          input.Writer,
		Publisher:       input.Publisher,
		PublicationYear: input.PublicationYear,
		Description:     input.Description,
		Price:           input.Price,
		StockQuantity:   input.StockQuantity,
		GenreID:         input.GenreID,
	})
	if err != nil {
		return nil, mapError(err)
	}
	taken, err := s.books.TitleTaken(ctx, book.Title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ports.ErrDuplicateBook
	}
	genre, err := s.genres.GetByID(ctx, book.GenreID)
	if err != nil {
		if errors.Is(err, ports.ErrGenreNotFound) {
			return nil, ErrUnknownGenre
		}
		return nil, err
	}
	book.GenreName = genre.Entity.Name
	return s.books.Create(ctx, book)
}

// ListBooks returns one page of active books, newest first.
func (s *Service) ListBooks(ctx context.Context, input types.ListBooksInput) (projection.Page[*ports.BookProjection], error) {
	filter, err := normalizeFilter(input)
	if err != nil {
		return projection.Page[*ports.BookProjection]{}, err
	}
	return s.books.List(ctx, filter)
}

// ListBooksByGenre is ListBooks with the genre fixed. An unknown genre yields an empty page.
func (s *Service) ListBooksByGenre(ctx context.Context, genreID string, input types.ListBooksInput) (projection.Page[*ports.BookProjection], error) {
	input.GenreID = genreID
	return s.ListBooks(ctx, input)
}

func (s *Service) GetBook(ctx context.Context, id string) (*ports.BookProjection, error) {
	return s.books.GetByID(ctx, id)
}

// UpdateBook applies a partial update to description, price and stock. The merged book
// is validated, but only the supplied fields are written.
func (s *Service) UpdateBook(ctx context.Context, input types.UpdateBookInput) (*ports.BookProjection, error) {
	existing, err := s.books.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	patch := domain.Patch{
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
	}
	if patch.Empty() {
		return existing, nil
	}
	merged := *existing.Entity
	if err := merged.Apply(patch); err != nil {
		return nil, mapError(err)
	}
	return s.books.Update(ctx, input.ID, patch)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}

func normalizeFilter(input types.ListBooksInput) (ports.BookFilter, error) {
	filter := ports.BookFilter{
		Page:     input.Page,
		Limit:    input.Limit,
		Search:   strings.TrimSpace(input.Search),
		GenreID:  strings.TrimSpace(input.GenreID),
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
	}
	if filter.Page <= 0 {
		filter.Page = types.DefaultPage
	}
	if filter.Page > types.MaxPage {
		return ports.BookFilter{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrPageOutOfRange)
	}
	if filter.Limit <= 0 {
		filter.Limit = types.DefaultLimit
	}
	if filter.Limit > types.MaxLimit {
		filter.Limit = types.MaxLimit
	}
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		return ports.BookFilter{}, fmt.Errorf("%w: min_price cannot be negative", ErrInvalidInput)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return ports.BookFilter{}, fmt.Errorf("%w: min_price cannot exceed max_price", ErrInvalidInput)
	}
	return filter, nil
}

var _ ports.Service = (*Service)(nil)
