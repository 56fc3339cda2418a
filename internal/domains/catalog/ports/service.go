package ports

import (
	"context"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

// Service defines the catalog use cases exposed to adapters.
type Service interface {
	CreateGenre(ctx context.Context, name string) (*GenreProjection, error)
	ListGenres(ctx context.Context) ([]*GenreProjection, error)
	GetGenre(ctx context.Context, id string) (*GenreProjection, error)
	UpdateGenre(ctx context.Context, input types.UpdateGenreInput) (*GenreProjection, error)
	DeleteGenre(ctx context.Context, id string) error

	CreateBook(ctx context.Context, input types.CreateBookInput) (*BookProjection, error)
	ListBooks(ctx context.Context, input types.ListBooksInput) (projection.Page[*BookProjection], error)
	ListBooksByGenre(ctx context.Context, genreID string, input types.ListBooksInput) (projection.Page[*BookProjection], error)
	GetBook(ctx context.Context, id string) (*BookProjection, error)
	UpdateBook(ctx context.Context, input types.UpdateBookInput) (*BookProjection, error)
	DeleteBook(ctx context.Context, id string) error
}
