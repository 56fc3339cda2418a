package ports

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/domain"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var (
	ErrGenreNotFound  = errors.New("genre not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrDuplicateGenre = errors.New("genre with that name already exists")
	ErrDuplicateBook  = errors.New("book with that title already exists")
)

type (
	GenreProjection = projection.Projection[*domain.Genre]
	BookProjection  = projection.Projection[*domain.Book]
)

// GenreRepository persists genres. Lookups ignore soft-deleted rows unless stated otherwise.
type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) (*GenreProjection, error)
	GetByID(ctx context.Context, id string) (*GenreProjection, error)
	// FindActiveByName matches case-insensitively, skipping excludeID when non-empty.
	FindActiveByName(ctx context.Context, name, excludeID string) (*GenreProjection, error)
	// FindDeletedByName returns the most recently deleted genre matching name case-insensitively.
	FindDeletedByName(ctx context.Context, name string) (*GenreProjection, error)
	Restore(ctx context.Context, id string) (*GenreProjection, error)
	Update(ctx context.Context, genre *domain.Genre) (*GenreProjection, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*GenreProjection, error)
}

// BookFilter narrows a book listing. All set fields are ANDed.
type BookFilter struct {
	Page     int
	Limit    int
	Search   string
	GenreID  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Offset is the number of rows skipped before the requested page. It saturates
// instead of overflowing.
func (f BookFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// BookRepository persists books. Lookups ignore soft-deleted rows.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*BookProjection, error)
	GetByID(ctx context.Context, id string) (*BookProjection, error)
	TitleTaken(ctx context.Context, title string) (bool, error)
	// Update writes only the fields set in patch. Stock moved by orders in the meantime is kept.
	Update(ctx context.Context, id string, patch domain.Patch) (*BookProjection, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter BookFilter) (projection.Page[*BookProjection], error)
}
