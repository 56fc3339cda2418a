package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

// GenreRequest is the payload for creating or renaming a genre.
type GenreRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBookRequest is the payload for adding a book. Pointers distinguish missing
// fields from zero values.
type CreateBookRequest struct {
	Title           string           `json:"title" binding:"required"`
	Writer          string           `json:"writer" binding:"required"`
	Publisher       string           `json:"publisher" binding:"required"`
	PublicationYear int              `json:"publication_year" binding:"required,gt=0"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	StockQuantity   *int             `json:"stock_quantity" binding:"required,gte=0"`
	GenreID         string           `json:"genre_id" binding:"required,uuid"`
}

// UpdateBookRequest is a partial update; absent fields are left unchanged.
type UpdateBookRequest struct {
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" binding:"omitempty,gte=0"`
}

// ListBooksQuery holds the listing query string.
type ListBooksQuery struct {
	Page     int    `form:"page" binding:"omitempty,gte=1,lte=1000000"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1"`
	Search   string `form:"search"`
	GenreID  string `form:"genre_id" binding:"omitempty,uuid"`
	MinPrice string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice string `form:"max_price" binding:"omitempty,numeric"`
}

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GenreCreated struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type GenreUpdated struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book is a listing entry. Genre carries the genre name.
type Book struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Writer          string  `json:"writer"`
	Publisher       string  `json:"publisher"`
	PublicationYear int     `json:"publication_year"`
	Price           float64 `json:"price"`
	StockQuantity   int     `json:"stock_quantity"`
	Genre           string  `json:"genre"`
}

// BookDetail adds the description to a listing entry.
type BookDetail struct {
	Book
	Description *string `json:"description"`
}

type BookCreated struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type BookUpdated struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func ToCreateBookInput(req CreateBookRequest) types.CreateBookInput {
	input := types.CreateBookInput{
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		GenreID:         req.GenreID,
	}
	if req.Price != nil {
		input.Price = *req.Price
	}
	if req.StockQuantity != nil {
		input.StockQuantity = *req.StockQuantity
	}
	return input
}

func ToUpdateBookInput(id string, req UpdateBookRequest) types.UpdateBookInput {
	return types.UpdateBookInput{
		ID:            id,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
}

// ToListBooksInput parses the numeric filters. Bounds are enforced by the service.
func ToListBooksInput(q ListBooksQuery) (types.ListBooksInput, error) {
	input := types.ListBooksInput{
		Page:    q.Page,
		Limit:   q.Limit,
		Search:  q.Search,
		GenreID: q.GenreID,
	}
	var err error
	if input.MinPrice, err = parsePrice("min_price", q.MinPrice); err != nil {
		return types.ListBooksInput{}, err
	}
	if input.MaxPrice, err = parsePrice("max_price", q.MaxPrice); err != nil {
		return types.ListBooksInput{}, err
	}
	return input, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", field, err)
	}
	return &value, nil
}

func FromGenre(genre *catalogports.GenreProjection) Genre {
	if genre == nil || genre.Entity == nil {
		return Genre{}
	}
	return Genre{ID: genre.Entity.ID, Name: genre.Entity.Name}
}

func FromGenres(genres []*catalogports.GenreProjection) []Genre {
	result := make([]Genre, 0, len(genres))
	for _, genre := range genres {
		result = append(result, FromGenre(genre))
	}
	return result
}

func FromGenreCreated(genre *catalogports.GenreProjection) GenreCreated {
	g := FromGenre(genre)
	return GenreCreated{ID: g.ID, Name: g.Name, CreatedAt: genre.Metadata.CreatedAt}
}

func FromGenreUpdated(genre *catalogports.GenreProjection) GenreUpdated {
	g := FromGenre(genre)
	return GenreUpdated{ID: g.ID, Name: g.Name, UpdatedAt: genre.Metadata.UpdatedAt}
}

func FromBook(book *catalogports.BookProjection) Book {
	if book == nil || book.Entity == nil {
		return Book{}
	}
	b := book.Entity
	return Book{
		ID:              b.ID,
		Title:           b.Title,
		Writer:          b.Writer,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Price:           b.Price.InexactFloat64(),
		StockQuantity:   b.StockQuantity,
		Genre:           b.GenreName,
	}
}

func FromBookDetail(book *catalogports.BookProjection) BookDetail {
	detail := BookDetail{Book: FromBook(book)}
	if book != nil && book.Entity != nil {
		detail.Description = book.Entity.Description
	}
	return detail
}

func FromBookCreated(book *catalogports.BookProjection) BookCreated {
	return BookCreated{ID: book.Entity.ID, Title: book.Entity.Title, CreatedAt: book.Metadata.CreatedAt}
}

func FromBookUpdated(book *catalogports.BookProjection) BookUpdated {
	return BookUpdated{ID: book.Entity.ID, Title: book.Entity.Title, UpdatedAt: book.Metadata.UpdatedAt}
}

// FromBookPage returns the listing items and pagination block.
func FromBookPage(page projection.Page[*catalogports.BookProjection]) ([]Book, Pagination) {
	items := make([]Book, 0, len(page.Items))
	for _, book := range page.Items {
		items = append(items, FromBook(book))
	}
	return items, Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages(),
	}
}
