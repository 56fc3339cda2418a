package types

import "github.com/shopspring/decimal"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// CreateBookInput carries the fields of a new catalog entry.
type CreateBookInput struct {
	Title           string
	Writer          string
	Publisher       string
	PublicationYear int
	Description     *string
	Price           decimal.Decimal
	StockQuantity   int
	GenreID         string
}

// UpdateBookInput is a partial update. Only description, price and stock are mutable.
type UpdateBookInput struct {
	ID            string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
}

// ListBooksInput is the raw listing query. Zero values select defaults.
type ListBooksInput struct {
	Page     int
	Limit    int
	Search   string
	GenreID  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// UpdateGenreInput renames a genre.
type UpdateGenreInput struct {
	ID   string
	Name string
}
