package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle             = errors.New("title is required")
	ErrEmptyWriter            = errors.New("writer is required")
	ErrEmptyPublisher         = errors.New("publisher is required")
	ErrInvalidPublicationYear = errors.New("publication year must be greater than zero")
	ErrInvalidPrice           = errors.New("price must be greater than zero")
	ErrNegativeStock          = errors.New("stock quantity cannot be negative")
	ErrMissingGenre           = errors.New("genre is required")
)

// Book is a catalog entry. Stock is only decremented by order placement.
type Book struct {
	ID              string
	Title           string
	Writer          string
	Publisher       string
	PublicationYear int
	Description     *string
	Price           decimal.Decimal
	StockQuantity   int
	GenreID         string
	// GenreName is resolved on reads and never persisted.
	GenreName string
}

// Details are the caller-provided fields of a new book.
type Details struct {
	Title           string
	Writer          string
	Publisher       string
	PublicationYear int
	Description     *string
	Price           decimal.Decimal
	StockQuantity   int
	GenreID         string
}

// NewBook validates details and builds the aggregate.
func NewBook(id string, details Details) (*Book, error) {
	book := &Book{
		ID:              id,
		Title:           strings.TrimSpace(details.Title),
		Writer:          strings.TrimSpace(details.Writer),
		Publisher:       strings.TrimSpace(details.Publisher),
		PublicationYear: details.PublicationYear,
		Description:     details.Description,
		Price:           details.Price,
		StockQuantity:   details.StockQuantity,
		GenreID:         strings.TrimSpace(details.GenreID),
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate enforces invariants on the aggregate.
func (b *Book) Validate() error {
	switch {
	case b.Title == "":
		return ErrEmptyTitle
	case b.Writer == "":
		return ErrEmptyWriter
	case b.Publisher == "":
		return ErrEmptyPublisher
	case b.PublicationYear <= 0:
		return ErrInvalidPublicationYear
	case !b.Price.IsPositive():
		return ErrInvalidPrice
	case b.StockQuantity < 0:
		return ErrNegativeStock
	case b.GenreID == "":
		return ErrMissingGenre
	}
	return nil
}

// Patch lists the mutable fields of a book. Nil means unchanged.
type Patch struct {
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Price == nil && p.StockQuantity == nil
}

// Apply mutates the book and re-validates it.
func (b *Book) Apply(patch Patch) error {
	if patch.Price != nil && !patch.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		return ErrNegativeStock
	}
	if patch.Description != nil {
		desc := *patch.Description
		b.Description = &desc
	}
	if patch.Price != nil {
		b.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		b.StockQuantity = *patch.StockQuantity
	}
	return b.Validate()
}
