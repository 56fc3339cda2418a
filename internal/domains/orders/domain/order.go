package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrMissingBookID     = errors.New("book id is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// BookNotFoundError names the line that referenced an unknown or deleted book.
// It matches ErrBookNotFound with errors.Is.
type BookNotFoundError struct {
	BookID string
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("Book with id %s not found.", e.BookID)
}

func (e *BookNotFoundError) Is(target error) bool { return target == ErrBookNotFound }

// InsufficientStockError names the book whose remaining stock could not cover a line.
// It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	BookID string
	Title  string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for book: %s.", e.Title)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Line is one requested (book, quantity) pair. Lines with the same book are kept apart.
type Line struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// ValidateLines checks the shape of a request before any stock is read.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrEmptyOrder
	}
	for i, line := range lines {
		if strings.TrimSpace(line.BookID) == "" {
			return fmt.Errorf("item %d: %w", i, ErrMissingBookID)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

// BookIDs returns the distinct book ids referenced by lines, in first-seen order.
func BookIDs(lines []Line) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.BookID]; ok {
			continue
		}
		seen[line.BookID] = struct{}{}
		ids = append(ids, line.BookID)
	}
	return ids
}

// Item is a persisted order line with the price that was charged for it.
type Item struct {
	ID        string
	Position  int
	BookID    string
	BookTitle string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is quantity times the unit price.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is immutable once placed.
type Order struct {
	ID        string
	UserID    string
	Items     []Item
	CreatedAt time.Time
}

func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Receipt summarizes a placed order.
type Receipt struct {
	OrderID       string          `json:"transaction_id"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

func (o *Order) Receipt() Receipt {
	return Receipt{OrderID: o.ID, TotalQuantity: o.TotalQuantity(), TotalPrice: o.TotalPrice()}
}
