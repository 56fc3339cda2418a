package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrIdempotencyConflict indicates a key was reused with a different request or by another user.
	ErrIdempotencyConflict = errors.New("idempotency key already used for a different request")
	// ErrIdempotencyKeyTaken is returned by TxStore.SaveIdempotency when a concurrent
	// request stored the same key first.
	ErrIdempotencyKeyTaken = errors.New("idempotency key already stored")
)

type OrderProjection = projection.Projection[*domain.Order]

// IdempotencyRecord binds a client-supplied key to the order it produced.
type IdempotencyRecord struct {
	Key         string
	UserID      string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
}

// TxStore is the view of storage available inside one placement transaction.
type TxStore interface {
	// LockBooks reads the active books among ids, holding row locks until the transaction ends.
	LockBooks(ctx context.Context, ids []string) ([]domain.StockLevel, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	// DecrementStock subtracts quantity only if enough stock remains and reports whether it did.
	DecrementStock(ctx context.Context, bookID string, quantity int) (bool, error)
	GetOrder(ctx context.Context, id string) (*OrderProjection, error)
	// GetIdempotency returns nil when the key is unknown.
	GetIdempotency(ctx context.Context, key string) (*IdempotencyRecord, error)
	SaveIdempotency(ctx context.Context, record IdempotencyRecord) error
}

// Store persists orders. InTx commits when fn returns nil and rolls back otherwise,
// including on panic.
type Store interface {
	InTx(ctx context.Context, fn func(tx TxStore) error) error
	GetOrder(ctx context.Context, id string) (*OrderProjection, error)
	// ListOrders returns every order with its items, newest first.
	ListOrders(ctx context.Context) ([]*OrderProjection, error)
	CountOrders(ctx context.Context) (int64, error)
	// SalesLedger returns all genres in creation order and every order item with its
	// book's genre. Soft-deleted genres and books are included.
	SalesLedger(ctx context.Context) ([]domain.GenreRef, []domain.SoldItem, error)
}
