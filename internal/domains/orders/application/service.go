package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

// Service places orders and reports on them.
type Service struct {
	store ports.Store
	newID func() string
}

type Option func(*Service)

// WithIDGenerator overrides uuid generation for orders and items.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(store ports.Store, opts ...Option) *Service {
	s := &Service{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates lines against locked stock, writes the order and its items and
// decrements stock, all in one transaction. Nothing is retried except the replay of a
// key that a concurrent request stored first.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Receipt, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	lines := make([]domain.Line, 0, len(input.Lines))
	for _, line := range input.Lines {
		lines = append(lines, domain.Line{BookID: strings.TrimSpace(line.BookID), Quantity: line.Quantity})
	}
	if err := domain.ValidateLines(lines); err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" {
		hash, err := FingerprintLines(lines)
		if err != nil {
			return nil, fmt.Errorf("fingerprint order: %w", err)
		}
		fingerprint = hash
	}

	receipt, err := s.place(ctx, input.UserID, lines, key, fingerprint)
	if errors.Is(err, ports.ErrIdempotencyKeyTaken) {
		return s.place(ctx, input.UserID, lines, key, fingerprint)
	}
	return receipt, err
}

func (s *Service) place(ctx context.Context, userID string, lines []domain.Line, key, fingerprint string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := s.store.InTx(ctx, func(tx ports.TxStore) error {
		if key != "" {
			replayed, found, err := replay(ctx, tx, key, userID, fingerprint)
			if err != nil {
				return err
			}
			if found {
				receipt = replayed
				return nil
			}
		}

		stock, err := tx.LockBooks(ctx, domain.BookIDs(lines))
		if err != nil {
			return err
		}
		items, err := domain.Plan(lines, stock)
		if err != nil {
			return err
		}
		order := &domain.Order{ID: s.newID(), UserID: userID, Items: items}
		for i := range order.Items {
			order.Items[i].ID = s.newID()
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			ok, err := tx.DecrementStock(ctx, item.BookID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.InsufficientStockError{BookID: item.BookID, Title: item.BookTitle}
			}
		}
		if key != "" {
			err := tx.SaveIdempotency(ctx, ports.IdempotencyRecord{
				Key:         key,
				UserID:      userID,
				RequestHash: fingerprint,
				OrderID:     order.ID,
			})
			if err != nil {
				return err
			}
		}
		receipt = order.Receipt()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func replay(ctx context.Context, tx ports.TxStore, key, userID, fingerprint string) (domain.Receipt, bool, error) {
	record, err := tx.GetIdempotency(ctx, key)
	if err != nil || record == nil {
		return domain.Receipt{}, false, err
	}
	if record.UserID != userID || record.RequestHash != fingerprint {
		return domain.Receipt{}, false, ports.ErrIdempotencyConflict
	}
	order, err := tx.GetOrder(ctx, record.OrderID)
	if err != nil {
		return domain.Receipt{}, false, fmt.Errorf("load order for idempotency key: %w", err)
	}
	return order.Entity.Receipt(), true, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*ports.OrderProjection, error) {
	return s.store.ListOrders(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*ports.OrderProjection, error) {
	return s.store.GetOrder(ctx, strings.TrimSpace(id))
}

// Statistics aggregates every order ever placed.
func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	count, err := s.store.CountOrders(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	genres, items, err := s.store.SalesLedger(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return domain.Summarize(count, genres, items), nil
}

var _ ports.Service = (*Service)(nil)
