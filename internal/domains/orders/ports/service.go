package ports

import (
	"context"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Receipt, error)
	ListOrders(ctx context.Context) ([]*OrderProjection, error)
	GetOrder(ctx context.Context, id string) (*OrderProjection, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
}
