package ports

import (
	"context"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs order placement either inline or on a durable workflow engine.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Receipt, error)
}
