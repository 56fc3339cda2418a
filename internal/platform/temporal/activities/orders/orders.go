package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

// PlaceOrderActivityName runs the whole placement transaction. It is never retried.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the order workflow and converts business failures into
// non-retryable application errors.
func (a *Activities) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Receipt, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "userId", input.UserID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", input.UserID, "lines", len(input.Lines))
	receipt, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Warn("PlaceOrder activity failed", "userId", input.UserID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", receipt.OrderID)
	return receipt, nil
}
