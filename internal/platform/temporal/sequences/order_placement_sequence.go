package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/it-literature-shop/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the single placement activity. A failed placement
// has already rolled back, so the activity gets exactly one attempt.
func RunOrderPlacementSequence(ctx workflow.Context, input types.PlaceOrderInput) (*domain.Receipt, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", input.UserID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var receipt domain.Receipt
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceOrderActivityName, input).Get(ctx, &receipt)
	if err != nil {
		logger.Warn("order placement sequence failed", "userId", input.UserID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", receipt.OrderID)
	return &receipt, nil
}
