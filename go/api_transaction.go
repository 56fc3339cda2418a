package bookstoreserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry an order placement safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// TransactionAPI wires HTTP transport with the orders service and its placement workflow.
type TransactionAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewTransactionAPI creates a TransactionAPI. A nil workflows places orders through service directly.
func NewTransactionAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) TransactionAPI {
	return TransactionAPI{service: service, workflows: workflows}
}

// Post /transactions
// Place an order for the authenticated user
func (api *TransactionAPI) CreateTransaction(c *gin.Context) {
	var payload ordermapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	input := ordermapper.ToPlaceOrderInput(currentUserID(c), key, payload)
	receipt, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ok("Transaction created successfully", ordermapper.FromReceipt(receipt)))
}

func (api *TransactionAPI) placeOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Receipt, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /transactions
// All orders, newest first
func (api *TransactionAPI) ListTransactions(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get all transaction successfully", ordermapper.FromOrderSummaries(orders)))
}

// Get /transactions/:id
func (api *TransactionAPI) GetTransaction(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get transaction detail successfully", ordermapper.FromOrderDetail(order)))
}

// Get /transactions/statistics
// Sales summary across all orders
func (api *TransactionAPI) GetStatistics(c *gin.Context) {
	stats, err := api.service.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get transactions statistics successfully", ordermapper.FromStatistics(stats)))
}
