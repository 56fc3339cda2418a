package mapper

import (
	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

// LineRequest is one requested (book, quantity) pair.
type LineRequest struct {
	BookID   string `json:"book_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest is the payload of POST /transactions.
type PlaceOrderRequest struct {
	Items []LineRequest `json:"items" binding:"required,min=1,dive"`
}

type Receipt struct {
	TransactionID string  `json:"transaction_id"`
	TotalQuantity int     `json:"total_quantity"`
	TotalPrice    float64 `json:"total_price"`
}

type OrderSummary struct {
	ID            string  `json:"id"`
	TotalQuantity int     `json:"total_quantity"`
	TotalPrice    float64 `json:"total_price"`
}

type OrderItem struct {
	BookID        string  `json:"book_id"`
	BookTitle     string  `json:"book_title"`
	Quantity      int     `json:"quantity"`
	SubtotalPrice float64 `json:"subtotal_price"`
}

type OrderDetail struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	TotalQuantity int         `json:"total_quantity"`
	TotalPrice    float64     `json:"total_price"`
}

type Statistics struct {
	TotalTransactions        int64   `json:"total_transactions"`
	AverageTransactionAmount float64 `json:"average_transaction_amount"`
	MostBookSalesGenre       string  `json:"most_book_sales_genre"`
	FewestBookSalesGenre     string  `json:"fewest_book_sales_genre"`
}

// ToPlaceOrderInput keeps lines in request order; duplicates stay separate.
func ToPlaceOrderInput(userID, idempotencyKey string, req PlaceOrderRequest) types.PlaceOrderInput {
	lines := make([]domain.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.Line{BookID: item.BookID, Quantity: item.Quantity})
	}
	return types.PlaceOrderInput{UserID: userID, Lines: lines, IdempotencyKey: idempotencyKey}
}

func FromReceipt(receipt *domain.Receipt) Receipt {
	if receipt == nil {
		return Receipt{}
	}
	return Receipt{
		TransactionID: receipt.OrderID,
		TotalQuantity: receipt.TotalQuantity,
		TotalPrice:    receipt.TotalPrice.InexactFloat64(),
	}
}

func FromOrderSummaries(orders []*orderports.OrderProjection) []OrderSummary {
	result := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		if order == nil || order.Entity == nil {
			continue
		}
		result = append(result, OrderSummary{
			ID:            order.Entity.ID,
			TotalQuantity: order.Entity.TotalQuantity(),
			TotalPrice:    order.Entity.TotalPrice().InexactFloat64(),
		})
	}
	return result
}

func FromOrderDetail(order *orderports.OrderProjection) OrderDetail {
	if order == nil || order.Entity == nil {
		return OrderDetail{Items: []OrderItem{}}
	}
	items := make([]OrderItem, 0, len(order.Entity.Items))
	for _, item := range order.Entity.Items {
		items = append(items, OrderItem{
			BookID:        item.BookID,
			BookTitle:     item.BookTitle,
			Quantity:      item.Quantity,
			SubtotalPrice: item.Subtotal().InexactFloat64(),
		})
	}
	return OrderDetail{
		ID:            order.Entity.ID,
		Items:         items,
		TotalQuantity: order.Entity.TotalQuantity(),
		TotalPrice:    order.Entity.TotalPrice().InexactFloat64(),
	}
}

func FromStatistics(stats domain.Statistics) Statistics {
	return Statistics{
		TotalTransactions:        stats.TotalTransactions,
		AverageTransactionAmount: stats.AverageTransactionAmount.InexactFloat64(),
		MostBookSalesGenre:       stats.MostBookSalesGenre,
		FewestBookSalesGenre:     stats.FewestBookSalesGenre,
	}
}
