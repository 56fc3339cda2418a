package types

import "github.com/Apurer/it-literature-shop/internal/domains/orders/domain"

// PlaceOrderInput is also the Temporal activity payload, so it must stay JSON friendly.
type PlaceOrderInput struct {
	UserID         string        `json:"user_id"`
	Lines          []domain.Line `json:"items"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
}
