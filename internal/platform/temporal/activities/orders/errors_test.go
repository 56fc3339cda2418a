package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

func TestErrorCodec_RoundTripsBusinessErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"book not found", &domain.BookNotFoundError{BookID: "b1"}, domain.ErrBookNotFound},
		{"insufficient stock", &domain.InsufficientStockError{BookID: "b1", Title: "Clean Code"}, domain.ErrInsufficientStock},
		{"idempotency conflict", orderports.ErrIdempotencyConflict, orderports.ErrIdempotencyConflict},
		{"invalid order", errors.Join(orderapp.ErrInvalidInput, domain.ErrEmptyOrder), orderapp.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := DecodeError(EncodeError(tc.err))
			require.ErrorIs(t, decoded, tc.want)
		})
	}
}

func TestErrorCodec_KeepsDetails(t *testing.T) {
	decoded := DecodeError(EncodeError(&domain.BookNotFoundError{BookID: "b42"}))
	assert.Equal(t, "Book with id b42 not found.", decoded.Error())
}

func TestErrorCodec_PassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, EncodeError(plain))
	assert.Same(t, plain, DecodeError(plain))
	assert.NoError(t, DecodeError(nil))
}
