package orders

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

// Application error types carried across the Temporal boundary.
const (
	ErrTypeBookNotFound        = "BookNotFound"
	ErrTypeInsufficientStock   = "InsufficientStock"
	ErrTypeIdempotencyConflict = "IdempotencyConflict"
	ErrTypeInvalidOrder        = "InvalidOrder"
)

// EncodeError turns business errors into non-retryable application errors. Anything
// else is returned unchanged.
func EncodeError(err error) error {
	var notFound *domain.BookNotFoundError
	var noStock *domain.InsufficientStockError
	switch {
	case errors.As(err, &notFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeBookNotFound, nil, notFound.BookID)
	case errors.As(err, &noStock):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, nil, noStock.BookID, noStock.Title)
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, nil)
	case errors.Is(err, orderapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidOrder, nil)
	default:
		return err
	}
}

// DecodeError maps application errors from a workflow result back to the domain
// sentinels. Unknown errors are returned unchanged.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeBookNotFound:
		var bookID string
		if appErr.HasDetails() {
			_ = appErr.Details(&bookID)
		}
		return &domain.BookNotFoundError{BookID: bookID}
	case ErrTypeInsufficientStock:
		var bookID, title string
		if appErr.HasDetails() {
			_ = appErr.Details(&bookID, &title)
		}
		return &domain.InsufficientStockError{BookID: bookID, Title: title}
	case ErrTypeIdempotencyConflict:
		return orderports.ErrIdempotencyConflict
	case ErrTypeInvalidOrder:
		return fmt.Errorf("%w: %s", orderapp.ErrInvalidInput, appErr.Message())
	default:
		return err
	}
}
