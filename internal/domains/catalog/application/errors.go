package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrUnknownGenre signals a book referenced a genre that does not exist or was removed.
	ErrUnknownGenre = errors.New("invalid genre_id: genre does not exist")
	// ErrPageOutOfRange signals a listing page beyond types.MaxPage.
	ErrPageOutOfRange = errors.New("page out of range")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyGenreName) ||
		errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrEmptyWriter) ||
		errors.Is(err, domain.ErrEmptyPublisher) ||
		errors.Is(err, domain.ErrInvalidPublicationYear) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrMissingGenre) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
