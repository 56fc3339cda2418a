package ports

import (
	"context"
	"errors"

	"github.com/Apurer/it-literature-shop/internal/domains/users/domain"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type UserProjection = projection.Projection[*domain.User]

type Repository interface {
	Create(ctx context.Context, user *domain.User) (*UserProjection, error)
	GetByID(ctx context.Context, id string) (*UserProjection, error)
	GetByEmail(ctx context.Context, email string) (*UserProjection, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}
