package ports

import (
	"context"

	"github.com/Apurer/it-literature-shop/internal/domains/users/application/types"
)

// Service exposes user and authentication use cases to adapters.
type Service interface {
	Register(ctx context.Context, input types.RegisterInput) (*UserProjection, error)
	Login(ctx context.Context, input types.LoginInput) (Token, error)
	Me(ctx context.Context, userID string) (*UserProjection, error)
	Authenticate(ctx context.Context, token string) (string, error)
}
