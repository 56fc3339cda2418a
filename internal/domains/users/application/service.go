package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/it-literature-shop/internal/domains/users/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/users/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo   ports.Repository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
}

func NewService(repo ports.Repository, hasher ports.PasswordHasher, tokens ports.TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*ports.UserProjection, error) {
	user, err := domain.NewUser(uuid.NewString(), input.Username, input.Email)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	taken, err := s.repo.EmailTaken(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ports.ErrDuplicateEmail
	}
	taken, err = s.repo.UsernameTaken(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ports.ErrDuplicateUsername
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	return s.repo.Create(ctx, user)
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input types.LoginInput) (ports.Token, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return ports.Token{}, ports.ErrInvalidCredentials
	}
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.Token{}, ports.ErrInvalidCredentials
		}
		return ports.Token{}, err
	}
	if !s.hasher.Verify(input.Password, user.Entity.PasswordHash) {
		return ports.Token{}, ports.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Entity.ID)
}

func (s *Service) Me(ctx context.Context, userID string) (*ports.UserProjection, error) {
	return s.repo.GetByID(ctx, userID)
}

// Authenticate resolves a bearer token to its user id.
func (s *Service) Authenticate(_ context.Context, token string) (string, error) {
	userID, err := s.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrUnauthorized, err)
	}
	return userID, nil
}

var _ ports.Service = (*Service)(nil)
