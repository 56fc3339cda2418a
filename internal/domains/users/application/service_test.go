package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userpostgres "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/it-literature-shop/internal/domains/users/adapters/security"
	"github.com/Apurer/it-literature-shop/internal/domains/users/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/users/domain"
	"github.com/Apurer/it-literature-shop/internal/domains/users/ports"
	"github.com/Apurer/it-literature-shop/internal/platform/sqlite/sqlitetest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	issuer, err := security.NewJWTIssuer(security.JWTConfig{Secret: "test-secret", Issuer: "test", TTL: time.Hour})
	require.NoError(t, err)
	return NewService(
		userpostgres.NewRepository(sqlitetest.Open(t)),
		security.NewBcryptHasher(bcrypt.MinCost),
		issuer,
	)
}

func register(t *testing.T, svc *Service, username, email string) *ports.UserProjection {
	t.Helper()
	user, err := svc.Register(context.Background(), types.RegisterInput{Username: username, Email: email, Password: "password123"})
	require.NoError(t, err)
	return user
}

func TestRegister_HashesPassword(t *testing.T) {
	svc := newTestService(t)

	user := register(t, svc, "johndoe", "John@Example.com")
	assert.NotEmpty(t, user.Entity.ID)
	assert.Equal(t, "john@example.com", user.Entity.Email)
	assert.NotEqual(t, "password123", user.Entity.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Entity.PasswordHash), []byte("password123")))
}

func TestRegister_Duplicates(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, "johndoe", "john@example.com")

	_, err := svc.Register(context.Background(), types.RegisterInput{Username: "other", Email: "JOHN@example.com", Password: "password123"})
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)

	_, err = svc.Register(context.Background(), types.RegisterInput{Username: "johndoe", Email: "new@example.com", Password: "password123"})
	require.ErrorIs(t, err, ports.ErrDuplicateUsername)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name  string
		input types.RegisterInput
		want  error
	}{
		{"short password", types.RegisterInput{Username: "a", Email: "a@example.com", Password: "12345"}, domain.ErrWeakPassword},
		{"bad email", types.RegisterInput{Username: "a", Email: "not-an-email", Password: "123456"}, domain.ErrInvalidEmail},
		{"missing username", types.RegisterInput{Username: " ", Email: "a@example.com", Password: "123456"}, domain.ErrEmptyUsername},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	user := register(t, svc, "johndoe", "john@example.com")

	token, err := svc.Login(ctx, types.LoginInput{Email: "john@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)

	userID, err := svc.Authenticate(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.Entity.ID, userID)

	me, err := svc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", me.Entity.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	register(t, svc, "johndoe", "john@example.com")

	_, err := svc.Login(ctx, types.LoginInput{Email: "john@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(ctx, types.LoginInput{Email: "nobody@example.com", Password: "password123"})
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, ports.ErrUnauthorized)
	require.ErrorIs(t, err, security.ErrInvalidToken)
}
