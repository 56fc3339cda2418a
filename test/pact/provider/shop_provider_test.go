//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/it-literature-shop/test/pact"

	bookstoreserver "github.com/Apurer/it-literature-shop/go"
	catalogpostgres "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/it-literature-shop/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	orderpostgres "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	userpostgres "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/it-literature-shop/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/it-literature-shop/internal/domains/users/application"
	usertypes "github.com/Apurer/it-literature-shop/internal/domains/users/application/types"
	"github.com/Apurer/it-literature-shop/internal/platform/sqlite/sqlitetest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestShopProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateNoAccounts: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateReaderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.signIn(t)
			}
			return nil, nil
		},
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.signIn(t)
				app.genre(t, "Programming")
				app.genre(t, "Database")
			}
			return nil, nil
		},
		pacttest.StateStockedBook: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.signIn(t)
				app.stockedBook(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		RequestFilter:   app.swapToken,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	db      *gorm.DB
	users   *userapp.Service
	catalog *catalogapp.Service
	server  *httptest.Server

	mu      sync.Mutex
	token   string
	pending []string
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{db: sqlitetest.Open(t)}

	issuer, err := security.NewJWTIssuer(security.JWTConfig{Secret: "pact-secret", Issuer: pacttest.ProviderName, TTL: time.Hour})
	require.NoError(t, err)
	app.users = userapp.NewService(userpostgres.NewRepository(app.db), security.NewBcryptHasher(bcrypt.MinCost), issuer)
	app.catalog = catalogapp.NewService(
		catalogpostgres.NewGenreRepository(app.db),
		catalogpostgres.NewBookRepository(app.db),
		catalogapp.WithIDGenerator(app.nextID),
	)
	orders := orderapp.NewService(orderpostgres.NewStore(app.db))

	handlers := bookstoreserver.ApiHandleFunctions{
		AuthAPI:        bookstoreserver.NewAuthAPI(app.users),
		GenreAPI:       bookstoreserver.NewGenreAPI(app.catalog),
		BookAPI:        bookstoreserver.NewBookAPI(app.catalog),
		TransactionAPI: bookstoreserver.NewTransactionAPI(orders, orderworkflows.NewInlineOrderWorkflows(orders)),
		HealthAPI:      bookstoreserver.NewHealthAPI(nil),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = bookstoreserver.NewRouterWithGinEngine(router, handlers)

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

// nextID hands out ids queued by a provider state before falling back to random ones.
func (a *contractProviderApp) nextID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) == 0 {
		return uuid.NewString()
	}
	id := a.pending[0]
	a.pending = a.pending[1:]
	return id
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	for _, table := range []string{"order_items", "orders", "order_idempotency_keys", "books", "genres", "users"} {
		require.NoError(t, a.db.Exec("DELETE FROM "+table).Error)
	}
	a.mu.Lock()
	a.token = ""
	a.pending = nil
	a.mu.Unlock()
}

func (a *contractProviderApp) signIn(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	_, err := a.users.Register(ctx, usertypes.RegisterInput{Username: pacttest.ReaderUsername, Email: pacttest.ReaderEmail, Password: pacttest.ReaderPassword})
	require.NoError(t, err)
	token, err := a.users.Login(ctx, usertypes.LoginInput{Email: pacttest.ReaderEmail, Password: pacttest.ReaderPassword})
	require.NoError(t, err)
	a.mu.Lock()
	a.token = token.Value
	a.mu.Unlock()
}

func (a *contractProviderApp) genre(t testing.TB, name string) string {
	t.Helper()
	genre, err := a.catalog.CreateGenre(context.Background(), name)
	require.NoError(t, err)
	return genre.Entity.ID
}

func (a *contractProviderApp) stockedBook(t testing.TB) {
	t.Helper()
	genreID := a.genre(t, "Programming")
	a.mu.Lock()
	a.pending = append(a.pending, pacttest.StockedBookID)
	a.mu.Unlock()
	_, err := a.catalog.CreateBook(context.Background(), catalogtypes.CreateBookInput{
		Title:           pacttest.StockedBookTitle,
		Writer:          "Robert C. Martin",
		Publisher:       "Prentice Hall",
		PublicationYear: 2008,
		Price:           decimal.NewFromFloat(pacttest.StockedBookPrice),
		StockQuantity:   10,
		GenreID:         genreID,
	})
	require.NoError(t, err)
}

// swapToken replaces the consumer's placeholder bearer token with one the provider issued.
func (a *contractProviderApp) swapToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			a.mu.Lock()
			token := a.token
			a.mu.Unlock()
			r.Header.Set("Authorization", "Bearer "+token)
		}
		next.ServeHTTP(w, r)
	})
}
