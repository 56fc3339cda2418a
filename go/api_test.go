package bookstoreserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	catalogpostgres "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/it-literature-shop/internal/domains/catalog/application"
	orderpostgres "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	userpostgres "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/it-literature-shop/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/it-literature-shop/internal/domains/users/application"
	"github.com/Apurer/it-literature-shop/internal/platform/sqlite/sqlitetest"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := sqlitetest.Open(t)

	issuer, err := security.NewJWTIssuer(security.JWTConfig{Secret: "http-test-secret", Issuer: "test", TTL: time.Hour})
	require.NoError(t, err)
	users := userapp.NewService(userpostgres.NewRepository(db), security.NewBcryptHasher(bcrypt.MinCost), issuer)
	catalog := catalogapp.NewService(catalogpostgres.NewGenreRepository(db), catalogpostgres.NewBookRepository(db))
	orders := orderapp.NewService(orderpostgres.NewStore(db))

	handlers := ApiHandleFunctions{
		AuthAPI:        NewAuthAPI(users),
		GenreAPI:       NewGenreAPI(catalog),
		BookAPI:        NewBookAPI(catalog),
		TransactionAPI: NewTransactionAPI(orders, orderworkflows.NewInlineOrderWorkflows(orders)),
		HealthAPI:      NewHealthAPI(nil),
	}
	return &testServer{t: t, router: NewRouterWithGinEngine(gin.New(), handlers)}
}

func (s *testServer) do(method, path string, body any, headers ...string) (int, map[string]any) {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec.Code, decoded
}

// login registers a fresh account and keeps its token for later requests.
func (s *testServer) login() {
	s.t.Helper()
	code, _ := s.do(http.MethodPost, "/auth/register", gin.H{"username": "reader", "email": "reader@example.com", "password": "password123"})
	require.Equal(s.t, http.StatusCreated, code)
	code, body := s.do(http.MethodPost, "/auth/login", gin.H{"email": "reader@example.com", "password": "password123"})
	require.Equal(s.t, http.StatusOK, code)
	s.token = body["data"].(map[string]any)["token"].(string)
}

func (s *testServer) createID(path string, payload any) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, path, payload)
	require.Equal(s.t, http.StatusCreated, code, body)
	return body["data"].(map[string]any)["id"].(string)
}

func fieldErrors(body map[string]any) map[string]any {
	errs, _ := body["errors"].(map[string]any)
	return errs
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	code, body := srv.do(http.MethodGet, "/health-check", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Server is healthy and running!", body["message"])
	assert.NotEmpty(t, body["date"])
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	code, body := srv.do(http.MethodPost, "/auth/register", gin.H{"username": "johndoe", "email": "John@Example.com", "password": "password123"})
	require.Equal(t, http.StatusCreated, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "john@example.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")

	t.Run("duplicate email", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/auth/register", gin.H{"username": "other", "email": "john@example.com", "password": "password123"})
		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("validation", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/auth/register", gin.H{"username": "x", "email": "not-an-email", "password": "123"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Validation error", body["message"])
		errs := fieldErrors(body)
		assert.Equal(t, "Must be a valid email", errs["email"])
		assert.Equal(t, "Password must be at least 6 characters long", errs["password"])
	})

	t.Run("wrong password", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/auth/login", gin.H{"email": "john@example.com", "password": "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Invalid credentials", body["message"])
	})

	code, body = srv.do(http.MethodPost, "/auth/login", gin.H{"email": "john@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	srv.token = body["data"].(map[string]any)["token"].(string)

	code, body = srv.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "johndoe", body["data"].(map[string]any)["username"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	code, body := srv.do(http.MethodGet, "/genre", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized: No token provided", body["message"])

	code, body = srv.do(http.MethodGet, "/genre", nil, "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized: Invalid token", body["message"])
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.login()

	genreID := srv.createID("/genre", gin.H{"name": "Programming"})
	code, _ := srv.do(http.MethodPost, "/genre", gin.H{"name": "programming"})
	assert.Equal(t, http.StatusConflict, code)

	bookID := srv.createID("/books", gin.H{
		"title": "Clean Code", "writer": "Robert C. Martin", "publisher": "Prentice Hall",
		"publication_year": 2008, "price": 45.5, "stock_quantity": 10, "genre_id": genreID,
	})

	t.Run("book validation", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/books", gin.H{"title": "", "genre_id": "nope"})
		assert.Equal(t, http.StatusBadRequest, code)
		errs := fieldErrors(body)
		assert.Equal(t, "Title is required", errs["title"])
		assert.Equal(t, "Genre ID must be a valid UUID", errs["genre_id"])
		assert.Equal(t, "Price is required", errs["price"])
	})

	t.Run("unknown genre", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/books", gin.H{
			"title": "Refactoring", "writer": "Martin Fowler", "publisher": "Addison-Wesley",
			"publication_year": 1999, "price": 40, "stock_quantity": 1, "genre_id": "3c2d6f0e-0000-4000-8000-000000000000",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid genre_id: Genre does not exist", body["message"])
	})

	t.Run("list with pagination", func(t *testing.T) {
		code, body := srv.do(http.MethodGet, "/books?search=clean&limit=5", nil)
		require.Equal(t, http.StatusOK, code)
		items := body["data"].([]any)
		require.Len(t, items, 1)
		book := items[0].(map[string]any)
		assert.Equal(t, 45.5, book["price"])
		assert.Equal(t, "Programming", book["genre"])
		pagination := body["pagination"].(map[string]any)
		assert.EqualValues(t, 1, pagination["total"])
		assert.EqualValues(t, 5, pagination["limit"])
	})

	t.Run("page beyond range", func(t *testing.T) {
		code, body := srv.do(http.MethodGet, "/books?page=9223372036854775807", nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Page must not exceed 1000000", fieldErrors(body)["page"])
	})

	t.Run("list by genre", func(t *testing.T) {
		code, body := srv.do(http.MethodGet, "/books/genre/"+genreID, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["data"].([]any), 1)
	})

	t.Run("patch stock", func(t *testing.T) {
		code, body := srv.do(http.MethodPatch, "/books/"+bookID, gin.H{"stock_quantity": 3})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Clean Code", body["data"].(map[string]any)["title"])

		code, body = srv.do(http.MethodGet, "/books/"+bookID, nil)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 3, body["data"].(map[string]any)["stock_quantity"])
	})

	t.Run("malformed id", func(t *testing.T) {
		code, _ := srv.do(http.MethodGet, "/books/42", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("delete genre keeps books", func(t *testing.T) {
		code, _ := srv.do(http.MethodDelete, "/genre/"+genreID, nil)
		require.Equal(t, http.StatusOK, code)
		code, body := srv.do(http.MethodGet, "/genre/"+genreID, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Genre not found", body["message"])

		code, body = srv.do(http.MethodGet, "/books/"+bookID, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Programming", body["data"].(map[string]any)["genre"])
	})

	t.Run("deleted book is gone", func(t *testing.T) {
		code, _ := srv.do(http.MethodDelete, "/books/"+bookID, nil)
		require.Equal(t, http.StatusOK, code)
		code, body := srv.do(http.MethodGet, "/books/"+bookID, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Book not found", body["message"])
	})
}

func TestTransactionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.login()

	genreID := srv.createID("/genre", gin.H{"name": "Programming"})
	bookID := srv.createID("/books", gin.H{
		"title": "Clean Code", "writer": "Robert C. Martin", "publisher": "Prentice Hall",
		"publication_year": 2008, "price": 45.5, "stock_quantity": 3, "genre_id": genreID,
	})

	code, body := srv.do(http.MethodPost, "/transactions", gin.H{"items": []gin.H{{"book_id": bookID, "quantity": 2}}})
	require.Equal(t, http.StatusCreated, code, body)
	receipt := body["data"].(map[string]any)
	orderID := receipt["transaction_id"].(string)
	assert.EqualValues(t, 2, receipt["total_quantity"])
	assert.Equal(t, 91.0, receipt["total_price"])

	t.Run("insufficient stock", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/transactions", gin.H{"items": []gin.H{{"book_id": bookID, "quantity": 2}}})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Not enough stock for book: Clean Code.", body["message"])
	})

	t.Run("unknown book", func(t *testing.T) {
		missing := "9b9d6f0e-0000-4000-8000-000000000000"
		code, body := srv.do(http.MethodPost, "/transactions", gin.H{"items": []gin.H{{"book_id": missing, "quantity": 1}}})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Book with id "+missing+" not found.", body["message"])
	})

	t.Run("validation", func(t *testing.T) {
		code, body := srv.do(http.MethodPost, "/transactions", gin.H{"items": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Transaction must have at least one item", fieldErrors(body)["items"])

		code, body = srv.do(http.MethodPost, "/transactions", gin.H{"items": []gin.H{{"book_id": bookID, "quantity": 0}}})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Quantity must be a positive integer", fieldErrors(body)["items[0].quantity"])
	})

	t.Run("idempotent retry", func(t *testing.T) {
		payload := gin.H{"items": []gin.H{{"book_id": bookID, "quantity": 1}}}
		code, first := srv.do(http.MethodPost, "/transactions", payload, IdempotencyKeyHeader, "retry-1")
		require.Equal(t, http.StatusCreated, code, first)
		code, second := srv.do(http.MethodPost, "/transactions", payload, IdempotencyKeyHeader, "retry-1")
		require.Equal(t, http.StatusCreated, code, second)
		assert.Equal(t, first["data"].(map[string]any)["transaction_id"], second["data"].(map[string]any)["transaction_id"])

		code, _ = srv.do(http.MethodPost, "/transactions", gin.H{"items": []gin.H{{"book_id": bookID, "quantity": 5}}}, IdempotencyKeyHeader, "retry-1")
		assert.Equal(t, http.StatusConflict, code)
	})

	code, body = srv.do(http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].([]any), 2)

	code, body = srv.do(http.MethodGet, "/transactions/"+orderID, nil)
	require.Equal(t, http.StatusOK, code)
	detail := body["data"].(map[string]any)
	items := detail["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Clean Code", items[0].(map[string]any)["book_title"])
	assert.Equal(t, 91.0, items[0].(map[string]any)["subtotal_price"])

	code, _ = srv.do(http.MethodGet, "/transactions/7c7d6f0e-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = srv.do(http.MethodGet, "/transactions/statistics", nil)
	require.Equal(t, http.StatusOK, code)
	stats := body["data"].(map[string]any)
	assert.EqualValues(t, 2, stats["total_transactions"])
	assert.Equal(t, 68.25, stats["average_transaction_amount"])
	assert.Equal(t, "Programming", stats["most_book_sales_genre"])
	assert.Equal(t, "Programming", stats["fewest_book_sales_genre"])
}
