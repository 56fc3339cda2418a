//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/it-literature-shop/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

const uuidPattern = `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.message, e.status)
}

func TestFrontendContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	bearer := matchers.Regex("Bearer "+pacttest.ExampleToken, `^Bearer \S+$`)

	pact.AddInteraction().
		Given(pacttest.StateNoAccounts).
		UponReceiving("a sign-up request").
		WithRequest(http.MethodPost, "/auth/register", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleRegistration())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"message": matchers.Like("User registered successfully"),
				"data": matchers.Map{
					"id":         matchers.Regex("0d6c1a52-3b8e-4a5f-9c71-2e4b8d9f1a60", uuidPattern),
					"email":      matchers.S(pacttest.ReaderEmail),
					"created_at": matchers.Like("2025-01-01T00:00:00Z"),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateReaderExists).
		UponReceiving("a login request").
		WithRequest(http.MethodPost, "/auth/login", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleCredentials())
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"message": matchers.Like("Login successful"),
				"data": matchers.Map{
					"token": matchers.Like(pacttest.ExampleToken),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for the genre list").
		WithRequest(http.MethodGet, "/genre", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearer)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"message": matchers.Like("Get all genre successfully"),
				"data": matchers.EachLike(matchers.Map{
					"id":   matchers.Regex("7f3a5c10-2d4e-4b6a-8c9d-0e1f2a3b4c5d", uuidPattern),
					"name": matchers.Like("Database"),
				}, 2),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateStockedBook).
		UponReceiving("a purchase of two copies").
		WithRequest(http.MethodPost, "/transactions", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearer)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{
				"items": []map[string]any{{"book_id": pacttest.StockedBookID, "quantity": 2}},
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"message": matchers.Like("Transaction created successfully"),
				"data": matchers.Map{
					"transaction_id": matchers.Regex("3e1d2c4b-5a69-4788-9a0b-1c2d3e4f5a6b", uuidPattern),
					"total_quantity": matchers.Like(2),
					"total_price":    matchers.Like(2 * pacttest.StockedBookPrice),
				},
			})
		})

	pact.AddInteraction().
		UponReceiving("a catalog request without a token").
		WithRequest(http.MethodGet, "/books").
		WillRespondWith(http.StatusUnauthorized, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(false),
				"message": matchers.S("Unauthorized: No token provided"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newShopClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := client.call(ctx, http.MethodPost, "/auth/register", "", pacttest.ExampleRegistration()); err != nil {
			return fmt.Errorf("register: %w", err)
		}

		var login struct {
			Token string `json:"token"`
		}
		data, err := client.call(ctx, http.MethodPost, "/auth/login", "", pacttest.ExampleCredentials())
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := json.Unmarshal(data, &login); err != nil || login.Token == "" {
			return fmt.Errorf("expected a token, got %s", data)
		}

		var genres []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		data, err = client.call(ctx, http.MethodGet, "/genre", login.Token, nil)
		if err != nil {
			return fmt.Errorf("list genres: %w", err)
		}
		if err := json.Unmarshal(data, &genres); err != nil || len(genres) == 0 {
			return fmt.Errorf("expected genres, got %s", data)
		}

		var receipt struct {
			TransactionID string  `json:"transaction_id"`
			TotalQuantity int     `json:"total_quantity"`
			TotalPrice    float64 `json:"total_price"`
		}
		order := map[string]any{"items": []map[string]any{{"book_id": pacttest.StockedBookID, "quantity": 2}}}
		data, err = client.call(ctx, http.MethodPost, "/transactions", login.Token, order)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if err := json.Unmarshal(data, &receipt); err != nil || receipt.TransactionID == "" {
			return fmt.Errorf("expected a receipt, got %s", data)
		}

		if _, err := client.call(ctx, http.MethodGet, "/books", "", nil); err == nil {
			return fmt.Errorf("expected 401 without a token")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusUnauthorized {
			return fmt.Errorf("expected 401, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type shopClient struct {
	baseURL    string
	httpClient *http.Client
}

func newShopClient(config pactconsumer.MockServerConfig) *shopClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &shopClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

// call returns the envelope's data field, or an apiError for non-2xx answers.
func (c *shopClient) call(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, apiError{status: res.StatusCode, message: env.Message}
	}
	return env.Data, nil
}
