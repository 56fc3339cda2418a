package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Protected routes require a valid bearer token.
	Protected bool
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine. Middleware already
// attached to router runs before every route.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	requireUser := handleFunctions.AuthAPI.RequireUser()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := []gin.HandlerFunc{route.HandlerFunc}
		if route.Protected {
			chain = []gin.HandlerFunc{requireUser, route.HandlerFunc}
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, chain...)
		case http.MethodPost:
			router.POST(route.Pattern, chain...)
		case http.MethodPut:
			router.PUT(route.Pattern, chain...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, chain...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, chain...)
		}
	}
	router.NoRoute(func(c *gin.Context) {
		respondNotFound(c, "Route not found")
	})
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the auth part of the API
	AuthAPI AuthAPI
	// Routes for the genre part of the API
	GenreAPI GenreAPI
	// Routes for the book part of the API
	BookAPI BookAPI
	// Routes for the transaction part of the API
	TransactionAPI TransactionAPI
	// Routes for the health part of the API
	HealthAPI HealthAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"HealthCheck",
			http.MethodGet,
			"/health-check",
			false,
			handleFunctions.HealthAPI.HealthCheck,
		},
		{
			"Register",
			http.MethodPost,
			"/auth/register",
			false,
			handleFunctions.AuthAPI.Register,
		},
		{
			"Login",
			http.MethodPost,
			"/auth/login",
			false,
			handleFunctions.AuthAPI.Login,
		},
		{
			"Me",
			http.MethodGet,
			"/auth/me",
			true,
			handleFunctions.AuthAPI.Me,
		},
		{
			"CreateGenre",
			http.MethodPost,
			"/genre",
			true,
			handleFunctions.GenreAPI.CreateGenre,
		},
		{
			"ListGenres",
			http.MethodGet,
			"/genre",
			true,
			handleFunctions.GenreAPI.ListGenres,
		},
		{
			"GetGenre",
			http.MethodGet,
			"/genre/:id",
			true,
			handleFunctions.GenreAPI.GetGenre,
		},
		{
			"UpdateGenre",
			http.MethodPatch,
			"/genre/:id",
			true,
			handleFunctions.GenreAPI.UpdateGenre,
		},
		{
			"DeleteGenre",
			http.MethodDelete,
			"/genre/:id",
			true,
			handleFunctions.GenreAPI.DeleteGenre,
		},
		{
			"CreateBook",
			http.MethodPost,
			"/books",
			true,
			handleFunctions.BookAPI.CreateBook,
		},
		{
			"ListBooks",
			http.MethodGet,
			"/books",
			true,
			handleFunctions.BookAPI.ListBooks,
		},
		{
			"ListBooksByGenre",
			http.MethodGet,
			"/books/genre/:id",
			true,
			handleFunctions.BookAPI.ListBooksByGenre,
		},
		{
			"GetBook",
			http.MethodGet,
			"/books/:id",
			true,
			handleFunctions.BookAPI.GetBook,
		},
		{
			"UpdateBook",
			http.MethodPatch,
			"/books/:id",
			true,
			handleFunctions.BookAPI.UpdateBook,
		},
		{
			"DeleteBook",
			http.MethodDelete,
			"/books/:id",
			true,
			handleFunctions.BookAPI.DeleteBook,
		},
		{
			"CreateTransaction",
			http.MethodPost,
			"/transactions",
			true,
			handleFunctions.TransactionAPI.CreateTransaction,
		},
		{
			"ListTransactions",
			http.MethodGet,
			"/transactions",
			true,
			handleFunctions.TransactionAPI.ListTransactions,
		},
		{
			"GetStatistics",
			http.MethodGet,
			"/transactions/statistics",
			true,
			handleFunctions.TransactionAPI.GetStatistics,
		},
		{
			"GetTransaction",
			http.MethodGet,
			"/transactions/:id",
			true,
			handleFunctions.TransactionAPI.GetTransaction,
		},
	}
}
