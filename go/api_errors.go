package bookstoreserver

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	catalogapp "github.com/Apurer/it-literature-shop/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/it-literature-shop/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	orderdomain "github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
	userapp "github.com/Apurer/it-literature-shop/internal/domains/users/application"
	userdomain "github.com/Apurer/it-literature-shop/internal/domains/users/domain"
	userports "github.com/Apurer/it-literature-shop/internal/domains/users/ports"
	apierrors "github.com/Apurer/it-literature-shop/internal/shared/errors"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName reports field errors under their wire names.
func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

var responder = apierrors.NewChainedResponder(nil,
	apierrors.MapSentinel(catalogports.ErrGenreNotFound, apierrors.ErrNotFound.WithMessage("Genre not found")),
	apierrors.MapSentinel(catalogports.ErrBookNotFound, apierrors.ErrNotFound.WithMessage("Book not found")),
	apierrors.MapSentinel(catalogports.ErrDuplicateGenre, apierrors.ErrConflict.WithMessage("Genre with that name already exists")),
	apierrors.MapSentinel(catalogports.ErrDuplicateBook, apierrors.ErrConflict.WithMessage("Book with that title already exists")),
	apierrors.MapSentinel(catalogapp.ErrUnknownGenre, apierrors.ErrBadRequest.WithMessage("Invalid genre_id: Genre does not exist")),
	apierrors.MapSentinel(userports.ErrDuplicateEmail, apierrors.ErrConflict.WithMessage("Email already exists")),
	apierrors.MapSentinel(userports.ErrDuplicateUsername, apierrors.ErrConflict.WithMessage("Username already exists")),
	apierrors.MapSentinel(userports.ErrInvalidCredentials, apierrors.ErrUnauthorized.WithMessage("Invalid credentials")),
	apierrors.MapSentinel(userports.ErrUnauthorized, errInvalidToken),
	apierrors.MapSentinel(userports.ErrNotFound, apierrors.ErrNotFound.WithMessage("User not found")),
	apierrors.MapSentinel(orderports.ErrNotFound, apierrors.ErrNotFound.WithMessage("Transaction not found")),
	mapOrderRejection,
	mapInvalidInput,
)

// mapOrderRejection answers business rule failures with their own message,
// e.g. "Not enough stock for book: Clean Code.".
func mapOrderRejection(err error) (apierrors.Problem, bool) {
	var notFound *orderdomain.BookNotFoundError
	if errors.As(err, &notFound) {
		return apierrors.ErrBadRequest.WithMessage(notFound.Error()), true
	}
	var noStock *orderdomain.InsufficientStockError
	if errors.As(err, &noStock) {
		return apierrors.ErrBadRequest.WithMessage(noStock.Error()), true
	}
	switch {
	case errors.Is(err, orderdomain.ErrBookNotFound), errors.Is(err, orderdomain.ErrInsufficientStock):
		return apierrors.ErrBadRequest.WithMessage(err.Error()), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithMessage("Idempotency-Key was already used for a different request"), true
	}
	return apierrors.Problem{}, false
}

type fieldRule struct {
	target  error
	field   string
	message string
}

var invalidInputFields = []fieldRule{
	{catalogdomain.ErrEmptyGenreName, "name", "Genre name is required"},
	{catalogdomain.ErrEmptyTitle, "title", "Title is required"},
	{catalogdomain.ErrEmptyWriter, "writer", "Writer is required"},
	{catalogdomain.ErrEmptyPublisher, "publisher", "Publisher is required"},
	{catalogdomain.ErrInvalidPublicationYear, "publication_year", "Publication year must be a positive integer"},
	{catalogdomain.ErrInvalidPrice, "price", "Price must be a positive number"},
	{catalogdomain.ErrNegativeStock, "stock_quantity", "Stock quantity cannot be negative"},
	{catalogdomain.ErrMissingGenre, "genre_id", "Genre ID must be a valid UUID"},
	{catalogapp.ErrPageOutOfRange, "page", "Page must not exceed 1000000"},
	{userdomain.ErrEmptyUsername, "username", "Username is required"},
	{userdomain.ErrEmptyEmail, "email", "Email is required"},
	{userdomain.ErrInvalidEmail, "email", "Must be a valid email"},
	{userdomain.ErrEmptyPassword, "password", "Password is required"},
	{userdomain.ErrWeakPassword, "password", "Password must be at least 6 characters long"},
	{orderdomain.ErrEmptyOrder, "items", "Transaction must have at least one item"},
	{orderdomain.ErrMissingBookID, "book_id", "Book ID must be a valid UUID"},
	{orderdomain.ErrInvalidQuantity, "quantity", "Quantity must be a positive integer"},
}

// mapInvalidInput turns invariant violations raised below the transport into the
// same envelope binding failures produce.
func mapInvalidInput(err error) (apierrors.Problem, bool) {
	var sentinel error
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		sentinel = catalogapp.ErrInvalidInput
	case errors.Is(err, userapp.ErrInvalidInput):
		sentinel = userapp.ErrInvalidInput
	case errors.Is(err, orderapp.ErrInvalidInput):
		sentinel = orderapp.ErrInvalidInput
	default:
		return apierrors.Problem{}, false
	}
	for _, rule := range invalidInputFields {
		if errors.Is(err, rule.target) {
			return apierrors.ErrValidation.WithFieldError(rule.field, rule.message), true
		}
	}
	detail := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	return apierrors.ErrValidation.WithFieldError("request", detail), true
}

// bindingMessages holds client-facing messages keyed by "<field>.<tag>", falling back to
// "<field>" alone.
var bindingMessages = map[string]string{
	"name":              "Genre name is required",
	"title":             "Title is required",
	"writer":            "Writer is required",
	"publisher":         "Publisher is required",
	"publication_year":  "Publication year must be a positive integer",
	"price":             "Price is required",
	"stock_quantity":    "Stock quantity must be a non-negative integer",
	"genre_id":          "Genre ID must be a valid UUID",
	"items":             "Transaction must have at least one item",
	"book_id":           "Book ID must be a valid UUID",
	"quantity":          "Quantity must be a positive integer",
	"username":          "Username is required",
	"email.required":    "Email is required",
	"email.email":       "Must be a valid email",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters long",
	"page":              "Page must be a positive integer",
	"page.lte":          "Page must not exceed 1000000",
	"limit":             "Limit must be a positive integer",
	"min_price":         "min_price must be a number",
	"max_price":         "max_price must be a number",
}

// respondBindingError reports gin binding failures as a validation envelope.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = bindingMessage(fe)
		}
		responder.Respond(c, apierrors.NewValidationProblem(fields))
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		responder.Respond(c, apierrors.ErrValidation.WithFieldError(typeErr.Field, "Has an invalid type"))
		return
	}
	responder.Respond(c, apierrors.ErrValidation.WithFieldError("body", "Request body must be valid JSON"))
}

// fieldPath drops the struct name, keeping list indexes: "items[1].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return fe.Field()
}

func bindingMessage(fe validator.FieldError) string {
	if msg, ok := bindingMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := bindingMessages[fe.Field()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// requireUUIDParam reads a path parameter and rejects values that are not UUIDs.
func requireUUIDParam(c *gin.Context, name string) (string, bool) {
	raw := strings.TrimSpace(c.Param(name))
	if _, err := uuid.Parse(raw); err != nil {
		responder.Respond(c, apierrors.ErrValidation.WithFieldError(name, "ID must be a valid UUID"))
		return "", false
	}
	return raw, true
}

func respondNotFound(c *gin.Context, message string) {
	responder.Respond(c, apierrors.ErrNotFound.WithMessage(message))
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}
