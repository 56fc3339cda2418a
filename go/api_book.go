package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/it-literature-shop/internal/shared/errors"
)

// BookAPI implements the book endpoints.
type BookAPI struct {
	service catalogports.Service
}

// NewBookAPI wires dependencies.
func NewBookAPI(service catalogports.Service) BookAPI {
	return BookAPI{service: service}
}

// Post /books
// Add a book to the catalog
func (api *BookAPI) CreateBook(c *gin.Context) {
	var payload catalogmapper.CreateBookRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	book, err := api.service.CreateBook(c.Request.Context(), catalogmapper.ToCreateBookInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ok("Book added successfully", catalogmapper.FromBookCreated(book)))
}

// Get /books
// Search, filter and paginate active books
func (api *BookAPI) ListBooks(c *gin.Context) {
	query, bound := bindListQuery(c)
	if !bound {
		return
	}
	input, err := catalogmapper.ToListBooksInput(query)
	if err != nil {
		responder.Respond(c, apierrors.ErrValidation.WithMessage(err.Error()))
		return
	}
	page, err := api.service.ListBooks(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	items, pagination := catalogmapper.FromBookPage(page)
	c.JSON(http.StatusOK, Envelope{Success: true, Message: "Get all book successfully", Data: items, Pagination: &pagination})
}

// Get /books/genre/:id
// Books of one genre; an unknown genre yields an empty page
func (api *BookAPI) ListBooksByGenre(c *gin.Context) {
	genreID, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	query, bound := bindListQuery(c)
	if !bound {
		return
	}
	input, err := catalogmapper.ToListBooksInput(query)
	if err != nil {
		responder.Respond(c, apierrors.ErrValidation.WithMessage(err.Error()))
		return
	}
	page, err := api.service.ListBooksByGenre(c.Request.Context(), genreID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	items, pagination := catalogmapper.FromBookPage(page)
	c.JSON(http.StatusOK, Envelope{Success: true, Message: "Get all book by genre successfully", Data: items, Pagination: &pagination})
}

// Get /books/:id
func (api *BookAPI) GetBook(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	book, err := api.service.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get book detail successfully", catalogmapper.FromBookDetail(book)))
}

// Patch /books/:id
// Update description, price or stock
func (api *BookAPI) UpdateBook(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	var payload catalogmapper.UpdateBookRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	book, err := api.service.UpdateBook(c.Request.Context(), catalogmapper.ToUpdateBookInput(id, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Book updated successfully", catalogmapper.FromBookUpdated(book)))
}

// Delete /books/:id
func (api *BookAPI) DeleteBook(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	if err := api.service.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Book removed successfully", nil))
}

func bindListQuery(c *gin.Context) (catalogmapper.ListBooksQuery, bool) {
	var query catalogmapper.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return query, false
	}
	return query, true
}
