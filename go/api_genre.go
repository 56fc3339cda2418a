package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
)

// GenreAPI implements the genre endpoints.
type GenreAPI struct {
	service catalogports.Service
}

// NewGenreAPI wires dependencies.
func NewGenreAPI(service catalogports.Service) GenreAPI {
	return GenreAPI{service: service}
}

// Post /genre
// Create a genre, restoring a removed one with the same name
func (api *GenreAPI) CreateGenre(c *gin.Context) {
	var payload catalogmapper.GenreRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	genre, err := api.service.CreateGenre(c.Request.Context(), payload.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ok("Genre created successfully", catalogmapper.FromGenreCreated(genre)))
}

// Get /genre
// List active genres ordered by name
func (api *GenreAPI) ListGenres(c *gin.Context) {
	genres, err := api.service.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get all genre successfully", catalogmapper.FromGenres(genres)))
}

// Get /genre/:id
func (api *GenreAPI) GetGenre(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	genre, err := api.service.GetGenre(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get genre detail successfully", catalogmapper.FromGenre(genre)))
}

// Patch /genre/:id
func (api *GenreAPI) UpdateGenre(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	var payload catalogmapper.GenreRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	genre, err := api.service.UpdateGenre(c.Request.Context(), types.UpdateGenreInput{ID: id, Name: payload.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Genre updated successfully", catalogmapper.FromGenreUpdated(genre)))
}

// Delete /genre/:id
// Soft-delete a genre. Its books stay listed under it.
func (api *GenreAPI) DeleteGenre(c *gin.Context) {
	id, valid := requireUUIDParam(c, "id")
	if !valid {
		return
	}
	if err := api.service.DeleteGenre(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Genre removed successfully", nil))
}
