package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/it-literature-shop/internal/domains/users/ports"
)

// AuthAPI implements registration, login and the bearer token gate.
type AuthAPI struct {
	service userports.Service
}

// NewAuthAPI wires dependencies.
func NewAuthAPI(service userports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /auth/register
// Register a new account
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ok("User registered successfully", userhttpmapper.FromRegistered(user)))
}

// Post /auth/login
// Exchange credentials for a bearer token
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), userhttpmapper.ToLoginInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Login successful", userhttpmapper.FromToken(token)))
}

// Get /auth/me
// Profile of the authenticated user
func (api *AuthAPI) Me(c *gin.Context) {
	user, err := api.service.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok("Get me successfully", userhttpmapper.FromProfile(user)))
}
