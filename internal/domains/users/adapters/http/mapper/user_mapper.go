package mapper

import (
	"time"

	"github.com/Apurer/it-literature-shop/internal/domains/users/application/types"
	userports "github.com/Apurer/it-literature-shop/internal/domains/users/ports"
)

// RegisterRequest is the inbound registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the inbound login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Registered is returned once an account is created.
type Registered struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the authenticated user's own view of the account.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccessToken wraps an issued bearer token.
type AccessToken struct {
	Token string `json:"token"`
}

func ToRegisterInput(req RegisterRequest) types.RegisterInput {
	return types.RegisterInput{Username: req.Username, Email: req.Email, Password: req.Password}
}

func ToLoginInput(req LoginRequest) types.LoginInput {
	return types.LoginInput{Email: req.Email, Password: req.Password}
}

// FromRegistered never exposes the password hash.
func FromRegistered(user *userports.UserProjection) Registered {
	if user == nil || user.Entity == nil {
		return Registered{}
	}
	return Registered{ID: user.Entity.ID, Email: user.Entity.Email, CreatedAt: user.Metadata.CreatedAt}
}

func FromProfile(user *userports.UserProjection) Profile {
	if user == nil || user.Entity == nil {
		return Profile{}
	}
	return Profile{ID: user.Entity.ID, Username: user.Entity.Username, Email: user.Entity.Email}
}

func FromToken(token userports.Token) AccessToken {
	return AccessToken{Token: token.Value}
}
