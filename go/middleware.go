package bookstoreserver

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/it-literature-shop/internal/shared/errors"
)

const userIDKey = "userID"

var (
	errNoToken      = apierrors.ErrUnauthorized.WithMessage("Unauthorized: No token provided")
	errInvalidToken = apierrors.ErrUnauthorized.WithMessage("Unauthorized: Invalid token")
)

// RequireUser rejects requests without a valid bearer token and stores the caller's
// user id on the context.
func (api *AuthAPI) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			responder.Respond(c, errNoToken)
			return
		}
		userID, err := api.service.Authenticate(c.Request.Context(), token)
		if err != nil {
			responder.Respond(c, errInvalidToken)
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID is only meaningful behind RequireUser.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
