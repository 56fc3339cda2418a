package bookstoreserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/it-literature-shop/internal/shared/errors"
)

// HealthAPI reports liveness. When a pinger is set the database must answer too.
type HealthAPI struct {
	ping func(ctx context.Context) error
	now  func() time.Time
}

// NewHealthAPI wires dependencies. ping may be nil.
func NewHealthAPI(ping func(ctx context.Context) error) HealthAPI {
	return HealthAPI{ping: ping, now: time.Now}
}

// Get /health-check
func (api *HealthAPI) HealthCheck(c *gin.Context) {
	if api.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := api.ping(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", slog.String("error", err.Error()))
			responder.Respond(c, apierrors.Problem{Status: http.StatusServiceUnavailable, Message: "Database error"})
			return
		}
	}
	now := time.Now
	if api.now != nil {
		now = api.now
	}
	c.JSON(http.StatusOK, HealthStatus{
		Success: true,
		Message: "Server is healthy and running!",
		Date:    now().UTC(),
	})
}
