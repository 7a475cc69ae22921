package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-helloworld/internal/domain/auth"
	"github.com/yanqian/weather-helloworld/internal/domain/places"
	"github.com/yanqian/weather-helloworld/internal/domain/weather"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc    auth.Service
	weatherSvc weather.Service
	placesSvc  places.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, weatherSvc weather.Service, placesSvc places.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc:    authSvc,
		weatherSvc: weatherSvc,
		placesSvc:  placesSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes the body into dst and aborts the request on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", err))
		return false
	}
	abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid JSON body", err))
	return false
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
