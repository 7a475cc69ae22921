package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-helloworld/internal/domain/weather"
)

// Weather answers GET /api/weather?city=. Signed-in callers also get the search recorded.
func (h *Handler) Weather(c *gin.Context) {
	payload, err := h.weatherSvc.Lookup(c.Request.Context(), weather.LookupRequest{
		City:   c.Query("city"),
		UserID: currentUserID(c),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
