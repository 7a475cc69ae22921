package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-helloworld/internal/domain/places"
)

// History lists the signed-in user's recent searches, newest first.
func (h *Handler) History(c *gin.Context) {
	items, err := h.placesSvc.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, gin.H{"history": items})
}

// Favorites lists the signed-in user's saved cities.
func (h *Handler) Favorites(c *gin.Context) {
	items, err := h.placesSvc.Favorites(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, gin.H{"favorites": items})
}

// AddFavorite saves a city and returns the updated list.
func (h *Handler) AddFavorite(c *gin.Context) {
	var req places.AddFavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := h.placesSvc.AddFavorite(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"favorites": items})
}

// RemoveFavorite deletes the favorite named by :id and returns what remains.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	items, err := h.placesSvc.RemoveFavorite(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": items})
}
