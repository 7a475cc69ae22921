package places

import (
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit caps a user's search history.
const DefaultHistoryLimit = 20

// SavedCity is a favorite or a search history entry.
type SavedCity struct {
	ID             uuid.UUID `json:"_id"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	LastSearchedAt time.Time `json:"lastSearchedAt"`
}

// AddFavoriteRequest is the payload for saving a favorite.
type AddFavoriteRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Config tunes the places service.
type Config struct {
	HistoryLimit int
}
