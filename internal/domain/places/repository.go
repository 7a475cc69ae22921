package places

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrFavoriteExists is returned when the same city and country are already saved.
	ErrFavoriteExists = errors.New("favorite already exists")
	// ErrFavoriteNotFound is returned when no favorite matches the id.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Repository persists per-user favorites and search history.
// Lists come back in insertion order.
type Repository interface {
	ListFavorites(ctx context.Context, userID int64) ([]SavedCity, error)
	// AddFavorite fails with ErrFavoriteExists on a case-insensitive city and country match.
	AddFavorite(ctx context.Context, userID int64, fav SavedCity) error
	RemoveFavorite(ctx context.Context, userID int64, id uuid.UUID) error
	ListHistory(ctx context.Context, userID int64) ([]SavedCity, error)
	// AppendHistory adds entry and keeps only the newest limit entries, atomically.
	AppendHistory(ctx context.Context, userID int64, entry SavedCity, limit int) error
}
