package placesrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/weather-helloworld/internal/domain/places"
)

// MemoryRepository keeps favorites and history in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	favorites map[int64][]places.SavedCity
	history   map[int64][]places.SavedCity
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		favorites: make(map[int64][]places.SavedCity),
		history:   make(map[int64][]places.SavedCity),
	}
}

func (r *MemoryRepository) ListFavorites(_ context.Context, userID int64) ([]places.SavedCity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.favorites[userID]), nil
}

func (r *MemoryRepository) AddFavorite(_ context.Context, userID int64, fav places.SavedCity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.favorites[userID] {
		if strings.EqualFold(existing.City, fav.City) && strings.EqualFold(existing.Country, fav.Country) {
			return places.ErrFavoriteExists
		}
	}
	r.favorites[userID] = append(r.favorites[userID], fav)
	return nil
}

func (r *MemoryRepository) RemoveFavorite(_ context.Context, userID int64, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	favs := r.favorites[userID]
	for i, fav := range favs {
		if fav.ID == id {
			r.favorites[userID] = append(favs[:i:i], favs[i+1:]...)
			return nil
		}
	}
	return places.ErrFavoriteNotFound
}

func (r *MemoryRepository) ListHistory(_ context.Context, userID int64) ([]places.SavedCity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.history[userID]), nil
}

func (r *MemoryRepository) AppendHistory(_ context.Context, userID int64, entry places.SavedCity, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := append(r.history[userID], entry)
	if limit > 0 && len(entries) > limit {
		entries = clone(entries[len(entries)-limit:])
	}
	r.history[userID] = entries
	return nil
}

func clone(items []places.SavedCity) []places.SavedCity {
	out := make([]places.SavedCity, len(items))
	copy(out, items)
	return out
}

var _ places.Repository = (*MemoryRepository)(nil)
