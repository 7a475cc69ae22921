package placesrepo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-helloworld/internal/domain/places"
)

func TestMemoryRepository_FavoritesCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.AddFavorite(ctx, 1, places.SavedCity{ID: uuid.New(), City: "Paris", Country: "FR"}))
	require.ErrorIs(t, repo.AddFavorite(ctx, 1, places.SavedCity{ID: uuid.New(), City: "PARIS", Country: "fr"}), places.ErrFavoriteExists)
	require.NoError(t, repo.AddFavorite(ctx, 1, places.SavedCity{ID: uuid.New(), City: "Paris", Country: "US"}))
	require.NoError(t, repo.AddFavorite(ctx, 2, places.SavedCity{ID: uuid.New(), City: "Paris", Country: "FR"}))

	favs, err := repo.ListFavorites(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favs, 2)

	require.NoError(t, repo.RemoveFavorite(ctx, 1, favs[0].ID))
	require.ErrorIs(t, repo.RemoveFavorite(ctx, 1, favs[0].ID), places.ErrFavoriteNotFound)

	favs, err = repo.ListFavorites(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, "US", favs[0].Country)
}

func TestMemoryRepository_HistoryKeepsNewest(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.AppendHistory(ctx, 9, places.SavedCity{ID: uuid.New(), City: fmt.Sprintf("c%d", i)}, 20)
		}(i)
	}
	wg.Wait()

	history, err := repo.ListHistory(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history, 20)

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.AppendHistory(ctx, 9, places.SavedCity{ID: uuid.New(), City: fmt.Sprintf("s%d", i)}, 20))
	}
	history, err = repo.ListHistory(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history, 20)
	require.Equal(t, "s5", history[0].City)
	require.Equal(t, "s24", history[19].City)
}
