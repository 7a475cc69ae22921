package places

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/weather-helloworld/pkg/errors"
	"github.com/yanqian/weather-helloworld/pkg/util"
)

// Service manages favorites and search history for authenticated users.
type Service interface {
	Favorites(ctx context.Context, userID int64) ([]SavedCity, error)
	AddFavorite(ctx context.Context, userID int64, req AddFavoriteRequest) ([]SavedCity, error)
	RemoveFavorite(ctx context.Context, userID int64, id string) ([]SavedCity, error)
	History(ctx context.Context, userID int64) ([]SavedCity, error)
	RecordSearch(ctx context.Context, userID int64, city, country string) error
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewService wires the places domain.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "places.service"),
		now:    util.NowUTC,
		newID:  uuid.New,
	}
}

func (s *service) Favorites(ctx context.Context, userID int64) ([]SavedCity, error) {
	favs, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("places_error", "failed to load favorites", err)
	}
	return nonNil(favs), nil
}

func (s *service) AddFavorite(ctx context.Context, userID int64, req AddFavoriteRequest) ([]SavedCity, error) {
	city, err := NormalizeCity(req.City)
	if err != nil {
		return nil, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	country, err := normalizeCountry(req.Country)
	if err != nil {
		return nil, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	fav := SavedCity{
		ID:             s.newID(),
		City:           city,
		Country:        country,
		LastSearchedAt: s.now(),
	}
	if err := s.repo.AddFavorite(ctx, userID, fav); err != nil {
		if errors.Is(err, ErrFavoriteExists) {
			return nil, apperrors.Wrap("favorite_exists", "City already in favorites", err)
		}
		return nil, apperrors.Wrap("places_error", "failed to save favorite", err)
	}
	s.logger.Info("favorite added", "userId", userID, "city", city, "country", country)
	return s.Favorites(ctx, userID)
}

func (s *service) RemoveFavorite(ctx context.Context, userID int64, id string) ([]SavedCity, error) {
	favID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.Wrap("invalid_input", "Invalid favorite id", err)
	}
	if err := s.repo.RemoveFavorite(ctx, userID, favID); err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			return nil, apperrors.Wrap("favorite_not_found", "Favorite not found", err)
		}
		return nil, apperrors.Wrap("places_error", "failed to remove favorite", err)
	}
	return s.Favorites(ctx, userID)
}

func (s *service) History(ctx context.Context, userID int64) ([]SavedCity, error) {
	history, err := s.repo.ListHistory(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("places_error", "failed to load history", err)
	}
	return nonNil(history), nil
}

func (s *service) RecordSearch(ctx context.Context, userID int64, city, country string) error {
	if userID == 0 {
		return apperrors.Wrap("invalid_input", "user id is required", nil)
	}
	entry := SavedCity{
		ID:             s.newID(),
		City:           city,
		Country:        country,
		LastSearchedAt: s.now(),
	}
	if err := s.repo.AppendHistory(ctx, userID, entry, s.cfg.HistoryLimit); err != nil {
		return apperrors.Wrap("places_error", "failed to record search", err)
	}
	return nil
}

func nonNil(items []SavedCity) []SavedCity {
	if items == nil {
		return []SavedCity{}
	}
	return items
}
