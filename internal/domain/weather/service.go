package weather

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/weather-helloworld/internal/domain/forecast"
	"github.com/yanqian/weather-helloworld/internal/domain/places"
	apperrors "github.com/yanqian/weather-helloworld/pkg/errors"
	"github.com/yanqian/weather-helloworld/pkg/util"
)

// Service answers city weather lookups.
type Service interface {
	Lookup(ctx context.Context, req LookupRequest) (forecast.Payload, error)
}

type service struct {
	cfg     Config
	geo     GeoResolver
	fetcher SampleFetcher
	history HistoryRecorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the lookup flow.
func NewService(cfg Config, geo GeoResolver, fetcher SampleFetcher, history HistoryRecorder, logger *slog.Logger) Service {
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = DefaultUpstreamTimeout
	}
	return &service{
		cfg:     cfg,
		geo:     geo,
		fetcher: fetcher,
		history: history,
		logger:  logger.With("component", "weather.service"),
		now:     util.NowUTC,
	}
}

func (s *service) Lookup(ctx context.Context, req LookupRequest) (forecast.Payload, error) {
	city, err := places.NormalizeCity(req.City)
	if err != nil {
		return forecast.Payload{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}

	candidates, err := s.resolve(ctx, city)
	if err != nil {
		return forecast.Payload{}, classify("geocoding failed", err)
	}
	if len(candidates) == 0 {
		return forecast.Payload{}, apperrors.Wrap("city_not_found", "City not found", nil)
	}
	geo := candidates[0]

	var (
		current forecast.Current
		series  Series
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.cfg.UpstreamTimeout)
		defer cancel()
		var err error
		current, err = s.fetcher.Current(callCtx, geo.Lat, geo.Lon)
		return err
	})
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.cfg.UpstreamTimeout)
		defer cancel()
		var err error
		series, err = s.fetcher.Forecast(callCtx, geo.Lat, geo.Lon)
		return err
	})
	if err := g.Wait(); err != nil {
		return forecast.Payload{}, classify("weather fetch failed", err)
	}

	offset := forecast.ResolveOffset(series.Timezone, current.Timezone)
	views := forecast.ComputeViews(series.Samples, s.now().Unix(), offset)

	resolvedCity := firstNonEmpty(geo.Name, current.LocationName)
	resolvedCountry := firstNonEmpty(geo.Country, current.CountryCode)
	payload := forecast.AssemblePayload(current, views, resolvedCity, resolvedCountry)

	s.logger.Info("weather lookup served",
		"city", payload.City,
		"country", payload.Country,
		"hourly", len(views.Hourly),
		"daily", len(views.Daily),
		"offset", offset,
	)

	if req.UserID != 0 && s.history != nil {
		if err := s.history.Record(ctx, req.UserID, payload.City, payload.Country); err != nil {
			s.logger.Warn("search history not recorded", "userId", req.UserID, "error", err)
		}
	}
	return payload, nil
}

func (s *service) resolve(ctx context.Context, city string) ([]GeoCandidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	defer cancel()
	return s.geo.Resolve(callCtx, city)
}

func classify(message string, err error) error {
	switch {
	case isTimeout(err):
		return apperrors.Wrap("upstream_timeout", "Weather service timeout", err)
	case errors.Is(err, ErrMalformedResponse):
		return apperrors.Wrap("malformed_upstream", message, err)
	default:
		return apperrors.Wrap("upstream_unavailable", message, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
