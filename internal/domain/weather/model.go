package weather

import (
	"context"
	"errors"
	"time"

	"github.com/yanqian/weather-helloworld/internal/domain/forecast"
)

// DefaultUpstreamTimeout bounds each provider call.
const DefaultUpstreamTimeout = 8 * time.Second

var (
	// ErrUpstreamTimeout marks a provider call that ran out of time.
	ErrUpstreamTimeout = errors.New("weather provider timeout")
	// ErrMalformedResponse marks a provider body whose top-level shape is wrong.
	ErrMalformedResponse = errors.New("malformed weather provider response")
)

// LookupRequest is one city search.
type LookupRequest struct {
	City   string
	UserID int64
}

// Config wires runtime settings for the lookup service.
type Config struct {
	UpstreamTimeout time.Duration
}

// GeoCandidate is one geocoding match.
type GeoCandidate struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}

// Series is the provider's forecast list plus the city timezone it reported.
type Series struct {
	Samples  []forecast.Sample
	Timezone *int
}

// GeoResolver turns free text into candidate locations.
type GeoResolver interface {
	Resolve(ctx context.Context, city string) ([]GeoCandidate, error)
}

// SampleFetcher loads current conditions and forecast samples for coordinates.
type SampleFetcher interface {
	Current(ctx context.Context, lat, lon float64) (forecast.Current, error)
	Forecast(ctx context.Context, lat, lon float64) (Series, error)
}

// HistoryRecorder stores a search for a signed-in user without blocking the caller.
type HistoryRecorder interface {
	Record(ctx context.Context, userID int64, city, country string) error
}
