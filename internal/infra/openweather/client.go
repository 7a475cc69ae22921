package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/yanqian/weather-helloworld/internal/domain/forecast"
	"github.com/yanqian/weather-helloworld/internal/domain/weather"
	"github.com/yanqian/weather-helloworld/pkg/metrics"
)

const (
	defaultBaseURL  = "https://api.openweathermap.org"
	defaultUnits    = "metric"
	defaultGeoLimit = 5

	geoPath      = "/geo/1.0/direct"
	currentPath  = "/data/2.5/weather"
	forecastPath = "/data/2.5/forecast"

	maxBodyBytes = 1 << 20
)

var (
	errServerError = errors.New("server error")
	errRateLimited = errors.New("rate limited")
	errMissingKey  = errors.New("openweather api key is not configured")
	errCircuitOpen = errors.New("circuit breaker open")
)

// Config configures the OpenWeatherMap client.
type Config struct {
	APIKey   string
	BaseURL  string
	Units    string
	GeoLimit int
	// RequestsPerSecond paces outgoing calls; zero disables pacing.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client talks to the geocoding, current weather and 5 day forecast endpoints.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewClient builds an API client.
func NewClient(cfg Config, m *metrics.Metrics, logger *slog.Logger) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if cfg.Units == "" {
		cfg.Units = defaultUnits
	}
	if cfg.GeoLimit <= 0 {
		cfg.GeoLimit = defaultGeoLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	log := logger.With("component", "openweather.client")
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		// a caller giving up says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		limiter:    limiter,
		metrics:    m,
		logger:     log,
	}
}

// Resolve geocodes a free-text city name.
func (c *Client) Resolve(ctx context.Context, city string) ([]weather.GeoCandidate, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", strconv.Itoa(c.cfg.GeoLimit))
	body, err := c.get(ctx, "geo", geoPath, params)
	if err != nil {
		return nil, err
	}
	return decodeGeo(body)
}

// Current loads current conditions for coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (forecast.Current, error) {
	body, err := c.get(ctx, "current", currentPath, c.coordParams(lat, lon))
	if err != nil {
		return forecast.Current{}, err
	}
	return decodeCurrent(body)
}

// Forecast loads the 3-hour forecast list for coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (weather.Series, error) {
	body, err := c.get(ctx, "forecast", forecastPath, c.coordParams(lat, lon))
	if err != nil {
		return weather.Series{}, err
	}
	return decodeForecast(body)
}

func (c *Client) coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", c.cfg.Units)
	return params
}

type response struct {
	status int
	body   []byte
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, errMissingKey
	}
	started := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.ObserveUpstream(endpoint, metrics.OutcomeTimeout, time.Since(started))
			return nil, fmt.Errorf("%s rate limit wait: %w: %w", endpoint, weather.ErrUpstreamTimeout, err)
		}
	}

	params.Set("appid", c.cfg.APIKey)
	endpointURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build %s request: %w", endpoint, err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", endpoint, err)
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: status=%d", errRateLimited, resp.StatusCode)
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: status=%d", errServerError, resp.StatusCode)
		}
		return response{status: resp.StatusCode, body: body}, nil
	})
	elapsed := time.Since(started)
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			c.metrics.ObserveUpstream(endpoint, metrics.OutcomeCircuitOpen, elapsed)
			return nil, fmt.Errorf("%s request: %w: %v", endpoint, errCircuitOpen, err)
		case isTimeout(err):
			c.metrics.ObserveUpstream(endpoint, metrics.OutcomeTimeout, elapsed)
			return nil, fmt.Errorf("%s request: %w: %w", endpoint, weather.ErrUpstreamTimeout, err)
		default:
			c.metrics.ObserveUpstream(endpoint, metrics.OutcomeError, elapsed)
			return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
		}
	}

	resp := result.(response)
	if resp.status < 200 || resp.status >= 300 {
		c.metrics.ObserveUpstream(endpoint, metrics.OutcomeError, elapsed)
		snippet := resp.body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, fmt.Errorf("%s request error: status=%d body=%s", endpoint, resp.status, string(snippet))
	}
	c.metrics.ObserveUpstream(endpoint, metrics.OutcomeOK, elapsed)
	c.logger.Debug("openweather call", "endpoint", endpoint, "elapsed", elapsed)
	return resp.body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
