package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-helloworld/internal/domain/weather"
	"github.com/yanqian/weather-helloworld/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	m := metrics.New()
	client := NewClient(Config{APIKey: "key", BaseURL: srv.URL}, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return client, m
}

func TestResolveSendsQueryAndDecodes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, geoPath, r.URL.Path)
		require.Equal(t, "San Jose", r.URL.Query().Get("q"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Equal(t, "key", r.URL.Query().Get("appid"))
		_, _ = w.Write([]byte(`[{"name":"San Jose","country":"US","lat":37.33,"lon":-121.89},{"name":"San José","country":"CR","lat":9.93,"lon":-84.08}]`))
	})

	candidates, err := client.Resolve(context.Background(), "San Jose")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, weather.GeoCandidate{Name: "San Jose", Country: "US", Lat: 37.33, Lon: -121.89}, candidates[0])
}

func TestCurrentKeepsAbsentFieldsAbsent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, currentPath, r.URL.Path)
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		require.Equal(t, "51.5", r.URL.Query().Get("lat"))
		_, _ = w.Write([]byte(`{"name":"London","timezone":3600,"main":{"temp":11.3,"humidity":0},"sys":{"country":"GB","sunrise":1714537200},"weather":[{"description":"mist","icon":"50d"}]}`))
	})

	current, err := client.Current(context.Background(), 51.5, -0.12)
	require.NoError(t, err)
	require.Equal(t, 11.3, *current.Temp)
	require.Equal(t, 0.0, *current.Humidity)
	require.Nil(t, current.FeelsLike)
	require.Nil(t, current.Pressure)
	require.Nil(t, current.WindSpeed)
	require.Nil(t, current.SunsetUTC)
	require.Equal(t, int64(1714537200), *current.SunriseUTC)
	require.Equal(t, 3600, *current.Timezone)
	require.Equal(t, "mist", current.Description)
	require.Equal(t, "50d", current.Icon)
	require.Equal(t, "GB", current.CountryCode)
}

func TestDecodeForecast(t *testing.T) {
	series, err := decodeForecast([]byte(`{
		"list": [
			{"dt": 1714543200, "main": {"temp": 12, "temp_min": 10, "temp_max": 13}, "weather": [{"icon": "01d"}], "pop": 0.2},
			{"dt": 1714554000, "main": {}, "weather": []}
		],
		"city": {"timezone": -14400}
	}`))
	require.NoError(t, err)
	require.Equal(t, -14400, *series.Timezone)
	require.Len(t, series.Samples, 2)
	require.Equal(t, int64(1714543200), series.Samples[0].Time)
	require.Equal(t, 10.0, *series.Samples[0].TempMin)
	require.Equal(t, "01d", series.Samples[0].Icon)
	require.Equal(t, 0.2, *series.Samples[0].Pop)
	require.Nil(t, series.Samples[1].Temp)
	require.Nil(t, series.Samples[1].Pop)
	require.Equal(t, "", series.Samples[1].Icon)
}

func TestDecodeForecastMissingListIsEmpty(t *testing.T) {
	series, err := decodeForecast([]byte(`{"city": {}}`))
	require.NoError(t, err)
	require.Empty(t, series.Samples)
	require.Nil(t, series.Timezone)

	series, err = decodeForecast([]byte(`{"list": null}`))
	require.NoError(t, err)
	require.Empty(t, series.Samples)
}

func TestDecodeRejectsWrongTopLevelShape(t *testing.T) {
	_, err := decodeForecast([]byte(`{"list": {"dt": 1}}`))
	require.ErrorIs(t, err, weather.ErrMalformedResponse)

	_, err = decodeForecast([]byte(`{"list": "nope"}`))
	require.ErrorIs(t, err, weather.ErrMalformedResponse)

	_, err = decodeGeo([]byte(`{"name": "Paris"}`))
	require.ErrorIs(t, err, weather.ErrMalformedResponse)
}

func TestDecodeToleratesBadOptionalFields(t *testing.T) {
	series, err := decodeForecast([]byte(`{
		"city": {"timezone": "UTC+1"},
		"list": [
			{"dt": 1714543200, "main": {"temp": 12.5, "temp_min": 10, "temp_max": 14}, "weather": [{"icon": "01d"}], "pop": 0.1},
			{"dt": 1714554000, "main": {"temp": "n/a", "temp_min": 9}, "weather": "cloudy", "pop": "high"},
			{"dt": 1714564800, "main": "broken", "weather": [42]},
			{"dt": "soon", "main": {"temp": 8}},
			"garbage"
		]
	}`))
	require.NoError(t, err)
	require.Nil(t, series.Timezone)
	require.Len(t, series.Samples, 3)

	require.Equal(t, 12.5, *series.Samples[0].Temp)
	require.Equal(t, "01d", series.Samples[0].Icon)

	second := series.Samples[1]
	require.Equal(t, int64(1714554000), second.Time)
	require.Nil(t, second.Temp)
	require.Equal(t, 9.0, *second.TempMin)
	require.Nil(t, second.TempMax)
	require.Nil(t, second.Pop)
	require.Equal(t, "", second.Icon)

	third := series.Samples[2]
	require.Nil(t, third.Temp)
	require.Nil(t, third.TempMin)
	require.Equal(t, "", third.Icon)

	current, err := decodeCurrent([]byte(`{
		"name": "London", "visibility": "10km", "timezone": 3600,
		"main": {"temp": 11.3, "humidity": "wet"},
		"wind": [1, 2],
		"sys": {"country": 44, "sunrise": 1714537200},
		"weather": [{"description": "mist", "icon": 7}]
	}`))
	require.NoError(t, err)
	require.Nil(t, current.Visibility)
	require.Nil(t, current.Humidity)
	require.Nil(t, current.WindSpeed)
	require.Equal(t, 11.3, *current.Temp)
	require.Equal(t, 3600, *current.Timezone)
	require.Equal(t, int64(1714537200), *current.SunriseUTC)
	require.Equal(t, "", current.CountryCode)
	require.Equal(t, "mist", current.Description)
	require.Equal(t, "", current.Icon)
	require.Equal(t, "London", current.LocationName)

	candidates, err := decodeGeo([]byte(`[{"name": "Nowhere", "lat": "x", "lon": 1}, {"name": "Oslo", "country": "NO", "lat": 59.91, "lon": 10.75}]`))
	require.NoError(t, err)
	require.Equal(t, []weather.GeoCandidate{{Name: "Oslo", Country: "NO", Lat: 59.91, Lon: 10.75}}, candidates)

	_, err = decodeCurrent([]byte(`["not", "an", "object"]`))
	require.ErrorIs(t, err, weather.ErrMalformedResponse)
}

func TestClientErrorStatus(t *testing.T) {
	client, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	})

	_, err := client.Resolve(context.Background(), "Paris")
	require.ErrorContains(t, err, "status=401")
	require.NotErrorIs(t, err, weather.ErrUpstreamTimeout)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), `weather_upstream_calls_total{endpoint="geo",outcome="error"} 1`)
}

func TestClientTimeoutIsTagged(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Forecast(ctx, 1, 2)
	require.ErrorIs(t, err, weather.ErrUpstreamTimeout)
}

func TestCircuitOpensAfterRepeatedServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 6; i++ {
		_, err := client.Current(context.Background(), 1, 2)
		require.Error(t, err)
	}
	_, err := client.Current(context.Background(), 1, 2)
	require.ErrorIs(t, err, errCircuitOpen)
	require.Equal(t, int32(6), calls.Load())
}

func TestCancelledCallsDoNotOpenCircuit(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"name":"Paris","country":"FR","lat":48.85,"lon":2.35}]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		_, err := client.Resolve(ctx, "Paris")
		require.ErrorIs(t, err, context.Canceled)
		require.NotErrorIs(t, err, errCircuitOpen)
	}

	candidates, err := client.Resolve(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, int32(1), calls.Load())
}

func TestMissingAPIKey(t *testing.T) {
	client := NewClient(Config{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.Resolve(context.Background(), "Paris")
	require.ErrorIs(t, err, errMissingKey)
}
