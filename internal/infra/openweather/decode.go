package openweather

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yanqian/weather-helloworld/internal/domain/forecast"
	"github.com/yanqian/weather-helloworld/internal/domain/weather"
)

// opt holds a field the provider may omit or send with the wrong type.
// Anything that does not decode as T reads as absent.
type opt[T any] struct {
	v *T
}

func (o *opt[T]) UnmarshalJSON(b []byte) error {
	o.v = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	o.v = &v
	return nil
}

func (o opt[T]) ptr() *T {
	return o.v
}

func (o opt[T]) or(def T) T {
	if o.v == nil {
		return def
	}
	return *o.v
}

type geoEntry struct {
	Name    opt[string]  `json:"name"`
	Country opt[string]  `json:"country"`
	Lat     opt[float64] `json:"lat"`
	Lon     opt[float64] `json:"lon"`
}

type conditionEntry struct {
	Description opt[string] `json:"description"`
	Icon        opt[string] `json:"icon"`
}

type currentMain struct {
	Temp      opt[float64] `json:"temp"`
	FeelsLike opt[float64] `json:"feels_like"`
	Humidity  opt[float64] `json:"humidity"`
	Pressure  opt[float64] `json:"pressure"`
}

type currentWind struct {
	Speed opt[float64] `json:"speed"`
}

type currentSys struct {
	Country opt[string] `json:"country"`
	Sunrise opt[int64]  `json:"sunrise"`
	Sunset  opt[int64]  `json:"sunset"`
}

type currentResponse struct {
	Name       opt[string]                `json:"name"`
	Timezone   opt[int]                   `json:"timezone"`
	Visibility opt[float64]               `json:"visibility"`
	Main       opt[currentMain]           `json:"main"`
	Wind       opt[currentWind]           `json:"wind"`
	Sys        opt[currentSys]            `json:"sys"`
	Weather    opt[[]opt[conditionEntry]] `json:"weather"`
}

type forecastCity struct {
	Timezone opt[int] `json:"timezone"`
}

type forecastResponse struct {
	List json.RawMessage   `json:"list"`
	City opt[forecastCity] `json:"city"`
}

type forecastMain struct {
	Temp    opt[float64] `json:"temp"`
	TempMin opt[float64] `json:"temp_min"`
	TempMax opt[float64] `json:"temp_max"`
}

type forecastEntry struct {
	Dt      opt[int64]                 `json:"dt"`
	Main    opt[forecastMain]          `json:"main"`
	Weather opt[[]opt[conditionEntry]] `json:"weather"`
	Pop     opt[float64]               `json:"pop"`
}

// decodeGeo requires a top-level array. Entries without usable coordinates are skipped.
func decodeGeo(body []byte) ([]weather.GeoCandidate, error) {
	var entries []opt[geoEntry]
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode geo response: %w: %w", weather.ErrMalformedResponse, err)
	}
	out := make([]weather.GeoCandidate, 0, len(entries))
	for _, item := range entries {
		e := item.ptr()
		if e == nil || e.Lat.ptr() == nil || e.Lon.ptr() == nil {
			continue
		}
		out = append(out, weather.GeoCandidate{
			Name:    e.Name.or(""),
			Country: e.Country.or(""),
			Lat:     *e.Lat.ptr(),
			Lon:     *e.Lon.ptr(),
		})
	}
	return out, nil
}

// decodeCurrent requires a top-level object; every field inside it is optional.
func decodeCurrent(body []byte) (forecast.Current, error) {
	var raw currentResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.Current{}, fmt.Errorf("decode current response: %w: %w", weather.ErrMalformedResponse, err)
	}
	readings := raw.Main.or(currentMain{})
	sys := raw.Sys.or(currentSys{})
	cond := firstCondition(raw.Weather)
	return forecast.Current{
		Temp:         readings.Temp.ptr(),
		FeelsLike:    readings.FeelsLike.ptr(),
		Description:  cond.Description.or(""),
		Icon:         cond.Icon.or(""),
		Humidity:     readings.Humidity.ptr(),
		Pressure:     readings.Pressure.ptr(),
		Visibility:   raw.Visibility.ptr(),
		WindSpeed:    raw.Wind.or(currentWind{}).Speed.ptr(),
		SunriseUTC:   sys.Sunrise.ptr(),
		SunsetUTC:    sys.Sunset.ptr(),
		Timezone:     raw.Timezone.ptr(),
		LocationName: raw.Name.or(""),
		CountryCode:  sys.Country.or(""),
	}, nil
}

// decodeForecast treats a missing or null list as empty and rejects any other non-array list.
// Entries without a usable timestamp are skipped; bad optional fields read as absent.
func decodeForecast(body []byte) (weather.Series, error) {
	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.Series{}, fmt.Errorf("decode forecast response: %w: %w", weather.ErrMalformedResponse, err)
	}
	series := weather.Series{Timezone: raw.City.or(forecastCity{}).Timezone.ptr(), Samples: []forecast.Sample{}}

	list := bytes.TrimSpace(raw.List)
	if len(list) == 0 || bytes.Equal(list, []byte("null")) {
		return series, nil
	}
	if list[0] != '[' {
		return weather.Series{}, fmt.Errorf("forecast list is not an array: %w", weather.ErrMalformedResponse)
	}
	var entries []opt[forecastEntry]
	if err := json.Unmarshal(list, &entries); err != nil {
		return weather.Series{}, fmt.Errorf("decode forecast list: %w: %w", weather.ErrMalformedResponse, err)
	}
	for _, item := range entries {
		e := item.ptr()
		if e == nil || e.Dt.ptr() == nil {
			continue
		}
		readings := e.Main.or(forecastMain{})
		series.Samples = append(series.Samples, forecast.Sample{
			Time:    *e.Dt.ptr(),
			Temp:    readings.Temp.ptr(),
			TempMin: readings.TempMin.ptr(),
			TempMax: readings.TempMax.ptr(),
			Icon:    firstCondition(e.Weather).Icon.or(""),
			Pop:     e.Pop.ptr(),
		})
	}
	return series, nil
}

func firstCondition(items opt[[]opt[conditionEntry]]) conditionEntry {
	list := items.or(nil)
	if len(list) == 0 {
		return conditionEntry{}
	}
	return list[0].or(conditionEntry{})
}
