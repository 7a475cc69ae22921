package forecast

// Sample is one 3-hour forecast point as returned by the provider.
// Nil numbers and an empty icon mean the provider omitted the field.
type Sample struct {
	Time    int64
	Temp    *float64
	TempMin *float64
	TempMax *float64
	Icon    string
	Pop     *float64
}

// HourlyPoint is a short-term forecast entry.
type HourlyPoint struct {
	Time int64    `json:"time"`
	Temp *float64 `json:"temp,omitempty"`
	Icon string   `json:"icon"`
	Pop  float64  `json:"pop"`
}

// DailyPoint summarises one local calendar day.
type DailyPoint struct {
	Date    string   `json:"date"`
	MinTemp *float64 `json:"minTemp,omitempty"`
	MaxTemp *float64 `json:"maxTemp,omitempty"`
	Icon    string   `json:"icon"`
}

// Views groups the derived series.
type Views struct {
	Hourly []HourlyPoint `json:"hourly"`
	Daily  []DailyPoint  `json:"daily"`
}

// Current holds the provider's current-conditions fields.
type Current struct {
	Temp         *float64
	FeelsLike    *float64
	Description  string
	Icon         string
	Humidity     *float64
	Pressure     *float64
	Visibility   *float64
	WindSpeed    *float64
	SunriseUTC   *int64
	SunsetUTC    *int64
	Timezone     *int
	LocationName string
	CountryCode  string
}

// Payload is the response body for a weather lookup.
type Payload struct {
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Temperature *float64 `json:"temperature,omitempty"`
	FeelsLike   *float64 `json:"feelsLike,omitempty"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Visibility  *float64 `json:"visibility,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
	Sunrise     *int64   `json:"sunrise,omitempty"`
	Sunset      *int64   `json:"sunset,omitempty"`
	Timezone    *int     `json:"timezone,omitempty"`
	Forecast    Views    `json:"forecast"`
}
