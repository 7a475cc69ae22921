package forecast

// AssemblePayload merges current conditions with the derived views.
// Resolved names win over the provider's own location fields.
func AssemblePayload(current Current, views Views, city, country string) Payload {
	if city == "" {
		city = current.LocationName
	}
	if country == "" {
		country = current.CountryCode
	}
	if views.Hourly == nil {
		views.Hourly = []HourlyPoint{}
	}
	if views.Daily == nil {
		views.Daily = []DailyPoint{}
	}
	return Payload{
		City:        city,
		Country:     country,
		Temperature: current.Temp,
		FeelsLike:   current.FeelsLike,
		Description: current.Description,
		Icon:        current.Icon,
		Humidity:    current.Humidity,
		Pressure:    current.Pressure,
		Visibility:  current.Visibility,
		WindSpeed:   current.WindSpeed,
		Sunrise:     current.SunriseUTC,
		Sunset:      current.SunsetUTC,
		Timezone:    current.Timezone,
		Forecast:    views,
	}
}
