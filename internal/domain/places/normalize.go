package places

import (
	"fmt"
	"unicode/utf8"

	"github.com/yanqian/weather-helloworld/pkg/util"
)

const (
	minCityLen    = 2
	maxCityLen    = 100
	minCountryLen = 2
	maxCountryLen = 56
)

// NormalizeCity collapses whitespace and checks the length bounds.
func NormalizeCity(raw string) (string, error) {
	city := util.CollapseSpace(raw)
	if city == "" {
		return "", fmt.Errorf("City is required")
	}
	if n := utf8.RuneCountInString(city); n < minCityLen || n > maxCityLen {
		return "", fmt.Errorf("City must be between %d and %d characters", minCityLen, maxCityLen)
	}
	return city, nil
}

func normalizeCountry(raw string) (string, error) {
	country := util.CollapseSpace(raw)
	if country == "" {
		return "", nil
	}
	if n := utf8.RuneCountInString(country); n < minCountryLen || n > maxCountryLen {
		return "", fmt.Errorf("Country must be between %d and %d characters", minCountryLen, maxCountryLen)
	}
	return country, nil
}
