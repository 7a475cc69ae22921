package forecast

import (
	"sort"
	"time"
)

const (
	hourlyLimit = 8
	dailyLimit  = 5
	noonHour    = 12
	dateLayout  = "2006-01-02"
)

// BuildHourly returns up to eight samples at or after now, in the order received.
func BuildHourly(samples []Sample, now int64) []HourlyPoint {
	points := make([]HourlyPoint, 0, hourlyLimit)
	for _, s := range samples {
		if s.Time < now {
			continue
		}
		pop := 0.0
		if s.Pop != nil {
			pop = *s.Pop
		}
		points = append(points, HourlyPoint{
			Time: s.Time,
			Temp: s.Temp,
			Icon: s.Icon,
			Pop:  pop,
		})
		if len(points) == hourlyLimit {
			break
		}
	}
	return points
}

type dayBucket struct {
	date    string
	minTemp *float64
	maxTemp *float64
	icon    string
	hour    int
}

// BuildDaily groups samples by local calendar date (UTC shifted by offset seconds)
// and returns up to five days after the earliest one.
func BuildDaily(samples []Sample, offset int) []DailyPoint {
	buckets := make([]*dayBucket, 0, 6)
	index := make(map[string]*dayBucket)

	for _, s := range samples {
		local := time.Unix(s.Time+int64(offset), 0).UTC()
		date := local.Format(dateLayout)
		hour := local.Hour()

		b, ok := index[date]
		if !ok {
			b = &dayBucket{
				date:    date,
				minTemp: s.TempMin,
				maxTemp: s.TempMax,
				icon:    s.Icon,
				hour:    hour,
			}
			index[date] = b
			buckets = append(buckets, b)
			continue
		}

		b.minTemp = foldMin(b.minTemp, s.TempMin)
		b.maxTemp = foldMax(b.maxTemp, s.TempMax)
		if distanceFromNoon(hour) < distanceFromNoon(b.hour) {
			b.hour = hour
			// an empty icon keeps the previous pick
			if s.Icon != "" {
				b.icon = s.Icon
			}
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].date < buckets[j].date
	})

	if len(buckets) <= 1 {
		return []DailyPoint{}
	}
	rest := buckets[1:]
	if len(rest) > dailyLimit {
		rest = rest[:dailyLimit]
	}

	points := make([]DailyPoint, 0, len(rest))
	for _, b := range rest {
		points = append(points, DailyPoint{
			Date:    b.date,
			MinTemp: b.minTemp,
			MaxTemp: b.maxTemp,
			Icon:    b.icon,
		})
	}
	return points
}

// ComputeViews derives both series from one forecast response.
func ComputeViews(samples []Sample, now int64, offset int) Views {
	return Views{
		Hourly: BuildHourly(samples, now),
		Daily:  BuildDaily(samples, offset),
	}
}

// ResolveOffset prefers the forecast city's timezone, then the current-conditions one.
// Zero counts as unset.
func ResolveOffset(forecastOffset, currentOffset *int) int {
	if forecastOffset != nil && *forecastOffset != 0 {
		return *forecastOffset
	}
	if currentOffset != nil && *currentOffset != 0 {
		return *currentOffset
	}
	return 0
}

func foldMin(cur, next *float64) *float64 {
	if next == nil {
		return cur
	}
	if cur == nil || *next < *cur {
		v := *next
		return &v
	}
	return cur
}

func foldMax(cur, next *float64) *float64 {
	if next == nil {
		return cur
	}
	if cur == nil || *next > *cur {
		v := *next
		return &v
	}
	return cur
}

func distanceFromNoon(hour int) int {
	d := hour - noonHour
	if d < 0 {
		return -d
	}
	return d
}
