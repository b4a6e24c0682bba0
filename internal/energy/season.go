package energy

import (
	"math"
	"time"
)

// Monthly average temperatures (Seoul), January through December.
var monthlyAvgTempsC = [12]float64{
	-2.5, 0.3, 5.7, 12.8, 17.9, 22.2, 25.7, 26.4, 21.9, 15.0, 7.3, 0.4,
}

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DefaultTemperature returns the seasonal ambient temperature for a date by
// linearly interpolating between the current and next month's averages.
// Used when a planning request does not carry an explicit temperature.
// Rounded to one decimal place.
func DefaultTemperature(month time.Month, day int) float64 {
	cur := int(month) - 1
	next := (cur + 1) % 12

	start := monthlyAvgTempsC[cur]
	end := monthlyAvgTempsC[next]

	ratio := float64(day-1) / float64(daysInMonth[cur])
	interpolated := start + (end-start)*ratio

	return math.Round(interpolated*10) / 10
}
