package models

import (
	"fmt"
	"math"
)

// Conversion constants for presentation units. Raw metrics always stay in
// meters and seconds; these are applied at read time only.
const (
	metersPerKilometer = 1000.0
	metersPerMile      = 1609.344
)

// NotAvailable is the placeholder for absent numeric values in exports
// and display payloads.
const NotAvailable = "N/A"

// Kilometers converts meters to kilometers.
func Kilometers(meters float64) float64 {
	return meters / metersPerKilometer
}

// Miles converts meters to statute miles.
func Miles(meters float64) float64 {
	return meters / metersPerMile
}

// FormatKilometers renders a meter value as a kilometer string with two
// decimals, e.g. "12.41 km".
func FormatKilometers(meters float64) string {
	return fmt.Sprintf("%.2f km", Kilometers(meters))
}

// FormatMiles renders a meter value as a mile string with two decimals,
// e.g. "7.71 mi".
func FormatMiles(meters float64) string {
	return fmt.Sprintf("%.2f mi", Miles(meters))
}

// FormatDuration renders seconds as "H hr M min" (or "M min" under an
// hour). The total minute count is rounded once and hours/minutes are
// split from that single value, so the two parts can never disagree the
// way separately rounded figures would. Sub-minute durations, zero
// included, floor at "1 min".
func FormatDuration(seconds float64) string {
	totalMinutes := int(math.Round(seconds / 60.0))
	if totalMinutes < 1 {
		totalMinutes = 1
	}
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours == 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d hr %d min", hours, minutes)
}

// FormatDurationOrNA is FormatDuration with a nil guard for optional
// mode metrics.
func FormatDurationOrNA(m *ModeMetric) string {
	if m == nil {
		return NotAvailable
	}
	return FormatDuration(m.DurationSeconds)
}
