// Package units converts stored metric weather values into display units.
// All functions are pure and total.
package units

import "math"

// Temperature converts a stored Celsius value into the display unit.
// Rounding is half away from zero and is applied once, after conversion.
func Temperature(celsius float64, isCelsius bool) int {
	if isCelsius {
		return int(math.Round(celsius))
	}
	return int(math.Round(celsius*9/5 + 32))
}

// WindSpeed converts a stored m/s value into km/h (metric) or mph
// (imperial), one decimal. The unit follows the temperature flag: the
// dashboard has a single metric/imperial mode, not an independent
// wind-speed preference.
func WindSpeed(metersPerSecond float64, isCelsius bool) float64 {
	if isCelsius {
		return math.Round(metersPerSecond*3.6*10) / 10
	}
	return math.Round(metersPerSecond*2.237*10) / 10
}

// WindSpeedUnit returns the display label matching WindSpeed.
func WindSpeedUnit(isCelsius bool) string {
	if isCelsius {
		return "km/h"
	}
	return "mph"
}

// TemperatureUnit returns the display label matching Temperature.
func TemperatureUnit(isCelsius bool) string {
	if isCelsius {
		return "°C"
	}
	return "°F"
}
