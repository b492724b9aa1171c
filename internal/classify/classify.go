// Package classify turns raw weather conditions into a severity score, a
// disaster type, and human-readable warnings. All functions are pure and
// total: nil inputs get safe defaults and nothing here ever fails.
package classify

import (
	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
	"github.com/Kartik-coder753/prism-disaster-management/internal/weather"
)

type Result struct {
	Severity int
	Warnings []string
}

// Severity scores conditions on a 1-5 scale. Wind and rainfall bands are
// evaluated independently and the maximum wins; they are never summed.
func Severity(c *weather.Conditions) Result {
	cond := normalize(c)

	severity := 1
	switch {
	case cond.WindSpeed > 118: // hurricane force
		severity = 5
	case cond.WindSpeed > 89: // storm force
		severity = 4
	case cond.WindSpeed > 62: // gale force
		severity = 3
	case cond.WindSpeed > 39: // high wind
		severity = 2
	}

	switch {
	case cond.Rainfall3h > 100:
		severity = max(severity, 5)
	case cond.Rainfall3h > 50:
		severity = max(severity, 4)
	case cond.Rainfall3h > 30:
		severity = max(severity, 3)
	case cond.Rainfall3h > 15:
		severity = max(severity, 2)
	}

	return Result{
		Severity: severity,
		Warnings: warnings(cond),
	}
}

func warnings(cond weather.Conditions) []string {
	var w []string
	if cond.WindSpeed > 62 {
		w = append(w, "Dangerous wind conditions")
	}
	if cond.Rainfall3h > 30 {
		w = append(w, "Heavy rainfall alert")
	}
	if cond.Temperature > 40 {
		w = append(w, "Extreme heat warning")
	}
	if cond.Humidity > 90 {
		w = append(w, "High humidity alert")
	}
	return w
}

// TypeOf maps conditions to a disaster type. The rules are ordered and the
// first match wins: cyclone, then flood, then heatwave. Anything else is a
// storm, which is also the fallback when data is missing.
func TypeOf(c *weather.Conditions, f *weather.Forecast) models.DisasterType {
	cond := normalize(c)

	if cond.WindSpeed > 118 || cond.Pressure < 970 {
		return models.DisasterTypeCyclone
	}
	if cond.Rainfall3h > 50 || forecastRainAbove(f, 30) {
		return models.DisasterTypeFlood
	}
	if cond.Temperature > 40 {
		return models.DisasterTypeHeatwave
	}
	return models.DisasterTypeStorm
}

func forecastRainAbove(f *weather.Forecast, threshold float64) bool {
	if f == nil {
		return false
	}
	for _, e := range f.Entries {
		if e.Rainfall3h > threshold {
			return true
		}
	}
	return false
}

// normalize applies the documented defaults for absent conditions:
// wind 0, rainfall 0, pressure 1013, temperature 25.
func normalize(c *weather.Conditions) weather.Conditions {
	if c == nil {
		return weather.Conditions{Pressure: 1013, Temperature: 25}
	}
	cond := *c
	if cond.Pressure == 0 {
		cond.Pressure = 1013
	}
	return cond
}
