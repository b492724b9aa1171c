package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
	"github.com/Kartik-coder753/prism-disaster-management/internal/weather"
)

func TestSeverity_WindBands(t *testing.T) {
	tests := []struct {
		name string
		wind float64
		want int
	}{
		{"calm", 10, 1},
		{"high wind", 40, 2},
		{"gale force", 63, 3},
		{"storm force", 90, 4},
		{"hurricane force", 119, 5},
		{"extreme hurricane", 250, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Severity(&weather.Conditions{WindSpeed: tt.wind})
			assert.Equal(t, tt.want, got.Severity)
		})
	}
}

func TestSeverity_RainfallBands(t *testing.T) {
	tests := []struct {
		name string
		rain float64
		want int
	}{
		{"drizzle", 5, 1},
		{"moderate", 16, 2},
		{"heavy", 31, 3},
		{"very heavy", 51, 4},
		{"extreme", 101, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Severity(&weather.Conditions{Rainfall3h: tt.rain})
			assert.Equal(t, tt.want, got.Severity)
		})
	}
}

func TestSeverity_MaxOfBandsNotSum(t *testing.T) {
	// Gale-force wind (3) plus heavy rain (3) stays at 3, not 6.
	got := Severity(&weather.Conditions{WindSpeed: 70, Rainfall3h: 35})
	assert.Equal(t, 3, got.Severity)

	// Rain band above wind band wins.
	got = Severity(&weather.Conditions{WindSpeed: 45, Rainfall3h: 120})
	assert.Equal(t, 5, got.Severity)
}

func TestSeverity_MonotoneInWindAndRain(t *testing.T) {
	winds := []float64{0, 20, 40, 63, 90, 119, 200}
	prev := 0
	for _, w := range winds {
		got := Severity(&weather.Conditions{WindSpeed: w, Rainfall3h: 10}).Severity
		assert.GreaterOrEqual(t, got, prev, "wind %v", w)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 5)
		prev = got
	}

	rains := []float64{0, 16, 31, 51, 101, 500}
	prev = 0
	for _, r := range rains {
		got := Severity(&weather.Conditions{WindSpeed: 50, Rainfall3h: r}).Severity
		assert.GreaterOrEqual(t, got, prev, "rain %v", r)
		prev = got
	}
}

func TestSeverity_Warnings(t *testing.T) {
	got := Severity(&weather.Conditions{
		WindSpeed:   70,
		Rainfall3h:  35,
		Temperature: 42,
		Humidity:    95,
	})
	assert.Equal(t, []string{
		"Dangerous wind conditions",
		"Heavy rainfall alert",
		"Extreme heat warning",
		"High humidity alert",
	}, got.Warnings)

	// Warnings fire independently of the severity score.
	calm := Severity(&weather.Conditions{Temperature: 45})
	assert.Equal(t, 1, calm.Severity)
	assert.Equal(t, []string{"Extreme heat warning"}, calm.Warnings)
}

func TestSeverity_NilConditions(t *testing.T) {
	got := Severity(nil)
	assert.Equal(t, 1, got.Severity)
	assert.Empty(t, got.Warnings)
}

func TestTypeOf_OrderedRules(t *testing.T) {
	tests := []struct {
		name string
		cond weather.Conditions
		fc   *weather.Forecast
		want models.DisasterType
	}{
		{"hurricane wind", weather.Conditions{WindSpeed: 119, Pressure: 1000}, nil, models.DisasterTypeCyclone},
		{"low pressure", weather.Conditions{WindSpeed: 10, Pressure: 960}, nil, models.DisasterTypeCyclone},
		{"heavy rain", weather.Conditions{Rainfall3h: 51, Pressure: 1000}, nil, models.DisasterTypeFlood},
		{"forecast corroborates flood", weather.Conditions{Rainfall3h: 5, Pressure: 1000},
			&weather.Forecast{Entries: []weather.ForecastEntry{{Rainfall3h: 35}}}, models.DisasterTypeFlood},
		{"extreme heat", weather.Conditions{Temperature: 41, Pressure: 1000}, nil, models.DisasterTypeHeatwave},
		{"default", weather.Conditions{WindSpeed: 70, Pressure: 1000, Temperature: 30}, nil, models.DisasterTypeStorm},
		// Cyclone beats flood beats heatwave when several rules match.
		{"cyclone precedes flood", weather.Conditions{WindSpeed: 120, Rainfall3h: 80}, nil, models.DisasterTypeCyclone},
		{"flood precedes heatwave", weather.Conditions{Rainfall3h: 80, Temperature: 45}, nil, models.DisasterTypeFlood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(&tt.cond, tt.fc))
		})
	}
}

func TestTypeOf_MissingFieldsNeverPanics(t *testing.T) {
	// Zero-value conditions use the documented defaults: pressure 1013, so
	// not a cyclone; no rain, so not a flood; temperature default is mild.
	assert.Equal(t, models.DisasterTypeStorm, TypeOf(&weather.Conditions{}, nil))
	assert.Equal(t, models.DisasterTypeStorm, TypeOf(nil, nil))
}
