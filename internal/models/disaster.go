package models

import "time"

type DisasterType string

const (
	DisasterTypeCyclone    DisasterType = "cyclone"
	DisasterTypeEarthquake DisasterType = "earthquake"
	DisasterTypeFlood      DisasterType = "flood"
	DisasterTypeStorm      DisasterType = "storm"
	DisasterTypeHeatwave   DisasterType = "heatwave"
)

// Location is a plain coordinate pair. It has no identity; proximity
// queries compare it by value.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MonitoredArea is a registry entry scanned by the prediction scheduler.
// It is configuration, not a persisted domain entity.
type MonitoredArea struct {
	Lat  float64
	Lng  float64
	Name string
}

// Disaster is a detected or predicted hazard event. The id is assigned by
// the repository at creation and never changes afterwards.
type Disaster struct {
	ID            int64        `json:"id"`
	Type          DisasterType `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Location      Location     `json:"location"`
	Severity      int          `json:"severity"` // 1-5
	Timestamp     time.Time    `json:"timestamp"`
	AffectedAreas []string     `json:"affectedAreas"`

	// Type-specific optional attributes.
	WindSpeed  float64 `json:"windSpeed,omitempty"`  // km/h
	Movement   string  `json:"movement,omitempty"`   // e.g. "NW at 15 km/h"
	Depth      float64 `json:"depth,omitempty"`      // km, earthquakes
	Magnitude  float64 `json:"magnitude,omitempty"`  // Richter scale
	Rainfall   float64 `json:"rainfall,omitempty"`   // mm over 3h
	WaterLevel float64 `json:"waterLevel,omitempty"` // m, floods

	ImpactRadius     float64     `json:"impactRadius,omitempty"` // km
	EvacuationZone   [][]float64 `json:"evacuationZone,omitempty"`
	ActiveAlertCount int         `json:"activeAlertCount"`
	LastUpdate       time.Time   `json:"lastUpdate"`
}

func (d *Disaster) Coordinates() Location {
	return d.Location
}
