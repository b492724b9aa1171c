package models

import "time"

type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
)

// Alert is a notification-worthy event tied to exactly one Disaster. The
// DisasterID is a weak reference; the alert does not own the disaster.
type Alert struct {
	ID                 int64       `json:"id"`
	DisasterID         int64       `json:"disasterId"`
	Message            string      `json:"message"`
	Timestamp          time.Time   `json:"timestamp"`
	Status             AlertStatus `json:"status"`
	Priority           int         `json:"priority"` // 1-3
	AffectedPopulation int         `json:"affectedPopulation,omitempty"`
	EvacuationRequired bool        `json:"evacuationRequired"`
	SafetyInstructions string      `json:"safetyInstructions,omitempty"`
}
