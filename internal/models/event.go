package models

type EventKind string

const (
	EventNewDisaster  EventKind = "new_disaster"
	EventNewAlert     EventKind = "new_alert"
	EventAlertUpdated EventKind = "alert_updated"
)

// Event is what the broadcast hub pushes to live subscribers. Data carries
// the full Disaster or Alert record for the kind.
type Event struct {
	Type EventKind `json:"type"`
	Data any       `json:"data"`
}
