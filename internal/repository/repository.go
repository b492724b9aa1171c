package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

// ErrNotFound reports a lookup for an id that does not exist. It is not a
// storage failure; handlers map it to a 404.
var ErrNotFound = errors.New("not found")

// RecentWindow is the lookback for the recent-alerts query.
const RecentWindow = 72 * time.Hour

type DisasterRepository interface {
	// CreateDisaster persists d and assigns it the next id in a strictly
	// increasing sequence. Concurrent creates never collide.
	CreateDisaster(ctx context.Context, d *models.Disaster) error
	GetDisasterByID(ctx context.Context, id int64) (*models.Disaster, error)
	ListDisasters(ctx context.Context) ([]models.Disaster, error)
	ListDisastersByType(ctx context.Context, t models.DisasterType) ([]models.Disaster, error)
	// ListDisastersNear returns disasters within radiusKm of the point,
	// using the planar 111 km/degree approximation.
	ListDisastersNear(ctx context.Context, lat, lng, radiusKm float64) ([]models.Disaster, error)
	ListDisastersSince(ctx context.Context, since time.Time) ([]models.Disaster, error)
}

type AlertRepository interface {
	// CreateAlert persists a. The referenced disaster must exist;
	// otherwise ErrNotFound is returned.
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	ListActiveAlerts(ctx context.Context) ([]models.Alert, error)
	// ListRecentAlerts returns active alerts no older than RecentWindow.
	ListRecentAlerts(ctx context.Context) ([]models.Alert, error)
	// UpdateAlertStatus applies the status atomically and returns the
	// updated record. Repeating an update is not an error.
	UpdateAlertStatus(ctx context.Context, id int64, status models.AlertStatus) (*models.Alert, error)
}

// Repository is the full persistence surface owned by the sqlite store.
type Repository interface {
	DisasterRepository
	AlertRepository
}
