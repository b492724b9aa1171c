package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

// kmPerDegree is the planar distance approximation used by proximity
// queries: Euclidean distance in degrees times 111. It is deliberately not
// great-circle distance and is kept for compatibility with existing
// clients, including its inaccuracy at high latitudes.
const kmPerDegree = 111.0

const disasterColumns = `id, type, title, description, latitude, longitude, severity,
	timestamp, affected_areas, wind_speed, movement, depth, magnitude, rainfall,
	water_level, impact_radius, evacuation_zone, active_alert_count, last_update`

func (s *SQLiteDB) CreateDisaster(ctx context.Context, d *models.Disaster) error {
	if d.Timestamp.IsZero() {
		d.Timestamp = s.clock.Now()
	}
	if d.LastUpdate.Before(d.Timestamp) {
		d.LastUpdate = d.Timestamp
	}

	areas, err := json.Marshal(d.AffectedAreas)
	if err != nil {
		return fmt.Errorf("error encoding affected areas: %w", err)
	}
	var zone sql.NullString
	if d.EvacuationZone != nil {
		raw, err := json.Marshal(d.EvacuationZone)
		if err != nil {
			return fmt.Errorf("error encoding evacuation zone: %w", err)
		}
		zone = sql.NullString{String: string(raw), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO disasters (type, title, description, latitude, longitude,
			severity, timestamp, affected_areas, wind_speed, movement, depth,
			magnitude, rainfall, water_level, impact_radius, evacuation_zone,
			active_alert_count, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Type, d.Title, d.Description, d.Location.Lat, d.Location.Lng,
		d.Severity, d.Timestamp, string(areas), d.WindSpeed, d.Movement, d.Depth,
		d.Magnitude, d.Rainfall, d.WaterLevel, d.ImpactRadius, zone,
		d.ActiveAlertCount, d.LastUpdate)
	if err != nil {
		return fmt.Errorf("error inserting disaster: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading disaster id: %w", err)
	}
	d.ID = id
	return nil
}

func (s *SQLiteDB) GetDisasterByID(ctx context.Context, id int64) (*models.Disaster, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+disasterColumns+` FROM disasters WHERE id = ?`, id)

	d, err := scanDisaster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying disaster %d: %w", id, err)
	}
	return d, nil
}

func (s *SQLiteDB) ListDisasters(ctx context.Context) ([]models.Disaster, error) {
	return s.queryDisasters(ctx,
		`SELECT `+disasterColumns+` FROM disasters ORDER BY timestamp DESC`)
}

func (s *SQLiteDB) ListDisastersByType(ctx context.Context, t models.DisasterType) ([]models.Disaster, error) {
	return s.queryDisasters(ctx,
		`SELECT `+disasterColumns+` FROM disasters WHERE type = ? ORDER BY timestamp DESC`, t)
}

func (s *SQLiteDB) ListDisastersNear(ctx context.Context, lat, lng, radiusKm float64) ([]models.Disaster, error) {
	// Squared distance comparison avoids needing sqrt in SQL.
	return s.queryDisasters(ctx, `
		SELECT `+disasterColumns+` FROM disasters
		WHERE ((latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?))
			* ? <= ?
		ORDER BY timestamp DESC`,
		lat, lat, lng, lng, kmPerDegree*kmPerDegree, radiusKm*radiusKm)
}

func (s *SQLiteDB) ListDisastersSince(ctx context.Context, since time.Time) ([]models.Disaster, error) {
	return s.queryDisasters(ctx,
		`SELECT `+disasterColumns+` FROM disasters WHERE timestamp >= ? ORDER BY timestamp DESC`, since)
}

func (s *SQLiteDB) queryDisasters(ctx context.Context, query string, args ...any) ([]models.Disaster, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying disasters: %w", err)
	}
	defer rows.Close()

	var disasters []models.Disaster
	for rows.Next() {
		d, err := scanDisaster(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning disaster: %w", err)
		}
		disasters = append(disasters, *d)
	}
	return disasters, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDisaster(row rowScanner) (*models.Disaster, error) {
	var (
		d     models.Disaster
		areas string
		zone  sql.NullString
	)
	err := row.Scan(&d.ID, &d.Type, &d.Title, &d.Description,
		&d.Location.Lat, &d.Location.Lng, &d.Severity, &d.Timestamp, &areas,
		&d.WindSpeed, &d.Movement, &d.Depth, &d.Magnitude, &d.Rainfall,
		&d.WaterLevel, &d.ImpactRadius, &zone, &d.ActiveAlertCount, &d.LastUpdate)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(areas), &d.AffectedAreas); err != nil {
		return nil, fmt.Errorf("error decoding affected areas: %w", err)
	}
	if zone.Valid {
		if err := json.Unmarshal([]byte(zone.String), &d.EvacuationZone); err != nil {
			return nil, fmt.Errorf("error decoding evacuation zone: %w", err)
		}
	}
	return &d, nil
}
