package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
)

const alertColumns = `id, disaster_id, message, timestamp, status, priority,
	affected_population, evacuation_required, safety_instructions`

func (s *SQLiteDB) CreateAlert(ctx context.Context, a *models.Alert) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = s.clock.Now()
	}
	if a.Status == "" {
		a.Status = models.AlertStatusActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM disasters WHERE id = ?`, a.DisasterID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("error checking disaster %d: %w", a.DisasterID, err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO alerts (disaster_id, message, timestamp, status, priority,
			affected_population, evacuation_required, safety_instructions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.DisasterID, a.Message, a.Timestamp, a.Status, a.Priority,
		a.AffectedPopulation, a.EvacuationRequired, a.SafetyInstructions)
	if err != nil {
		return fmt.Errorf("error inserting alert: %w", err)
	}

	// Bookkeeping on the owning disaster: an active alert raises the count
	// and refreshes last_update.
	if a.Status == models.AlertStatusActive {
		_, err = tx.ExecContext(ctx, `
			UPDATE disasters
			SET active_alert_count = active_alert_count + 1, last_update = ?
			WHERE id = ?`, s.clock.Now(), a.DisasterID)
		if err != nil {
			return fmt.Errorf("error updating disaster bookkeeping: %w", err)
		}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading alert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing alert: %w", err)
	}
	a.ID = id
	return nil
}

func (s *SQLiteDB) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.queryAlerts(ctx,
		`SELECT `+alertColumns+` FROM alerts ORDER BY timestamp DESC`)
}

func (s *SQLiteDB) ListActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.queryAlerts(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE status = ? ORDER BY timestamp DESC`,
		models.AlertStatusActive)
}

func (s *SQLiteDB) ListRecentAlerts(ctx context.Context) ([]models.Alert, error) {
	cutoff := s.clock.Now().Add(-RecentWindow)
	return s.queryAlerts(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE status = ? AND timestamp >= ? ORDER BY timestamp DESC`,
		models.AlertStatusActive, cutoff)
}

func (s *SQLiteDB) UpdateAlertStatus(ctx context.Context, id int64, status models.AlertStatus) (*models.Alert, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		prev       models.AlertStatus
		disasterID int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, disaster_id FROM alerts WHERE id = ?`, id).Scan(&prev, &disasterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying alert %d: %w", id, err)
	}

	if prev != status {
		if _, err := tx.ExecContext(ctx,
			`UPDATE alerts SET status = ? WHERE id = ?`, status, id); err != nil {
			return nil, fmt.Errorf("error updating alert %d: %w", id, err)
		}

		delta := 0
		switch {
		case prev == models.AlertStatusActive && status == models.AlertStatusResolved:
			delta = -1
		case prev == models.AlertStatusResolved && status == models.AlertStatusActive:
			delta = 1
		}
		if delta != 0 {
			_, err = tx.ExecContext(ctx, `
				UPDATE disasters
				SET active_alert_count = MAX(active_alert_count + ?, 0), last_update = ?
				WHERE id = ?`, delta, s.clock.Now(), disasterID)
			if err != nil {
				return nil, fmt.Errorf("error updating disaster bookkeeping: %w", err)
			}
		}
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	a, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("error rereading alert %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing status update: %w", err)
	}
	return a, nil
}

func (s *SQLiteDB) queryAlerts(ctx context.Context, query string, args ...any) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	err := row.Scan(&a.ID, &a.DisasterID, &a.Message, &a.Timestamp, &a.Status,
		&a.Priority, &a.AffectedPopulation, &a.EvacuationRequired,
		&a.SafetyInstructions)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
