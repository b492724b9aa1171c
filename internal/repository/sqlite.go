package repository

import (
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewSQLiteDB(path string, clock clockwork.Clock) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent create/update paths.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db:    db,
		clock: clock,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS disasters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			severity INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			affected_areas TEXT NOT NULL,
			wind_speed REAL NOT NULL DEFAULT 0,
			movement TEXT NOT NULL DEFAULT '',
			depth REAL NOT NULL DEFAULT 0,
			magnitude REAL NOT NULL DEFAULT 0,
			rainfall REAL NOT NULL DEFAULT 0,
			water_level REAL NOT NULL DEFAULT 0,
			impact_radius REAL NOT NULL DEFAULT 0,
			evacuation_zone TEXT,
			active_alert_count INTEGER NOT NULL DEFAULT 0,
			last_update DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			disaster_id INTEGER NOT NULL,
			message TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			status TEXT NOT NULL,
			priority INTEGER NOT NULL,
			affected_population INTEGER NOT NULL DEFAULT 0,
			evacuation_required INTEGER NOT NULL DEFAULT 0,
			safety_instructions TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (disaster_id) REFERENCES disasters(id)
		);

		CREATE INDEX IF NOT EXISTS idx_disasters_timestamp ON disasters(timestamp);
		CREATE INDEX IF NOT EXISTS idx_disasters_type ON disasters(type);
		CREATE INDEX IF NOT EXISTS idx_alerts_disaster_id ON alerts(disaster_id);
		CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
