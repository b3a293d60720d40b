package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order. SQL is embedded so the
// binary carries its own schema.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "001_timeline_schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS timeline_segments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				segment_type TEXT NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_segments_start_time ON timeline_segments(start_time);
			CREATE INDEX IF NOT EXISTS idx_segments_type ON timeline_segments(segment_type);

			CREATE TABLE IF NOT EXISTS visits (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				segment_id INTEGER NOT NULL UNIQUE REFERENCES timeline_segments(id) ON DELETE CASCADE,
				place_id TEXT,
				semantic_type TEXT,
				lat REAL,
				lon REAL,
				probability REAL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_visits_place_id ON visits(place_id);

			CREATE TABLE IF NOT EXISTS activities (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				segment_id INTEGER NOT NULL UNIQUE REFERENCES timeline_segments(id) ON DELETE CASCADE,
				start_lat REAL,
				start_lon REAL,
				end_lat REAL,
				end_lon REAL,
				distance_meters REAL DEFAULT 0,
				activity_type TEXT,
				probability REAL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS timeline_memories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				segment_id INTEGER NOT NULL UNIQUE REFERENCES timeline_segments(id) ON DELETE CASCADE,
				distance_from_origin_km REAL,
				destinations_json TEXT
			);

			CREATE TABLE IF NOT EXISTS timeline_path_points (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				segment_id INTEGER NOT NULL REFERENCES timeline_segments(id) ON DELETE CASCADE,
				point_order INTEGER NOT NULL,
				lat REAL NOT NULL,
				lon REAL NOT NULL,
				point_time INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_path_points_segment ON timeline_path_points(segment_id, point_order);

			CREATE TABLE IF NOT EXISTS user_profile (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				home_place_id TEXT,
				home_lat REAL,
				home_lon REAL,
				work_place_id TEXT,
				work_lat REAL,
				work_lon REAL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 2,
		Name:    "002_trips",
		SQL: `
			CREATE TABLE IF NOT EXISTS trips (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				is_multi_day INTEGER NOT NULL DEFAULT 0,
				total_distance_meters REAL NOT NULL DEFAULT 0,
				primary_transport_mode TEXT,
				detection_algorithm TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_trips_dedup_key
				ON trips(start_time, end_time, detection_algorithm);
			CREATE INDEX IF NOT EXISTS idx_trips_algorithm ON trips(detection_algorithm);

			CREATE TABLE IF NOT EXISTS trip_destinations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				trip_id INTEGER NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
				place_id TEXT NOT NULL,
				visit_order INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_trip_destinations_trip ON trip_destinations(trip_id, visit_order);

			CREATE TABLE IF NOT EXISTS trip_segments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				trip_id INTEGER NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
				segment_id INTEGER NOT NULL REFERENCES timeline_segments(id),
				segment_order INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_trip_segments_trip ON trip_segments(trip_id, segment_order);
		`,
	},
}

// Migrate applies all pending migrations to the given database
func Migrate(d *sql.DB) error {
	if err := initMigrationsTable(d); err != nil {
		return err
	}

	applied, err := appliedMigrations(d)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(d, m); err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(d *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := d.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(d *sql.DB) (map[int]bool, error) {
	rows, err := d.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// applyMigration applies a single migration in a transaction
func applyMigration(d *sql.DB, m Migration) error {
	return Transaction(d, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		return nil
	})
}
