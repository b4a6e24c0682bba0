package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// InitSchema creates the station registry table. The statement is kept
// portable between SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS stations (
		station_id     TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		lat            DOUBLE PRECISION NOT NULL,
		lon            DOUBLE PRECISION NOT NULL,
		operator       TEXT NOT NULL DEFAULT '',
		connector_type TEXT NOT NULL DEFAULT '',
		output_kw      DOUBLE PRECISION NOT NULL DEFAULT 0,
		free_parking   BOOLEAN NOT NULL DEFAULT FALSE,
		no_limit       BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_stations_lat_lon ON stations (lat, lon);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: create stations table: %w", err)
	}

	return nil
}

type seedStation struct {
	StationID     string  `json:"station_id"`
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Operator      string  `json:"operator"`
	ConnectorType string  `json:"connector_type"`
	OutputKw      float64 `json:"output_kw"`
	FreeParking   bool    `json:"free_parking"`
	NoLimit       bool    `json:"no_limit"`
}

// SeedFromJSON loads station records from a JSON file, replacing rows that
// already exist. Intended for local runs and the dbtool. The driver picks
// the placeholder style ("sqlite" or "pgx").
func SeedFromJSON(db *sql.DB, driver, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed stations: read %q: %w", path, err)
	}

	var seeds []seedStation
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("seed stations: decode %q: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	values := "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
	if driver == "pgx" {
		values = "($1, $2, $3, $4, $5, $6, $7, $8, $9)"
	}

	stmt, err := tx.Prepare(`
	INSERT INTO stations (station_id, name, lat, lon, operator, connector_type, output_kw, free_parking, no_limit)
	VALUES ` + values + `
	ON CONFLICT (station_id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		operator = EXCLUDED.operator,
		connector_type = EXCLUDED.connector_type,
		output_kw = EXCLUDED.output_kw,
		free_parking = EXCLUDED.free_parking,
		no_limit = EXCLUDED.no_limit;
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range seeds {
		if s.StationID == "" {
			return fmt.Errorf("seed stations: record %q has empty station_id", s.Name)
		}
		if _, err := stmt.Exec(
			s.StationID, s.Name, s.Lat, s.Lon,
			s.Operator, s.ConnectorType, s.OutputKw, s.FreeParking, s.NoLimit,
		); err != nil {
			return fmt.Errorf("seed stations: insert %q: %w", s.StationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit: %w", err)
	}

	return nil
}
