package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evroute/charge-planner/internal/domain"
)

// Postgres-backed implementation of the StationRepository port.
type SQLStationRepository struct{ DB *sql.DB }

func NewSQLStationRepository(db *sql.DB) *SQLStationRepository {
	return &SQLStationRepository{DB: db}
}

// Return all stations inside the bounding box, ordered by station id.
func (s *SQLStationRepository) ListStationsInBounds(
	ctx context.Context,
	minLat, maxLat, minLon, maxLon float64,
) ([]domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("sql station repository: DB is nil")
	}

	query := `
	SELECT
		station_id, name, lat, lon, operator, connector_type, output_kw, free_parking, no_limit
	FROM stations
	WHERE lat BETWEEN $1 AND $2
		AND lon BETWEEN $3 AND $4
	ORDER BY station_id;
	`

	rows, err := s.DB.QueryContext(ctx, query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("list stations in bounds: query stations table: %w", err)
	}
	defer rows.Close()

	return scanStations(rows)
}
