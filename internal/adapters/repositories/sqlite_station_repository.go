package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evroute/charge-planner/internal/domain"
)

// SQLite-backed implementation of the StationRepository port.
type SqliteStationRepository struct{ DB *sql.DB }

func NewSqliteStationRepository(db *sql.DB) *SqliteStationRepository {
	return &SqliteStationRepository{DB: db}
}

// Return all stations inside the bounding box, ordered by station id.
func (s *SqliteStationRepository) ListStationsInBounds(
	ctx context.Context,
	minLat, maxLat, minLon, maxLon float64,
) ([]domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite station repository: DB is nil")
	}

	query := `
	SELECT
		station_id, name, lat, lon, operator, connector_type, output_kw, free_parking, no_limit
	FROM stations
	WHERE lat BETWEEN ? AND ?
		AND lon BETWEEN ? AND ?
	ORDER BY station_id;
	`

	rows, err := s.DB.QueryContext(ctx, query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("list stations in bounds: query stations table: %w", err)
	}
	defer rows.Close()

	return scanStations(rows)
}

func scanStations(rows *sql.Rows) ([]domain.Station, error) {
	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(
			&st.ID, &st.Name, &st.Position.Lat, &st.Position.Lon,
			&st.Operator, &st.ConnectorType, &st.OutputKw, &st.FreeParking, &st.NoLimit,
		); err != nil {
			return nil, fmt.Errorf("list stations in bounds: scan row: %w", err)
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations in bounds: row iteration: %w", err)
	}

	return stations, nil
}
