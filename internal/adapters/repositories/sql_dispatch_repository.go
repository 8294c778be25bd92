package repositories

import (
	"context"
	"database/sql"
	"dispatch-planner/internal/domain"
	"errors"
	"fmt"
	"time"
)

// database/sql implementation of the DispatchRepository port, for sqlite and postgres.
type SQLDispatchRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLDispatchRepository(db *sql.DB, dialect Dialect) *SQLDispatchRepository {
	return &SQLDispatchRepository{DB: db, Dialect: dialect}
}

func (s *SQLDispatchRepository) Ping(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sql dispatch repository: DB is nil")
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Return all stops scheduled on date, ordered by id.
func (s *SQLDispatchRepository) ListStops(ctx context.Context, date time.Time) ([]domain.Stop, error) {
	if s.DB == nil {
		return nil, errors.New("sql dispatch repository: DB is nil")
	}

	day := date.Format(domain.DateLayout)
	query := s.Dialect.Rebind(`
	SELECT
		id,
		name,
		customer_id,
		customer_name,
		address,
		lat,
		lon,
		weight,
		scheduled_date,
		status
	FROM stops
	WHERE scheduled_date = ?
	ORDER BY id;
	`)
	rows, err := s.DB.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table date=%s: %w", day, err)
	}
	defer rows.Close()

	stops := make([]domain.Stop, 0, 64)
	for rows.Next() {
		var st domain.Stop
		var scheduled string
		err := rows.Scan(
			&st.ID, &st.Name, &st.CustomerID, &st.CustomerName, &st.Address,
			&st.Location.Lat, &st.Location.Lon, &st.Weight, &scheduled, &st.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		if st.ScheduledDate, err = time.Parse(domain.DateLayout, scheduled); err != nil {
			return nil, fmt.Errorf("list stops: stop id=%d: parse scheduled_date: %w", st.ID, err)
		}
		stops = append(stops, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

// Return the whole fleet, ordered by id.
func (s *SQLDispatchRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sql dispatch repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		plate,
		driver_id,
		driver_name,
		capacity,
		selected
	FROM vehicles
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		err := rows.Scan(&v.ID, &v.Name, &v.Plate, &v.DriverID, &v.DriverName, &v.Capacity, &v.Selected)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
