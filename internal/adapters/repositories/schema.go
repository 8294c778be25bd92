package repositories

import (
	"context"
	"database/sql"
	"dispatch-planner/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the stops and vehicles tables. The DDL is valid on both sqlite and postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		customer_id INTEGER NOT NULL DEFAULT 0,
		customer_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		scheduled_date TEXT NOT NULL,
		status TEXT NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		plate TEXT NOT NULL DEFAULT '',
		driver_id INTEGER NOT NULL DEFAULT 0,
		driver_name TEXT NOT NULL DEFAULT '',
		capacity DOUBLE PRECISION NOT NULL DEFAULT 0,
		selected BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stops_scheduled_date
	ON stops(scheduled_date);
	`

	statements := []string{
		createStopsQuery,
		createVehiclesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StopSeed struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	CustomerID    int     `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Weight        float64 `json:"weight"`
	ScheduledDate string  `json:"scheduled_date"`
	Status        string  `json:"status"`
}

type VehicleSeed struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Plate      string  `json:"plate"`
	DriverID   int     `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	Capacity   float64 `json:"capacity"`
	Selected   bool    `json:"selected"`
}

type Seed struct {
	Stops    []StopSeed    `json:"stops"`
	Vehicles []VehicleSeed `json:"vehicles"`
}

func (s Seed) validate() error {
	for i, st := range s.Stops {
		if st.ID <= 0 {
			return fmt.Errorf("stop at index %d: invalid id %d", i, st.ID)
		}
		if strings.TrimSpace(st.Name) == "" {
			return fmt.Errorf("stop id=%d: name cannot be empty", st.ID)
		}
		if st.Weight < 0 {
			return fmt.Errorf("stop id=%d: negative weight %v", st.ID, st.Weight)
		}
		if _, err := time.Parse(domain.DateLayout, st.ScheduledDate); err != nil {
			return fmt.Errorf("stop id=%d: scheduled_date: %w", st.ID, err)
		}
	}
	for i, v := range s.Vehicles {
		if v.ID <= 0 {
			return fmt.Errorf("vehicle at index %d: invalid id %d", i, v.ID)
		}
		if v.Capacity < 0 {
			return fmt.Errorf("vehicle id=%d: negative capacity %v", v.ID, v.Capacity)
		}
	}
	return nil
}

// Populate the database with stop and vehicle data from a JSON file.
// Existing rows with the same id are overwritten.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed dispatch data: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed dispatch data: parse json: %w", err)
	}
	if err := data.validate(); err != nil {
		return fmt.Errorf("seed dispatch data: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed dispatch data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stopQuery := dialect.Rebind(`
	INSERT INTO stops (
		id, name, customer_id, customer_name, address,
		lat, lon, weight, scheduled_date, status
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		customer_id = excluded.customer_id,
		customer_name = excluded.customer_name,
		address = excluded.address,
		lat = excluded.lat,
		lon = excluded.lon,
		weight = excluded.weight,
		scheduled_date = excluded.scheduled_date,
		status = excluded.status;
	`)
	stmt, err := tx.PrepareContext(ctx, stopQuery)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare stop insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range data.Stops {
		_, err := stmt.ExecContext(ctx,
			s.ID, strings.TrimSpace(s.Name), s.CustomerID, s.CustomerName, s.Address,
			s.Lat, s.Lon, s.Weight, s.ScheduledDate, s.Status,
		)
		if err != nil {
			return fmt.Errorf("seed dispatch data: insert stop id=%d: %w", s.ID, err)
		}
	}

	vehicleQuery := dialect.Rebind(`
	INSERT INTO vehicles (
		id, name, plate, driver_id, driver_name, capacity, selected
	)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		plate = excluded.plate,
		driver_id = excluded.driver_id,
		driver_name = excluded.driver_name,
		capacity = excluded.capacity,
		selected = excluded.selected;
	`)
	vstmt, err := tx.PrepareContext(ctx, vehicleQuery)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare vehicle insert: %w", err)
	}
	defer vstmt.Close()

	for _, v := range data.Vehicles {
		_, err := vstmt.ExecContext(ctx,
			v.ID, v.Name, v.Plate, v.DriverID, v.DriverName, v.Capacity, v.Selected,
		)
		if err != nil {
			return fmt.Errorf("seed dispatch data: insert vehicle id=%d: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed dispatch data: commit tx: %w", err)
	}

	return nil
}
