package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/jackc/pgx/v5"
)

const flightColumns = `f.id, f.flight_number, f.from_airport, f.to_airport, f.departure_time, f.arrival_time,
	am.code, f.base_fare_cents, f.created_at, f.updated_at`

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights f
		JOIN aircraft_models am ON am.id = f.aircraft_model_id
		ORDER BY f.departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights f
		JOIN aircraft_models am ON am.id = f.aircraft_model_id
		WHERE f.id=$1`, id)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "flight", Err: err}
	}
	return f, err
}

func (r *PGFlightRepository) SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT am.seat_map FROM flights f
		JOIN aircraft_models am ON am.id = f.aircraft_model_id
		WHERE f.id=$1`, flightID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "flight", Err: err}
	}
	if err != nil {
		return nil, err
	}

	var m domain.SeatMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode seat map of flight %d: %w", flightID, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("seat map of flight %d: %w", flightID, err)
	}
	return &m, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.FromAirport, &f.ToAirport, &f.DepartureTime, &f.ArrivalTime,
		&f.AircraftModel, &f.BaseFareCents, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
