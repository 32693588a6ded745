package domain

import "time"

type Flight struct {
	ID            int64     `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	FromAirport   string    `json:"from_airport"`
	ToAirport     string    `json:"to_airport"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	AircraftModel string    `json:"aircraft_model"`
	BaseFareCents int64     `json:"base_fare_cents"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
