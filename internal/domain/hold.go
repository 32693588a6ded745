package domain

import "time"

// SeatHold is a soft, time-limited claim on one seat of one flight.
type SeatHold struct {
	FlightID   int64     `json:"flight_id"`
	SeatNumber string    `json:"seat_number"`
	HolderID   string    `json:"holder_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the hold must be treated as absent at now.
func (h SeatHold) Expired(now time.Time) bool {
	return h.ExpiresAt.Before(now)
}

// Availability is the seat picture of one flight as seen by one caller.
// The three seat sets are disjoint.
type Availability struct {
	FlightID     int64      `json:"flight_id"`
	Layout       SeatMap    `json:"layout"`
	Cabin        [][]string `json:"cabin"`
	Booked       []string   `json:"booked"`
	HeldByOthers []string   `json:"held_by_others"`
	HeldByCaller []string   `json:"held_by_caller"`
}
