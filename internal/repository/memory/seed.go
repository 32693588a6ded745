package memory

import (
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
)

// SeedDemo adds a few flights departing relative to now. One of them is
// inside the check-in window.
func SeedDemo(s *Store, now time.Time) {
	narrow := domain.SeatMap{
		Rows:         30,
		Letters:      []string{"A", "B", "C", "D", "E", "F"},
		AisleAfter:   []string{"C"},
		RowPrices:    map[string]int64{"1": 3000, "2": 3000, "12": 1500},
		LetterPrices: map[string]int64{"A": 500, "F": 500},
	}
	regional := domain.SeatMap{
		Rows:         20,
		Letters:      []string{"A", "C", "D", "F"},
		AisleAfter:   []string{"C"},
		LetterPrices: map[string]int64{"A": 300, "F": 300},
	}

	day := now.Truncate(time.Hour)
	s.AddFlight(domain.Flight{
		ID: 1, FlightNumber: "SU1234", FromAirport: "SVO", ToAirport: "LED",
		DepartureTime: day.Add(6 * time.Hour), ArrivalTime: day.Add(7*time.Hour + 30*time.Minute),
		AircraftModel: "A320", BaseFareCents: 550000,
	}, narrow)
	s.AddFlight(domain.Flight{
		ID: 2, FlightNumber: "SU1402", FromAirport: "LED", ToAirport: "KZN",
		DepartureTime: day.Add(72 * time.Hour), ArrivalTime: day.Add(74 * time.Hour),
		AircraftModel: "SSJ100", BaseFareCents: 390000,
	}, regional)
	s.AddFlight(domain.Flight{
		ID: 3, FlightNumber: "SU0020", FromAirport: "SVO", ToAirport: "AER",
		DepartureTime: day.Add(7 * 24 * time.Hour), ArrivalTime: day.Add(7*24*time.Hour + 2*time.Hour + 20*time.Minute),
		AircraftModel: "A320", BaseFareCents: 720000,
	}, narrow)
}
