package pricing

import (
	"testing"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/stretchr/testify/assert"
)

func layout() domain.SeatMap {
	return domain.SeatMap{
		Rows:         10,
		Letters:      []string{"A", "B", "C", "D"},
		AisleAfter:   []string{"B"},
		RowPrices:    map[string]int64{"1": 1500},
		LetterPrices: map[string]int64{"A": 500},
	}
}

func seat(s string) *string { return &s }

func group(seats ...string) []domain.PassengerSeat {
	pairs := make([]domain.PassengerSeat, 0, len(seats))
	for i, s := range seats {
		pairs = append(pairs, domain.PassengerSeat{PassengerID: int64(i + 1), SeatNumber: seat(s)})
	}
	return pairs
}

func TestQuote_AdjacentPairInFirstRow(t *testing.T) {
	q := NewPricer(500).Quote(layout(), group("1A", "1B"))

	assert.Equal(t, domain.Quote{BaseTotal: 3500, NeighborSurcharge: 500, Total: 4000}, q)
}

func TestQuote_AisleDoesNotBreakAdjacency(t *testing.T) {
	q := NewPricer(500).Quote(layout(), group("5B", "5C"))

	assert.Equal(t, int64(0), q.BaseTotal)
	assert.Equal(t, int64(500), q.NeighborSurcharge)
}

func TestQuote_ChargedPerPairNotPerSeat(t *testing.T) {
	q := NewPricer(500).Quote(layout(), group("4D", "4A", "4C", "4B"))

	assert.Equal(t, int64(500), q.BaseTotal)
	assert.Equal(t, int64(1500), q.NeighborSurcharge)
	assert.Equal(t, int64(2000), q.Total)
}

func TestQuote_DifferentRowsAndGaps(t *testing.T) {
	q := NewPricer(500).Quote(layout(), group("3A", "4B", "6A", "6C"))

	assert.Equal(t, int64(0), q.NeighborSurcharge)
	assert.Equal(t, int64(1000), q.BaseTotal)
}

func TestQuote_IgnoresSeatlessPassengers(t *testing.T) {
	pairs := append(group("2A"), domain.PassengerSeat{PassengerID: 9})
	q := NewPricer(0).Quote(layout(), pairs)

	assert.Equal(t, domain.Quote{BaseTotal: 500, Total: 500}, q)
}

func TestQuote_Empty(t *testing.T) {
	assert.Equal(t, domain.Quote{}, NewPricer(500).Quote(layout(), nil))
}
