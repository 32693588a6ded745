// Package pricing quotes seat selections made at check-in.
package pricing

import (
	"sort"

	"github.com/Domenick1991/seatreserve/internal/domain"
)

const DefaultSurchargeUnit int64 = 500

// Pricer charges every seat its layout add-ons and adds SurchargeUnit once
// per pair of physically adjacent letters taken in the same row.
type Pricer struct {
	SurchargeUnit int64
}

func NewPricer(surchargeUnit int64) Pricer {
	if surchargeUnit <= 0 {
		surchargeUnit = DefaultSurchargeUnit
	}
	return Pricer{SurchargeUnit: surchargeUnit}
}

// Quote never touches state. Passengers without a seat and seats that do
// not parse contribute nothing.
func (p Pricer) Quote(m domain.SeatMap, pairs []domain.PassengerSeat) domain.Quote {
	var q domain.Quote
	byRow := make(map[int][]int)

	for _, seat := range domain.SeatsOf(pairs) {
		row, letter, err := domain.ParseSeat(seat)
		if err != nil {
			continue
		}
		q.BaseTotal += m.SeatPrice(seat)
		byRow[row] = append(byRow[row], m.LetterIndex(letter))
	}

	for _, idx := range byRow {
		sort.Ints(idx)
		for i := 0; i+1 < len(idx); i++ {
			if idx[i] >= 0 && idx[i+1] == idx[i]+1 {
				q.NeighborSurcharge += p.SurchargeUnit
			}
		}
	}

	q.Total = q.BaseTotal + q.NeighborSurcharge
	return q
}
