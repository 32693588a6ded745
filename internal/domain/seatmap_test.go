package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeatMap() SeatMap {
	return SeatMap{
		Rows:         10,
		Letters:      []string{"A", "B", "C", "D"},
		AisleAfter:   []string{"B"},
		RowPrices:    map[string]int64{"1": 1500},
		LetterPrices: map[string]int64{"A": 500},
	}
}

func TestParseSeat(t *testing.T) {
	row, letter, err := ParseSeat("12C")
	require.NoError(t, err)
	assert.Equal(t, 12, row)
	assert.Equal(t, "C", letter)

	for _, bad := range []string{"", "C", "12", "0A", "A12"} {
		_, _, err := ParseSeat(bad)
		assert.Error(t, err, bad)
	}
}

func TestSeatMap_Contains(t *testing.T) {
	m := testSeatMap()

	assert.True(t, m.Contains("1A"))
	assert.True(t, m.Contains("10D"))
	assert.False(t, m.Contains("11A"))
	assert.False(t, m.Contains("1E"))
	assert.False(t, m.Contains("garbage"))
}

func TestSeatMap_Seats(t *testing.T) {
	m := SeatMap{Rows: 2, Letters: []string{"A", "B"}}
	assert.Equal(t, []string{"1A", "1B", "2A", "2B"}, m.Seats())
}

func TestSeatMap_SeatPrice(t *testing.T) {
	m := testSeatMap()

	assert.Equal(t, int64(2000), m.SeatPrice("1A"))
	assert.Equal(t, int64(1500), m.SeatPrice("1B"))
	assert.Equal(t, int64(500), m.SeatPrice("7A"))
	assert.Equal(t, int64(0), m.SeatPrice("7C"))
}

func TestSeatMap_Validate(t *testing.T) {
	assert.NoError(t, testSeatMap().Validate())
	assert.True(t, IsValidation(SeatMap{Letters: []string{"A"}}.Validate()))
	assert.True(t, IsValidation(SeatMap{Rows: 3, Letters: []string{"A", "A"}}.Validate()))
	assert.True(t, IsValidation(SeatMap{Rows: 3}.Validate()))
}

func TestSeatMap_HasAisleAfter(t *testing.T) {
	m := testSeatMap()
	assert.True(t, m.HasAisleAfter("B"))
	assert.False(t, m.HasAisleAfter("A"))
}

func TestSeatMap_Cabin(t *testing.T) {
	m := SeatMap{Rows: 2, Letters: []string{"A", "B", "C", "D"}, AisleAfter: []string{"B", "D"}}

	assert.Equal(t, [][]string{
		{"1A", "1B", "", "1C", "1D"},
		{"2A", "2B", "", "2C", "2D"},
	}, m.Cabin(), "no aisle cell after the last letter")
}

func TestSeatHold_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := SeatHold{ExpiresAt: now}

	assert.False(t, h.Expired(now))
	assert.True(t, h.Expired(now.Add(time.Second)))
}

func TestErrors(t *testing.T) {
	err := ConflictError{Seat: "3C", Msg: MsgSeatHeld}
	wrapped := errors.Join(errors.New("tx"), err)

	assert.True(t, IsConflict(wrapped))
	seat, ok := ConflictSeat(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "3C", seat)
	assert.Equal(t, "seat 3C: already held", err.Error())

	assert.True(t, IsNotFound(NotFoundError{Resource: "flight"}))
	assert.Equal(t, "flight not found", NotFoundError{Resource: "flight"}.Error())
	assert.Equal(t, "seats: too many", ValidationError{Field: "seats", Msg: "too many"}.Error())
	assert.False(t, IsValidation(err))
}

func TestSeatsOf(t *testing.T) {
	a, empty := "1A", ""
	pairs := []PassengerSeat{{PassengerID: 1, SeatNumber: &a}, {PassengerID: 2}, {PassengerID: 3, SeatNumber: &empty}}
	assert.Equal(t, []string{"1A"}, SeatsOf(pairs))
}
