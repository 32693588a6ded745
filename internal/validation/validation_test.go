package validation

import (
	"testing"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	FlightID int64    `json:"flight_id" validate:"gt=0"`
	CallerID string   `json:"caller_id" validate:"required"`
	Seats    []string `json:"seat_numbers" validate:"dive,seat"`
}

func TestValidator_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(request{FlightID: 1, CallerID: "u", Seats: []string{"1A", "12F"}}))
}

func TestValidator_ReportsFirstFieldByJSONName(t *testing.T) {
	v := New()

	err := v.Struct(request{FlightID: 0, CallerID: "u"})
	require.Error(t, err)
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "flight_id", verr.Field)
	assert.Equal(t, "must be greater than 0", verr.Msg)
}

func TestValidator_SeatTag(t *testing.T) {
	v := New()

	err := v.Struct(request{FlightID: 1, CallerID: "u", Seats: []string{"1A", "A1"}})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), `malformed seat "A1"`)
	assert.Contains(t, err.Error(), "seat_numbers[1]")
}

func TestValidator_Required(t *testing.T) {
	err := New().Struct(request{FlightID: 1})
	assert.EqualError(t, err, "caller_id: is required")
}
