package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/service/booking"
	"github.com/Domenick1991/seatreserve/internal/service/seats"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router   *gin.Engine
	flights  *MockFlightUseCase
	seats    *MockSeatUseCase
	bookings *MockBookingUseCase
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := &testAPI{flights: &MockFlightUseCase{}, seats: &MockSeatUseCase{}, bookings: &MockBookingUseCase{}}
	a.router = NewRouter(RouterConfig{Flights: a.flights, Seats: a.seats, Bookings: a.bookings})
	return a
}

func (a *testAPI) do(method, path, caller, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if caller != "" {
		req.Header.Set(HeaderCallerID, caller)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRouter_Healthz(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestFlightHandler_List(t *testing.T) {
	a := newTestAPI(t)
	flights := []domain.Flight{{ID: 1, FlightNumber: "SU100", FromAirport: "SVO", ToAirport: "LED"}}
	a.flights.On("List", mock.Anything).Return(flights, nil).Once()

	w := a.do(http.MethodGet, "/api/v1/flights", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.Flight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "SU100", got[0].FlightNumber)
	a.flights.AssertExpectations(t)
}

func TestFlightHandler_Get(t *testing.T) {
	a := newTestAPI(t)
	a.flights.On("GetByID", mock.Anything, int64(7)).Return(nil, domain.NotFoundError{Resource: "flight"}).Once()

	w := a.do(http.MethodGet, "/api/v1/flights/7", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/v1/flights/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeatHandler_Availability(t *testing.T) {
	a := newTestAPI(t)
	view := &domain.Availability{FlightID: 3, Booked: []string{"1A"}, HeldByOthers: []string{"2B"}, HeldByCaller: []string{}}
	a.seats.On("GetAvailability", mock.Anything, int64(3), "alice").Return(view, nil).Once()
	a.seats.On("GetAvailability", mock.Anything, int64(3), "").Return(view, nil).Once()

	w := a.do(http.MethodGet, "/api/v1/flights/3/seats", "alice", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/v1/flights/3/seats", "", "")
	assert.Equal(t, http.StatusOK, w.Code, "anonymous callers may read the seat map")
	a.seats.AssertExpectations(t)
}

func TestSeatHandler_SetHolds(t *testing.T) {
	a := newTestAPI(t)
	expires := time.Date(2026, 5, 1, 12, 10, 0, 0, time.UTC)
	in := seats.SetHoldsInput{FlightID: 3, CallerID: "alice", SeatNumbers: []string{"1A", "1B"}}
	a.seats.On("SetHolds", mock.Anything, in).
		Return(&seats.HoldResult{FlightID: 3, Seats: []string{"1A", "1B"}, ExpiresAt: expires}, nil).Once()

	w := a.do(http.MethodPut, "/api/v1/flights/3/holds", "alice", `{"seat_numbers":["1A","1B"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got seats.HoldResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, expires, got.ExpiresAt)
	a.seats.AssertExpectations(t)
}

func TestSeatHandler_SetHolds_Conflict(t *testing.T) {
	a := newTestAPI(t)
	a.seats.On("SetHolds", mock.Anything, mock.Anything).
		Return(nil, domain.ConflictError{Seat: "1B", Msg: domain.MsgSeatHeld}).Once()

	w := a.do(http.MethodPut, "/api/v1/flights/3/holds", "alice", `{"seat_numbers":["1A","1B"]}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "1B", resp.Seat)
	assert.NotEmpty(t, resp.RequestID)
}

func TestSeatHandler_SetHolds_MissingCaller(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPut, "/api/v1/flights/3/holds", "", `{"seat_numbers":["1A"]}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	a.seats.AssertNotCalled(t, "SetHolds")
}

func TestSeatHandler_SetHolds_BadBody(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodPut, "/api/v1/flights/3/holds", "alice", `{"seat_numbers":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Finalize(t *testing.T) {
	a := newTestAPI(t)
	seat := "2C"
	in := booking.FinalizeInput{
		FlightID:   3,
		CallerID:   "alice",
		Passengers: []domain.PassengerSeat{{PassengerID: 5, SeatNumber: &seat}, {PassengerID: 6}},
		Purpose:    domain.BookingPurposePurchase,
	}
	res := &booking.FinalizeResult{BookingReference: "QX7P2M", TicketNumbers: []string{"TKT-AAAAAAAAA", "TKT-BBBBBBBBB"}, TotalCents: 20000}
	a.bookings.On("FinalizeBooking", mock.Anything, in).Return(res, nil).Once()

	w := a.do(http.MethodPost, "/api/v1/flights/3/bookings", "alice",
		`{"passengers":[{"passenger_id":5,"seat_number":"2C"},{"passenger_id":6}],"purpose":"purchase","fare_cents":1}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var got booking.FinalizeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "QX7P2M", got.BookingReference)
	a.bookings.AssertExpectations(t)
}

func TestBookingHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.ValidationError{Field: "passengers", Msg: "is required"}, http.StatusBadRequest},
		{"not found", domain.NotFoundError{Resource: "flight"}, http.StatusNotFound},
		{"conflict", domain.ConflictError{Seat: "3C", Msg: domain.MsgSeatBooked}, http.StatusConflict},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t)
			a.bookings.On("FinalizeBooking", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w := a.do(http.MethodPost, "/api/v1/flights/3/bookings", "alice", `{"passengers":[{"passenger_id":1}]}`)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "connection reset")
			}
		})
	}
}

func TestBookingHandler_Random(t *testing.T) {
	a := newTestAPI(t)
	in := booking.RandomSeatInput{FlightID: 3, CallerID: "alice", PassengerID: 9, Purpose: domain.BookingPurposeCheckIn}
	a.bookings.On("AssignRandomSeat", mock.Anything, in).Return(&booking.FinalizeResult{BookingReference: "R4ND0M"}, nil).Once()

	w := a.do(http.MethodPost, "/api/v1/flights/3/bookings/random", "alice", `{"passenger_id":9,"purpose":"check_in"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	a.bookings.AssertExpectations(t)
}

func TestBookingHandler_Quote(t *testing.T) {
	a := newTestAPI(t)
	a.bookings.On("QuotePrice", mock.Anything, int64(3), mock.Anything).
		Return(&domain.Quote{BaseTotal: 1000, NeighborSurcharge: 500, Total: 1500}, nil).Once()

	w := a.do(http.MethodPost, "/api/v1/flights/3/quote", "", `{"passengers":[{"passenger_id":1,"seat_number":"1A"},{"passenger_id":2,"seat_number":"1B"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var q domain.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, int64(1500), q.Total)
}

func TestBookingHandler_GetAndCancel(t *testing.T) {
	a := newTestAPI(t)
	seat := "4C"
	b := domain.Booking{ID: 11, BookingReference: "QX7P2M", SeatNumber: &seat, Status: domain.BookingStatusConfirmed}
	a.bookings.On("GetByReference", mock.Anything, "QX7P2M").Return([]domain.Booking{b}, nil).Once()

	cancelled := b
	cancelled.Status = domain.BookingStatusCancelled
	a.bookings.On("CancelBooking", mock.Anything, "QX7P2M", int64(11), "alice").Return(&cancelled, nil).Once()
	a.bookings.On("CancelBooking", mock.Anything, "QX7P2M", int64(11), "mallory").Return(nil, domain.NotFoundError{Resource: "booking"}).Once()

	w := a.do(http.MethodGet, "/api/v1/bookings/QX7P2M", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodDelete, "/api/v1/bookings/QX7P2M/11", "mallory", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodDelete, "/api/v1/bookings/QX7P2M/11", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)

	w = a.do(http.MethodDelete, "/api/v1/bookings/QX7P2M/x", "alice", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	a.bookings.AssertExpectations(t)
}

func TestBookingHandler_FindForCheckIn(t *testing.T) {
	a := newTestAPI(t)
	b := domain.Booking{ID: 3, BookingReference: "QX7P2M", TicketNumber: "TKT-AAAAAAAAA", Status: domain.BookingStatusConfirmed}
	a.bookings.On("FindForCheckIn", mock.Anything, "TKT-AAAAAAAAA", "alice").Return([]domain.Booking{b}, nil).Once()
	a.bookings.On("FindForCheckIn", mock.Anything, "TKT-AAAAAAAAA", "bob").
		Return(nil, domain.ValidationError{Field: "purpose", Msg: "check-in is closed for this flight"}).Once()

	w := a.do(http.MethodGet, "/api/v1/bookings/TKT-AAAAAAAAA/check-in", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "TKT-AAAAAAAAA", got[0].TicketNumber)

	w = a.do(http.MethodGet, "/api/v1/bookings/TKT-AAAAAAAAA/check-in", "bob", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/bookings/TKT-AAAAAAAAA/check-in", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	a.bookings.AssertExpectations(t)
}

func TestRouter_NoRoute(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/api/v2/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ServesDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, swaggerDocFile), []byte(`{"swagger":"2.0"}`), 0o600))

	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Flights: &MockFlightUseCase{}, Seats: &MockSeatUseCase{}, Bookings: &MockBookingUseCase{}, SwaggerDir: dir})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/"+swaggerDocFile, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
