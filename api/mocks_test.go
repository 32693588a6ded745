package api

import (
	"context"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/service/booking"
	"github.com/Domenick1991/seatreserve/internal/service/seats"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatMap), args.Error(1)
}

type MockSeatUseCase struct {
	mock.Mock
}

func (m *MockSeatUseCase) GetAvailability(ctx context.Context, flightID int64, callerID string) (*domain.Availability, error) {
	args := m.Called(ctx, flightID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockSeatUseCase) SetHolds(ctx context.Context, input seats.SetHoldsInput) (*seats.HoldResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.HoldResult), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) FinalizeBooking(ctx context.Context, input booking.FinalizeInput) (*booking.FinalizeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.FinalizeResult), args.Error(1)
}

func (m *MockBookingUseCase) AssignRandomSeat(ctx context.Context, input booking.RandomSeatInput) (*booking.FinalizeResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.FinalizeResult), args.Error(1)
}

func (m *MockBookingUseCase) QuotePrice(ctx context.Context, flightID int64, passengers []domain.PassengerSeat) (*domain.Quote, error) {
	args := m.Called(ctx, flightID, passengers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockBookingUseCase) GetByReference(ctx context.Context, reference string) ([]domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) FindForCheckIn(ctx context.Context, code, callerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, code, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, reference string, bookingID int64, callerID string) (*domain.Booking, error) {
	args := m.Called(ctx, reference, bookingID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
