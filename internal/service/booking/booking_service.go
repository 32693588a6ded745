package booking

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/Domenick1991/seatreserve/internal/kafka"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/pricing"
	"github.com/Domenick1991/seatreserve/internal/repository"
	"github.com/Domenick1991/seatreserve/internal/validation"
	"github.com/google/uuid"
)

const (
	DefaultMaxGroupSize       = 9
	DefaultCheckInOpensBefore = 24 * time.Hour
	DefaultCheckInCloses      = 40 * time.Minute
)

type BookingUseCase interface {
	FinalizeBooking(ctx context.Context, input FinalizeInput) (*FinalizeResult, error)
	AssignRandomSeat(ctx context.Context, input RandomSeatInput) (*FinalizeResult, error)
	QuotePrice(ctx context.Context, flightID int64, passengers []domain.PassengerSeat) (*domain.Quote, error)
	GetByReference(ctx context.Context, reference string) ([]domain.Booking, error)
	FindForCheckIn(ctx context.Context, code, callerID string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, reference string, bookingID int64, callerID string) (*domain.Booking, error)
}

// FlightLookup is satisfied by the flight service, which caches seat maps.
type FlightLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	SeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	store              repository.SeatStore
	bookings           repository.BookingRepository
	flights            FlightLookup
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	pricer             pricing.Pricer
	validate           *validation.Validator
	log                *logger.Logger
	maxGroupSize       int
	checkInOpens       time.Duration
	checkInCloses      time.Duration
	now                func() time.Time
	intn               func(n int) int
	newReference       func() (string, error)
	newTicket          func() (string, error)
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPricer(p pricing.Pricer) BookingServiceOption {
	return func(s *BookingService) {
		s.pricer = p
	}
}

func WithMaxGroupSize(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxGroupSize = n
		}
	}
}

// WithCheckInWindow sets how long before departure check-in opens and closes.
func WithCheckInWindow(opensBefore, closesBefore time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.checkInOpens = opensBefore
		s.checkInCloses = closesBefore
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// WithRandom replaces the seat picker used by AssignRandomSeat.
func WithRandom(intn func(n int) int) BookingServiceOption {
	return func(s *BookingService) {
		s.intn = intn
	}
}

func WithCodeGenerators(reference, ticket func() (string, error)) BookingServiceOption {
	return func(s *BookingService) {
		s.newReference = reference
		s.newTicket = ticket
	}
}

func WithLogger(log *logger.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

// NewBookingService wires the finalizer. producer may be nil, in which case
// no events are published.
func NewBookingService(
	store repository.SeatStore,
	bookings repository.BookingRepository,
	flights FlightLookup,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		store:         store,
		bookings:      bookings,
		flights:       flights,
		producer:      producer,
		bookingTopic:  bookingTopic,
		pricer:        pricing.NewPricer(pricing.DefaultSurchargeUnit),
		validate:      validation.New(),
		log:           logger.Nop(),
		maxGroupSize:  DefaultMaxGroupSize,
		checkInOpens:  DefaultCheckInOpensBefore,
		checkInCloses: DefaultCheckInCloses,
		now:           time.Now,
		intn:          rand.IntN,
		newReference:  NewBookingReference,
		newTicket:     NewTicketNumber,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// QuotePrice prices a proposed assignment without touching seat state.
func (s *BookingService) QuotePrice(ctx context.Context, flightID int64, passengers []domain.PassengerSeat) (*domain.Quote, error) {
	if flightID <= 0 {
		return nil, domain.ValidationError{Field: "flight_id", Msg: "must be greater than 0"}
	}
	passengers = normalizePassengers(passengers)
	if err := checkDuplicates(passengers); err != nil {
		return nil, err
	}
	layout, err := s.flights.SeatMap(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if err := checkSeatsOnLayout(layout, passengers); err != nil {
		return nil, err
	}
	quote := s.pricer.Quote(*layout, passengers)
	return &quote, nil
}

func (s *BookingService) GetByReference(ctx context.Context, reference string) ([]domain.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, domain.ValidationError{Field: "reference", Msg: "is required"}
	}
	return s.bookings.GetByReference(ctx, reference)
}

// FindForCheckIn resolves a ticket number or a booking reference to the
// caller's Confirmed bookings, provided check-in is open for the flight.
// Bookings made by someone else are reported as not found.
func (s *BookingService) FindForCheckIn(ctx context.Context, code, callerID string) ([]domain.Booking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch {
	case code == "":
		return nil, domain.ValidationError{Field: "code", Msg: "is required"}
	case callerID == "":
		return nil, domain.ValidationError{Field: "caller_id", Msg: "is required"}
	}

	var candidates []domain.Booking
	if strings.HasPrefix(code, ticketPrefix) {
		b, err := s.bookings.GetByTicket(ctx, code)
		if err != nil {
			return nil, err
		}
		candidates = []domain.Booking{*b}
	} else {
		group, err := s.bookings.GetByReference(ctx, code)
		if err != nil {
			return nil, err
		}
		candidates = group
	}

	var found []domain.Booking
	for _, b := range candidates {
		if b.Status == domain.BookingStatusConfirmed && b.BookedBy == callerID {
			found = append(found, b)
		}
	}
	if len(found) == 0 {
		return nil, domain.NotFoundError{Resource: "booking"}
	}

	flight, err := s.flights.GetByID(ctx, found[0].FlightID)
	if err != nil {
		return nil, err
	}
	if err := s.checkInOpen(flight); err != nil {
		return nil, err
	}
	return found, nil
}

// CancelBooking cancels one booking of a group. Only the caller who made the
// booking may cancel it; anyone else gets NotFound.
func (s *BookingService) CancelBooking(ctx context.Context, reference string, bookingID int64, callerID string) (*domain.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	switch {
	case reference == "":
		return nil, domain.ValidationError{Field: "reference", Msg: "is required"}
	case bookingID <= 0:
		return nil, domain.ValidationError{Field: "booking_id", Msg: "must be greater than 0"}
	case callerID == "":
		return nil, domain.ValidationError{Field: "caller_id", Msg: "is required"}
	}

	cancelled, err := s.bookings.Cancel(ctx, reference, bookingID, callerID)
	if err != nil {
		return nil, err
	}

	s.log.Info("booking cancelled", "booking_reference", reference, "booking_id", bookingID, "caller_id", callerID)
	var seats []string
	if cancelled.SeatNumber != nil {
		seats = []string{*cancelled.SeatNumber}
	}
	s.publish(ctx, kafka.BookingEvent{
		Type:             kafka.EventBookingCancelled,
		BookingReference: reference,
		FlightID:         cancelled.FlightID,
		CallerID:         callerID,
		TicketNumbers:    []string{cancelled.TicketNumber},
		SeatNumbers:      seats,
		Status:           string(cancelled.Status),
	})
	return cancelled, nil
}

// publish is best effort: the booking is already committed, so a broker
// failure is logged and swallowed.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = s.now().UTC()

	if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingReference, event); err != nil {
		s.log.Warn("failed to publish booking event", "type", event.Type, "booking_reference", event.BookingReference, "error", err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingReference, event); err != nil {
			s.log.Warn("failed to publish notification", "type", event.Type, "booking_reference", event.BookingReference, "error", err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
