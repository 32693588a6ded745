package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed input before any transaction opens.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

// ConflictError reports the seat that lost a race. The transaction that
// produced it was rolled back.
type ConflictError struct {
	Seat string
	Msg  string
	Err  error
}

func (e ConflictError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "conflict"
	}
	if e.Seat == "" {
		return msg
	}
	return fmt.Sprintf("seat %s: %s", e.Seat, msg)
}

func (e ConflictError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

const (
	MsgSeatBooked = "already booked"
	MsgSeatHeld   = "already held"
	MsgNoFreeSeat = "no free seat left"
)

// PassengerBookedError rejects a second Confirmed booking of one passenger
// on one flight.
func PassengerBookedError(passengerID int64, err error) ConflictError {
	return ConflictError{Msg: fmt.Sprintf("passenger %d already booked on this flight", passengerID), Err: err}
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// ConflictSeat returns the seat carried by a ConflictError in err's chain.
func ConflictSeat(err error) (string, bool) {
	var target ConflictError
	if !errors.As(err, &target) {
		return "", false
	}
	return target.Seat, true
}
