package booking

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejected booking request.
type ErrorKind string

const (
	KindNoSeatsSelected   ErrorKind = "no_seats_selected"
	KindShowNotFound      ErrorKind = "show_not_found"
	KindUnknownSeat       ErrorKind = "unknown_seat"
	KindSeatAlreadyBooked ErrorKind = "seat_already_booked"
	KindDuplicateSeat     ErrorKind = "duplicate_seat_in_request"
)

// Error is returned for every request the engine rejects without touching
// the seat map.  Seat or ShowID identify the offending input.
type Error struct {
	Kind   ErrorKind
	ShowID int
	Seat   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoSeatsSelected:
		return "No seats selected"
	case KindShowNotFound:
		return fmt.Sprintf("Show %d not found", e.ShowID)
	case KindUnknownSeat:
		return fmt.Sprintf("Seat %q does not exist", e.Seat)
	case KindSeatAlreadyBooked:
		return fmt.Sprintf("Seat %s already booked.", e.Seat)
	case KindDuplicateSeat:
		return fmt.Sprintf("Seat %s requested more than once", e.Seat)
	}
	return string(e.Kind)
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, booking.ErrSeatAlreadyBooked) without knowing the seat.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoSeatsSelected   = &Error{Kind: KindNoSeatsSelected}
	ErrShowNotFound      = &Error{Kind: KindShowNotFound}
	ErrUnknownSeat       = &Error{Kind: KindUnknownSeat}
	ErrSeatAlreadyBooked = &Error{Kind: KindSeatAlreadyBooked}
	ErrDuplicateSeat     = &Error{Kind: KindDuplicateSeat}
)

// ErrBookingHalted is returned once the seat store has been found missing
// or corrupt.  Booking stays disabled until the store is repaired and the
// process restarted.
var ErrBookingHalted = errors.New("booking halted: seat store needs repair")

// AsError extracts the request error from err, if any.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
