// Package queue defines the booking.confirmed message and its log-file
// consumer.
package queue

import (
	"time"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// BookingConfirmedQueue is the durable queue booking events are sent to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking is committed.  It
// carries enough for downstream consumers to log or notify without
// reading the seat store.
type BookingConfirmedEvent struct {
	BookingID   string   `json:"booking_id"`
	ShowID      int      `json:"show_id"`
	ShowTitle   string   `json:"show_title"`
	StartsAt    string   `json:"starts_at"`
	PatronName  string   `json:"patron_name"`
	PatronEmail string   `json:"patron_email,omitempty"`
	Seats       []string `json:"seats"`
	Total       int      `json:"total"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event for b.
func NewBookingConfirmedEvent(b model.Booking) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:   b.ID,
		ShowID:      b.Show.ID,
		ShowTitle:   b.Show.Title,
		StartsAt:    b.Show.DateTime,
		PatronName:  b.PatronName,
		PatronEmail: b.PatronEmail,
		Seats:       append([]string(nil), b.Seats...),
		Total:       b.Total,
		ConfirmedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
