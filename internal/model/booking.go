package model

import "time"

// Booking is the confirmed result of a booking transaction.  It is built
// only after the seat map write has succeeded and is handed straight to
// the ticket generator.
//
// Fields:
//
//	ID          – UUID used to key the optional booking log.
//	PatronName  – name printed on the ticket ("Guest" when not supplied).
//	PatronEmail – contact address, may be empty.
//	Show        – resolved catalog entry.
//	Seats       – seat codes in request order.
//	Total       – sum of seat prices.
//	CreatedAt   – commit time (UTC).
type Booking struct {
	ID          string    `json:"id"`
	PatronName  string    `json:"name"`
	PatronEmail string    `json:"email"`
	Show        Show      `json:"show"`
	Seats       []string  `json:"seats"`
	Total       int       `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}
