package ticket

import (
	"encoding/json"
	"fmt"

	"github.com/iliyamo/rangbhumi-booking/internal/model"
)

// Payload is the text carried by the ticket's QR code.  Field order is
// part of the format: name, show, seats.
type Payload struct {
	Name  string   `json:"name"`
	Show  string   `json:"show"`
	Seats []string `json:"seats"`
}

// NewPayload extracts the QR payload from a booking.
func NewPayload(b model.Booking) Payload {
	seats := make([]string, len(b.Seats))
	copy(seats, b.Seats)
	return Payload{Name: b.PatronName, Show: b.Show.Title, Seats: seats}
}

// Encode returns the JSON text placed in the QR code.
func (p Payload) Encode() ([]byte, error) {
	if p.Seats == nil {
		p.Seats = []string{}
	}
	return json.Marshal(p)
}

// DecodePayload parses text scanned from a ticket.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode ticket payload: %w", err)
	}
	return p, nil
}
